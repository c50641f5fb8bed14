package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
)

// DateLayout formato de la clave diaria (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// DayKey trunca t al día calendario en loc. loc nil equivale a UTC.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// Aggregate agrupa salidas por día calendario en loc y calcula totales y subtotales por producto.
// Los días salen en orden descendente; dentro de un día se conserva el orden de entrada.
func Aggregate(records []entity.OutboundTransaction, loc *time.Location) []entity.DailyRecord {
	out := make([]entity.DailyRecord, 0)
	if len(records) == 0 {
		return out
	}

	index := make(map[string]int)
	subIndex := make([]map[int64]int, 0)
	for _, rec := range records {
		key := DayKey(rec.OccurredAt, loc)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, entity.DailyRecord{Date: key, TotalRevenue: decimal.Zero})
			subIndex = append(subIndex, make(map[int64]int))
		}
		qty := abs(rec.Delta)
		revenue := rec.UnitPrice.Mul(decimal.NewFromInt(qty))

		day := &out[i]
		day.TotalItems += qty
		day.TotalRevenue = day.TotalRevenue.Add(revenue)
		day.Entries = append(day.Entries, rec)

		j, ok := subIndex[i][rec.ProductID]
		if !ok {
			j = len(day.Products)
			subIndex[i][rec.ProductID] = j
			day.Products = append(day.Products, entity.ProductSubtotal{
				ProductID:   rec.ProductID,
				ProductName: rec.ProductName,
				Revenue:     decimal.Zero,
			})
		}
		day.Products[j].Quantity += qty
		day.Products[j].Revenue = day.Products[j].Revenue.Add(revenue)
	}

	// Las claves YYYY-MM-DD ordenan lexicográficamente igual que cronológicamente.
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date > out[b].Date })
	return out
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
