package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Felix-F07/gudang-online/internal/domain"
	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	domledger "github.com/Felix-F07/gudang-online/internal/domain/ledger"
)

// DailyReportUseCase reconstruye el reporte diario de ventas a partir de las salidas del libro.
type DailyReportUseCase struct {
	reader *StockReader
	loc    *time.Location
	pdf    ReportPDFGenerator
}

// NewDailyReportUseCase construye el caso de uso. loc es la zona fija de corte de día.
func NewDailyReportUseCase(reader *StockReader, loc *time.Location, pdf ReportPDFGenerator) *DailyReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyReportUseCase{reader: reader, loc: loc, pdf: pdf}
}

// Location zona horaria usada para truncar a día.
func (uc *DailyReportUseCase) Location() *time.Location { return uc.loc }

// Daily agrega las salidas desde since (nil = todo el historial), día más reciente primero.
func (uc *DailyReportUseCase) Daily(ctx context.Context, since *time.Time) ([]entity.DailyRecord, error) {
	records, err := uc.reader.OutboundSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return domledger.Aggregate(records, uc.loc), nil
}

// Day devuelve el detalle de un día (YYYY-MM-DD). ErrNotFound si ese día no hubo salidas.
func (uc *DailyReportUseCase) Day(ctx context.Context, date string) (*entity.DailyRecord, error) {
	start, err := time.ParseInLocation(domledger.DateLayout, date, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	days, err := uc.Daily(ctx, &start)
	if err != nil {
		return nil, err
	}
	for i := range days {
		if days[i].Date == date {
			return &days[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// DayPDF genera el PDF del día indicado.
func (uc *DailyReportUseCase) DayPDF(ctx context.Context, date string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador PDF no configurado")
	}
	rec, err := uc.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateDailyReportPDF(ctx, *rec, uc.loc.String())
}
