// Package ledger contiene los servicios de dominio puros del libro de stock:
// el recorte de salidas al stock disponible y la agregación diaria de ventas.
package ledger

// ClampOutbound recorta una salida solicitada al stock disponible.
// Devuelve la cantidad a descontar (0 si no hay stock) y si hubo recorte.
func ClampOutbound(requested, available int64) (quantity int64, clamped bool) {
	if available <= 0 {
		return 0, requested > 0
	}
	if requested > available {
		return available, true
	}
	return requested, false
}
