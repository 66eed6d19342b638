package model

import (
	"github.com/shopspring/decimal"
)

// BandeRemise maps a closed margin interval [MargeMin, MargeMax] to a
// discount percentage (0-100). Bands are kept in table order: when intervals
// overlap, the first band in the table wins, so order is significant.
type BandeRemise struct {
	MargeMin decimal.Decimal // Marge minimale
	MargeMax decimal.Decimal // Marge maximale
	Remise   decimal.Decimal // Remise, percentage
}

// Contient reports whether marge falls inside the band (both ends inclusive).
func (b BandeRemise) Contient(marge decimal.Decimal) bool {
	return marge.GreaterThanOrEqual(b.MargeMin) && marge.LessThanOrEqual(b.MargeMax)
}
