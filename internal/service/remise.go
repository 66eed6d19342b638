package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alexagz79190/promo/internal/model"
)

// BaremeRemises is the ordered discount table of a run. Order is the
// tie-break for overlapping bands: the first band containing the margin wins.
type BaremeRemises struct {
	bandes []model.BandeRemise
}

func NewBaremeRemises(bandes []model.BandeRemise) *BaremeRemises {
	return &BaremeRemises{bandes: bandes}
}

// Chercher returns the discount percentage of the first band whose closed
// interval contains marge (already rounded to 2 decimals by the caller),
// together with a justification naming the matched band. No match returns a
// zero discount and an empty justification — that is not an error.
func (b *BaremeRemises) Chercher(marge decimal.Decimal) (decimal.Decimal, string) {
	for _, bande := range b.bandes {
		if bande.Contient(marge) {
			raison := fmt.Sprintf("marge %s dans [%s, %s] : remise %s%%",
				marge.StringFixed(2), bande.MargeMin.String(), bande.MargeMax.String(), bande.Remise.String())
			return bande.Remise, raison
		}
	}
	return decimal.Zero, ""
}
