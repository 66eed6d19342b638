package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alexagz79190/promo/internal/model"
)

func produitPrix(vente, achat, revient string) model.Produit {
	return model.Produit{
		Identifiant:     "1",
		Code:            "P-1",
		PrixVente:       decimal.RequireFromString(vente),
		PrixAchatOption: decimal.RequireFromString(achat),
		PrixRevient:     decimal.RequireFromString(revient),
	}
}

// Worked example: vente 100, achat 60 → marge 40.00; bande [30,50]→10% →
// prix promo 90.00; taux final (90-60)/90×100 = 33.33.
func TestCalculerExempleNominal(t *testing.T) {
	bareme := NewBaremeRemises([]model.BandeRemise{bande("30", "50", "10")})
	calc := NewCalculateur(bareme, model.BaseAchatOption, MargeFinaleReference)

	r := calc.Calculer(produitPrix("100", "60", "55"))

	assert.False(t, r.Exclu)
	assert.Equal(t, "90.00", r.PrixPromo.StringFixed(2))
	assert.Equal(t, "33.33", r.TauxMarge.StringFixed(2))
	assert.Equal(t, "10", r.Remise.String())
	assert.NotEmpty(t, r.RaisonRemise)
}

// No matching band → zero discount → promo price equals selling price → the
// row must divert to the excluded partition.
func TestCalculerPrixPromoSansBaisse(t *testing.T) {
	calc := NewCalculateur(NewBaremeRemises(nil), model.BaseAchatOption, MargeFinaleReference)

	r := calc.Calculer(produitPrix("50", "48", "48"))

	assert.True(t, r.Exclu)
	assert.Equal(t, "50.00", r.PrixPromo.StringFixed(2))
	assert.True(t, r.Remise.IsZero())
}

func TestCalculerVenteZero(t *testing.T) {
	bareme := NewBaremeRemises([]model.BandeRemise{bande("-1000", "1000", "10")})
	calc := NewCalculateur(bareme, model.BaseAchatOption, MargeFinaleReference)

	r := calc.Calculer(produitPrix("0", "10", "10"))
	assert.True(t, r.Exclu)
}

// A 100% discount collapses the promo price to zero; the resulting margin is
// then undefined and the row is excluded, not promoted.
func TestCalculerRemiseTotale(t *testing.T) {
	bareme := NewBaremeRemises([]model.BandeRemise{bande("0", "100", "100")})
	calc := NewCalculateur(bareme, model.BaseAchatOption, MargeFinaleReference)

	r := calc.Calculer(produitPrix("100", "60", "55"))
	assert.True(t, r.Exclu)
	assert.True(t, r.PrixPromo.IsZero())
}

func TestCalculerBaseRevient(t *testing.T) {
	// marge sur revient: (100-50)/100×100 = 50 → bande [40,60]
	bareme := NewBaremeRemises([]model.BandeRemise{bande("40", "60", "10")})
	calc := NewCalculateur(bareme, model.BaseRevient, MargeFinaleReference)

	r := calc.Calculer(produitPrix("100", "60", "50"))

	assert.False(t, r.Exclu)
	assert.Equal(t, "90.00", r.PrixPromo.StringFixed(2))
	// taux final sur la base de référence (revient): (90-50)/90×100
	assert.Equal(t, "44.44", r.TauxMarge.StringFixed(2))
}

// The resulting-margin basis is a flag: with MargeFinaleAchatOption the final
// margin always uses "Prix d'achat avec option", even on a revient run.
func TestCalculerMargeFinaleAchatOption(t *testing.T) {
	bareme := NewBaremeRemises([]model.BandeRemise{bande("40", "60", "10")})
	calc := NewCalculateur(bareme, model.BaseRevient, MargeFinaleAchatOption)

	r := calc.Calculer(produitPrix("100", "60", "50"))

	assert.False(t, r.Exclu)
	// (90-60)/90×100 = 33.33
	assert.Equal(t, "33.33", r.TauxMarge.StringFixed(2))
}

// The margin is rounded half-to-even before the lookup: (8-7.99)/8×100 =
// 0.125 rounds to 0.12, which the band [0.12, 0.12] must catch. Half-up
// rounding would give 0.13 and miss it.
func TestCalculerArrondiBancaireAvantRecherche(t *testing.T) {
	bareme := NewBaremeRemises([]model.BandeRemise{bande("0.12", "0.12", "50")})
	calc := NewCalculateur(bareme, model.BaseAchatOption, MargeFinaleReference)

	r := calc.Calculer(produitPrix("8", "7.99", "7.99"))

	assert.False(t, r.Exclu)
	assert.Equal(t, "4.00", r.PrixPromo.StringFixed(2))
	assert.Equal(t, "50", r.Remise.String())
}
