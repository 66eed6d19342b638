package service

import (
	"github.com/shopspring/decimal"

	"github.com/Alexagz79190/promo/internal/model"
)

// BaseMargeFinale selects the cost basis of the resulting-margin computation
// (step 4). Historical runs of the tool disagreed on this point, so it is an
// explicit setting rather than an implicit choice.
type BaseMargeFinale string

const (
	// MargeFinaleReference reuses the run's reference basis, keeping the
	// initial and resulting margins comparable. Default.
	MargeFinaleReference BaseMargeFinale = "reference"
	// MargeFinaleAchatOption always uses "Prix d'achat avec option",
	// whatever the reference basis.
	MargeFinaleAchatOption BaseMargeFinale = "achat_option"
)

func (b BaseMargeFinale) Valide() bool {
	return b == MargeFinaleReference || b == MargeFinaleAchatOption
}

var cent = decimal.NewFromInt(100)

// ResultatCalcul is the outcome of pricing one eligible catalog row.
type ResultatCalcul struct {
	PrixPromo    decimal.Decimal
	TauxMarge    decimal.Decimal // resulting margin on the promo price
	Remise       decimal.Decimal
	RaisonRemise string

	// Exclu is set when the promo price does not drop below the selling
	// price, or when a zero price makes a margin undefined. The row must
	// then go to the excluded partition, never the promoted one.
	Exclu bool
}

// Calculateur derives promotional prices. All rounding is half-to-even at 2
// decimals, applied to the margin before lookup and to every published value.
type Calculateur struct {
	bareme      *BaremeRemises
	base        model.BasePrix
	margeFinale BaseMargeFinale
}

func NewCalculateur(bareme *BaremeRemises, base model.BasePrix, margeFinale BaseMargeFinale) *Calculateur {
	return &Calculateur{bareme: bareme, base: base, margeFinale: margeFinale}
}

// Calculer prices one row:
//
//	marge     = (vente - base) / vente * 100
//	remise    = first matching band for marge
//	prixPromo = vente * (1 - remise/100)
//	taux      = (prixPromo - baseFinale) / prixPromo * 100
//
// A zero selling price makes the margin undefined and diverts the row before
// any lookup. A zero promo price (100% discount) does the same for the
// resulting margin.
func (c *Calculateur) Calculer(p model.Produit) ResultatCalcul {
	if !p.PrixVente.IsPositive() {
		return ResultatCalcul{Exclu: true}
	}

	base := p.PrixBase(c.base)
	marge := p.PrixVente.Sub(base).Div(p.PrixVente).Mul(cent).RoundBank(2)
	remise, raison := c.bareme.Chercher(marge)

	prixPromo := p.PrixVente.Mul(decimal.NewFromInt(1).Sub(remise.Div(cent))).RoundBank(2)
	if prixPromo.GreaterThanOrEqual(p.PrixVente) || prixPromo.IsZero() {
		return ResultatCalcul{
			PrixPromo:    prixPromo,
			Remise:       remise,
			RaisonRemise: raison,
			Exclu:        true,
		}
	}

	baseFinale := base
	if c.margeFinale == MargeFinaleAchatOption {
		baseFinale = p.PrixAchatOption
	}
	taux := prixPromo.Sub(baseFinale).Div(prixPromo).Mul(cent).RoundBank(2)

	return ResultatCalcul{
		PrixPromo:    prixPromo,
		TauxMarge:    taux,
		Remise:       remise,
		RaisonRemise: raison,
	}
}
