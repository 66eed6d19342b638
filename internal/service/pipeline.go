package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alexagz79190/promo/internal/journal"
	"github.com/Alexagz79190/promo/internal/model"
)

var (
	ErrBasePrixInvalide    = errors.New("base de prix inconnue")
	ErrFenetreInvalide     = errors.New("fenetre de promotion invalide")
	ErrMargeFinaleInvalide = errors.New("base de marge finale inconnue")
)

// Entrees are the already-parsed input tables of one run. Loading the
// spreadsheets is the adapter's job (internal/infra); the pipeline never
// touches a file.
type Entrees struct {
	Catalogue  []model.Produit
	Exclusions model.FeuillesExclusion
	Remises    []model.BandeRemise
	Fenetre    model.FenetrePromo
	Base       model.BasePrix
}

// Options are the run-independent pipeline settings. Historical revisions of
// the tool differed on these three points; they are flags here so a single
// pipeline covers every revision.
type Options struct {
	// ExclusionCartesienne expands the fournisseur/famille sheet to the
	// full cross product of its distinct values. False keeps the literal
	// pairs only.
	ExclusionCartesienne bool
	// BaseMargeFinale picks the cost basis of the resulting margin.
	BaseMargeFinale BaseMargeFinale
	// SeuilMargeBasse and SeuilMargeHaute bound the acceptable resulting
	// margin; rows outside [basse, haute] are flagged for review but stay
	// promoted.
	SeuilMargeBasse decimal.Decimal
	SeuilMargeHaute decimal.Decimal
}

// OptionsParDefaut mirror the behavior of the latest revision: cartesian
// exclusions, resulting margin on the reference basis, acceptable band
// [5, 80].
func OptionsParDefaut() Options {
	return Options{
		ExclusionCartesienne: true,
		BaseMargeFinale:      MargeFinaleReference,
		SeuilMargeBasse:      decimal.NewFromInt(5),
		SeuilMargeHaute:      decimal.NewFromInt(80),
	}
}

type Pipeline interface {
	Executer(ctx context.Context, entrees Entrees) (*model.Resultat, error)
}

type pipeline struct {
	options Options
	journal journal.Journal
}

func NewPipeline(options Options, j journal.Journal) Pipeline {
	if j == nil {
		j = journal.Nul{}
	}
	return &pipeline{options: options, journal: j}
}

// Executer runs the full catalog through exclusion then pricing, in one
// synchronous pass per stage. Promoted rows keep catalog order; excluded rows
// keep catalog order within each stage, rule exclusions before collapses. A
// run either completes with three tables or fails outright; there is no
// partial output.
func (p *pipeline) Executer(_ context.Context, entrees Entrees) (*model.Resultat, error) {
	if !entrees.Base.Valide() {
		return nil, fmt.Errorf("%w: %q", ErrBasePrixInvalide, entrees.Base)
	}
	if !p.options.BaseMargeFinale.Valide() {
		return nil, fmt.Errorf("%w: %q", ErrMargeFinaleInvalide, p.options.BaseMargeFinale)
	}
	if entrees.Fenetre.Debut.IsZero() || entrees.Fenetre.Fin.IsZero() {
		return nil, fmt.Errorf("%w: dates de debut et de fin requises", ErrFenetreInvalide)
	}
	if entrees.Fenetre.Fin.Before(entrees.Fenetre.Debut) {
		return nil, fmt.Errorf("%w: la date de fin precede la date de debut", ErrFenetreInvalide)
	}

	p.journal.Etape(fmt.Sprintf("Nombre de produits chargés : %d", len(entrees.Catalogue)))

	resultat := &model.Resultat{
		Fenetre: entrees.Fenetre,
		Promus:  []model.LignePromue{},
		Exclus:  []model.LigneExclue{},

		MargesSignalees: []model.LigneMargeSignalee{},
	}

	// Stage 1: catalog-rule exclusions. Excluded rows carry their prices
	// and the first matching reason; discount fields stay blank.
	p.journal.Etape("Application des exclusions...")
	exclusions := NewExclusions(entrees.Exclusions, p.options.ExclusionCartesienne)
	restants := make([]model.Produit, 0, len(entrees.Catalogue))
	for _, produit := range entrees.Catalogue {
		if raison, exclu := exclusions.Raison(produit); exclu {
			resultat.Exclus = append(resultat.Exclus, model.LigneExclue{
				Code:            produit.Code,
				Raison:          raison,
				PrixVente:       produit.PrixVente,
				PrixAchatOption: produit.PrixAchatOption,
				PrixRevient:     produit.PrixRevient,
			})
			continue
		}
		restants = append(restants, produit)
	}
	p.journal.Etape(fmt.Sprintf("Produits restants après exclusions : %d", len(restants)))

	// Stage 2: pricing. Price-collapse rows divert to Exclus with the
	// discount that was applied.
	p.journal.Etape("Calcul des prix promo...")
	calculateur := NewCalculateur(NewBaremeRemises(entrees.Remises), entrees.Base, p.options.BaseMargeFinale)
	for _, produit := range restants {
		calc := calculateur.Calculer(produit)
		if calc.Exclu {
			resultat.Exclus = append(resultat.Exclus, model.LigneExclue{
				Code:            produit.Code,
				Raison:          model.RaisonPrixPromo,
				PrixVente:       produit.PrixVente,
				PrixAchatOption: produit.PrixAchatOption,
				PrixRevient:     produit.PrixRevient,
				RemiseAppliquee: calc.Remise,
				RaisonRemise:    calc.RaisonRemise,
				PrixPromo:       calc.PrixPromo,
			})
			continue
		}

		signalee := calc.TauxMarge.LessThan(p.options.SeuilMargeBasse) ||
			calc.TauxMarge.GreaterThan(p.options.SeuilMargeHaute)
		resultat.Promus = append(resultat.Promus, model.LignePromue{
			Identifiant:   produit.Identifiant,
			PrixPromo:     calc.PrixPromo,
			TauxMarge:     calc.TauxMarge,
			MargeSignalee: signalee,
		})
		if signalee {
			resultat.MargesSignalees = append(resultat.MargesSignalees, model.LigneMargeSignalee{
				Code:            produit.Code,
				PrixVente:       produit.PrixVente,
				PrixAchatOption: produit.PrixAchatOption,
				PrixRevient:     produit.PrixRevient,
				PrixPromo:       calc.PrixPromo,
			})
		}
	}

	p.journal.Etape(fmt.Sprintf("Calcul terminé : %d promus, %d marges signalées, %d exclus",
		len(resultat.Promus), len(resultat.MargesSignalees), len(resultat.Exclus)))
	return resultat, nil
}
