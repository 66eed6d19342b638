package service

import (
	"github.com/Alexagz79190/promo/internal/model"
)

type paireFournisseurFamille struct {
	fournisseur int64
	famille     int64
}

// Exclusions holds the four criteria collections in lookup form. Built once
// per run from the exclusion workbook; read-only afterwards.
type Exclusions struct {
	codes        map[string]struct{}
	fournisseurs map[int64]struct{}
	marques      map[int64]struct{}
	paires       map[paireFournisseurFamille]struct{}
}

// NewExclusions indexes the exclusion sheets. When cartesien is true the
// fournisseur/famille rule is expanded to the full cross product of the
// distinct fournisseurs and distinct familles appearing in that sheet — a
// sheet listing (S1,F1) and (S2,F2) also excludes (S1,F2) and (S2,F1).
// When false only the literally listed pairs are excluded.
func NewExclusions(feuilles model.FeuillesExclusion, cartesien bool) *Exclusions {
	e := &Exclusions{
		codes:        make(map[string]struct{}, len(feuilles.Codes)),
		fournisseurs: make(map[int64]struct{}, len(feuilles.Fournisseurs)),
		marques:      make(map[int64]struct{}, len(feuilles.Marques)),
		paires:       make(map[paireFournisseurFamille]struct{}, len(feuilles.Paires)),
	}
	for _, c := range feuilles.Codes {
		e.codes[c] = struct{}{}
	}
	for _, f := range feuilles.Fournisseurs {
		e.fournisseurs[f] = struct{}{}
	}
	for _, m := range feuilles.Marques {
		e.marques[m] = struct{}{}
	}

	if cartesien {
		fournisseurs := make(map[int64]struct{})
		familles := make(map[int64]struct{})
		for _, p := range feuilles.Paires {
			fournisseurs[p.FournisseurID] = struct{}{}
			familles[p.FamilleID] = struct{}{}
		}
		for f := range fournisseurs {
			for fam := range familles {
				e.paires[paireFournisseurFamille{f, fam}] = struct{}{}
			}
		}
	} else {
		for _, p := range feuilles.Paires {
			e.paires[paireFournisseurFamille{p.FournisseurID, p.FamilleID}] = struct{}{}
		}
	}
	return e
}

// Raison evaluates the four rules in priority order against one catalog row
// and returns the first matching exclusion reason. The second return is false
// when no catalog rule matches (the row may still be excluded later by the
// price calculation). The criteria are never mutated.
func (e *Exclusions) Raison(p model.Produit) (string, bool) {
	if _, ok := e.codes[p.Code]; ok {
		return model.RaisonCode, true
	}
	if _, ok := e.fournisseurs[p.FournisseurID]; ok {
		return model.RaisonFournisseur, true
	}
	if _, ok := e.marques[p.MarqueID]; ok {
		return model.RaisonMarque, true
	}
	if _, ok := e.paires[paireFournisseurFamille{p.FournisseurID, p.FamilleID}]; ok {
		return model.RaisonFournisseurFamille, true
	}
	return "", false
}
