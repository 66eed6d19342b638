package model

// Exclusion reasons, recorded verbatim in the "Raison exclusion" output
// column. Reason priority is fixed (code, then fournisseur, then marque, then
// fournisseur/famille); only the first matching reason is ever recorded.
const (
	RaisonCode               = "excluded: code in exclusion file"
	RaisonFournisseur        = "excluded: supplier in exclusion file"
	RaisonMarque             = "excluded: brand in exclusion file"
	RaisonFournisseurFamille = "excluded: supplier/family combination in exclusion file"
	RaisonPrixPromo          = "excluded: promotional price not below selling price"
)

// PaireFournisseurFamille is one row of the "Fournisseur famille" sheet.
type PaireFournisseurFamille struct {
	FournisseurID int64
	FamilleID     int64
}

// FeuillesExclusion carries the raw content of the four exclusion sheets,
// loaded once per run and immutable during processing.
type FeuillesExclusion struct {
	Codes        []string // Code AGZ
	Fournisseurs []int64  // Identifiant fournisseur seul
	Marques      []int64  // Identifiant marque seul
	Paires       []PaireFournisseurFamille
}
