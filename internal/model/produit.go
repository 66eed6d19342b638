package model

import (
	"github.com/shopspring/decimal"
)

// BasePrix selects which cost column serves as the reference price for the
// margin computation of a run.
type BasePrix string

const (
	// BaseAchatOption uses the "Prix d'achat avec option" column.
	BaseAchatOption BasePrix = "achat_option"
	// BaseRevient uses the "Prix de revient" column.
	BaseRevient BasePrix = "revient"
)

// Valide reports whether b is one of the two supported bases.
func (b BasePrix) Valide() bool {
	return b == BaseAchatOption || b == BaseRevient
}

// Produit is one row of the catalog export. Identifiant is unique within a
// run. Rows are read once and never mutated after the pipeline completes.
type Produit struct {
	Identifiant   string
	FournisseurID int64
	FamilleID     int64
	MarqueID      int64
	Code          string

	PrixVente       decimal.Decimal // Prix de vente en cours
	PrixAchatOption decimal.Decimal // Prix d'achat avec option
	PrixRevient     decimal.Decimal // Prix de revient
}

// PrixBase returns the reference price for the given basis.
func (p Produit) PrixBase(base BasePrix) decimal.Decimal {
	if base == BaseRevient {
		return p.PrixRevient
	}
	return p.PrixAchatOption
}
