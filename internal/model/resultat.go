package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormatDate is the serialization format for the promotion window
// (dd/mm/yyyy hh:mm:ss).
const FormatDate = "02/01/2006 15:04:05"

// FenetrePromo is the validity window applied identically to every promoted
// product of a run.
type FenetrePromo struct {
	Debut time.Time
	Fin   time.Time
}

// LignePromue is one row of the Promoted partition.
type LignePromue struct {
	Identifiant string
	PrixPromo   decimal.Decimal
	TauxMarge   decimal.Decimal // resulting margin after discount

	// MargeSignalee marks rows whose resulting margin falls outside the
	// acceptable band. Informational only: the row stays promoted.
	MargeSignalee bool
}

// LigneExclue is one row of the Excluded partition. RemiseAppliquee and
// RaisonRemise are only filled for price-collapse exclusions; catalog-rule
// exclusions never reach the discount lookup.
type LigneExclue struct {
	Code            string
	Raison          string
	PrixVente       decimal.Decimal
	PrixAchatOption decimal.Decimal
	PrixRevient     decimal.Decimal
	RemiseAppliquee decimal.Decimal
	RaisonRemise    string

	// PrixPromo is the collapsed price, used by the margin-flag export.
	PrixPromo decimal.Decimal
}

// Resultat aggregates the partitions of one pipeline run. Every catalog row
// appears in exactly one of Promus and Exclus; MargesSignalees is the subset
// of Promus whose resulting margin is out of band, carried with its source
// prices for review.
type Resultat struct {
	Fenetre FenetrePromo
	Promus  []LignePromue
	Exclus  []LigneExclue

	// MargesSignalees keeps the full price context of flagged rows, in the
	// shape the review export needs.
	MargesSignalees []LigneMargeSignalee
}

// LigneMargeSignalee is one row of the margin review export.
type LigneMargeSignalee struct {
	Code            string
	PrixVente       decimal.Decimal
	PrixAchatOption decimal.Decimal
	PrixRevient     decimal.Decimal
	PrixPromo       decimal.Decimal
}
