// Package infra holds the spreadsheet boundary of the calculator: XLSX
// readers for the three input workbooks and writers for the three output
// tables. The pipeline itself only ever sees parsed in-memory tables.
package infra

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Alexagz79190/promo/internal/model"
)

// Expected sheet and column names. These come from the upstream ERP export
// and the hand-maintained exclusion workbook — including the typo and the
// trailing space in the fournisseur sheet name, which are present in the real
// files and must be matched exactly.
const (
	FeuilleCatalogue = "Worksheet"

	ColIdentifiantProduit = "Identifiant produit"
	ColFournisseur        = "Fournisseur : identifiant"
	ColFamille            = "Famille : identifiant"
	ColMarque             = "Marque : identifiant"
	ColCodeProduit        = "Code produit"
	ColPrixVente          = "Prix de vente en cours"
	ColPrixAchatOption    = "Prix d'achat avec option"
	ColPrixRevient        = "Prix de revient"

	FeuilleCodes           = "Code AGZ"
	ColCodeAGZ             = "Code AGZ"
	FeuilleFournisseurs    = "Founisseur "
	ColFournisseurSeul     = "Identifiant fournisseur seul"
	FeuilleMarques         = "Marque"
	ColMarqueSeule         = "Identifiant marque seul"
	FeuillePaires          = "Fournisseur famille"
	ColPaireFournisseur    = "Identifiant fournisseur"
	ColPaireFamille        = "Identifiant famille"

	ColMargeMin = "Marge minimale"
	ColMargeMax = "Marge maximale"
	ColRemise   = "Remise"
)

// ErrColonneIntrouvable marks a schema mismatch: an expected column is absent
// from a supplied sheet. Fatal for the whole run.
var ErrColonneIntrouvable = errors.New("colonne introuvable")

// ErrFeuilleIntrouvable marks a missing sheet in the exclusion workbook.
var ErrFeuilleIntrouvable = errors.New("feuille introuvable")

// LireCatalogue parses the product export. The ERP names its sheet
// "Worksheet"; when absent the first sheet is used.
func LireCatalogue(r io.Reader) ([]model.Produit, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("fichier produits : %w", err)
	}
	defer f.Close()

	feuille := FeuilleCatalogue
	if idx, _ := f.GetSheetIndex(feuille); idx < 0 {
		feuille = f.GetSheetName(0)
	}
	rows, err := f.GetRows(feuille)
	if err != nil {
		return nil, fmt.Errorf("fichier produits : %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fichier produits : feuille %q : %w : %q", feuille, ErrColonneIntrouvable, ColIdentifiantProduit)
	}

	idx := indexColonnes(rows[0])
	cols, err := colonnes(idx, feuille,
		ColIdentifiantProduit, ColFournisseur, ColFamille, ColMarque,
		ColCodeProduit, ColPrixVente, ColPrixAchatOption, ColPrixRevient)
	if err != nil {
		return nil, err
	}

	produits := make([]model.Produit, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if ligneVide(row) {
			continue
		}
		fournisseur, err := entier(cellule(row, cols[ColFournisseur]))
		if err != nil {
			return nil, erreurCellule(feuille, ColFournisseur, n+2, err)
		}
		famille, err := entier(cellule(row, cols[ColFamille]))
		if err != nil {
			return nil, erreurCellule(feuille, ColFamille, n+2, err)
		}
		marque, err := entier(cellule(row, cols[ColMarque]))
		if err != nil {
			return nil, erreurCellule(feuille, ColMarque, n+2, err)
		}
		vente, err := montant(cellule(row, cols[ColPrixVente]))
		if err != nil {
			return nil, erreurCellule(feuille, ColPrixVente, n+2, err)
		}
		achat, err := montant(cellule(row, cols[ColPrixAchatOption]))
		if err != nil {
			return nil, erreurCellule(feuille, ColPrixAchatOption, n+2, err)
		}
		revient, err := montant(cellule(row, cols[ColPrixRevient]))
		if err != nil {
			return nil, erreurCellule(feuille, ColPrixRevient, n+2, err)
		}
		produits = append(produits, model.Produit{
			Identifiant:     cellule(row, cols[ColIdentifiantProduit]),
			FournisseurID:   fournisseur,
			FamilleID:       famille,
			MarqueID:        marque,
			Code:            cellule(row, cols[ColCodeProduit]),
			PrixVente:       vente,
			PrixAchatOption: achat,
			PrixRevient:     revient,
		})
	}
	return produits, nil
}

// LireExclusions parses the four-sheet exclusion workbook. Blank cells are
// skipped, as the source workbook is maintained by hand and full of them.
func LireExclusions(r io.Reader) (model.FeuillesExclusion, error) {
	var feuilles model.FeuillesExclusion

	f, err := excelize.OpenReader(r)
	if err != nil {
		return feuilles, fmt.Errorf("fichier exclusions : %w", err)
	}
	defer f.Close()

	codes, err := lireColonne(f, FeuilleCodes, ColCodeAGZ)
	if err != nil {
		return feuilles, err
	}
	feuilles.Codes = codes

	fournisseurs, err := lireColonneEntiers(f, FeuilleFournisseurs, ColFournisseurSeul)
	if err != nil {
		return feuilles, err
	}
	feuilles.Fournisseurs = fournisseurs

	marques, err := lireColonneEntiers(f, FeuilleMarques, ColMarqueSeule)
	if err != nil {
		return feuilles, err
	}
	feuilles.Marques = marques

	rows, idx, err := lireFeuille(f, FeuillePaires)
	if err != nil {
		return feuilles, err
	}
	cols, err := colonnes(idx, FeuillePaires, ColPaireFournisseur, ColPaireFamille)
	if err != nil {
		return feuilles, err
	}
	for n, row := range rows {
		cf := cellule(row, cols[ColPaireFournisseur])
		cfam := cellule(row, cols[ColPaireFamille])
		if cf == "" && cfam == "" {
			continue
		}
		fournisseur, err := entier(cf)
		if err != nil {
			return feuilles, erreurCellule(FeuillePaires, ColPaireFournisseur, n+2, err)
		}
		famille, err := entier(cfam)
		if err != nil {
			return feuilles, erreurCellule(FeuillePaires, ColPaireFamille, n+2, err)
		}
		feuilles.Paires = append(feuilles.Paires, model.PaireFournisseurFamille{
			FournisseurID: fournisseur,
			FamilleID:     famille,
		})
	}
	return feuilles, nil
}

// LireRemises parses the discount table from the first sheet, preserving row
// order — the lookup resolves overlapping bands by table order.
func LireRemises(r io.Reader) ([]model.BandeRemise, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("fichier remises : %w", err)
	}
	defer f.Close()

	feuille := f.GetSheetName(0)
	rows, err := f.GetRows(feuille)
	if err != nil {
		return nil, fmt.Errorf("fichier remises : %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fichier remises : feuille %q : %w : %q", feuille, ErrColonneIntrouvable, ColMargeMin)
	}

	idx := indexColonnes(rows[0])
	cols, err := colonnes(idx, feuille, ColMargeMin, ColMargeMax, ColRemise)
	if err != nil {
		return nil, err
	}

	var bandes []model.BandeRemise
	for n, row := range rows[1:] {
		if ligneVide(row) {
			continue
		}
		min, err := montant(cellule(row, cols[ColMargeMin]))
		if err != nil {
			return nil, erreurCellule(feuille, ColMargeMin, n+2, err)
		}
		max, err := montant(cellule(row, cols[ColMargeMax]))
		if err != nil {
			return nil, erreurCellule(feuille, ColMargeMax, n+2, err)
		}
		remise, err := montant(cellule(row, cols[ColRemise]))
		if err != nil {
			return nil, erreurCellule(feuille, ColRemise, n+2, err)
		}
		bandes = append(bandes, model.BandeRemise{MargeMin: min, MargeMax: max, Remise: remise})
	}
	return bandes, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func lireFeuille(f *excelize.File, feuille string) ([][]string, map[string]int, error) {
	if idx, _ := f.GetSheetIndex(feuille); idx < 0 {
		return nil, nil, fmt.Errorf("fichier exclusions : %w : %q", ErrFeuilleIntrouvable, feuille)
	}
	rows, err := f.GetRows(feuille)
	if err != nil {
		return nil, nil, fmt.Errorf("feuille %q : %w", feuille, err)
	}
	if len(rows) == 0 {
		return nil, map[string]int{}, nil
	}
	return rows[1:], indexColonnes(rows[0]), nil
}

func lireColonne(f *excelize.File, feuille, colonne string) ([]string, error) {
	rows, idx, err := lireFeuille(f, feuille)
	if err != nil {
		return nil, err
	}
	cols, err := colonnes(idx, feuille, colonne)
	if err != nil {
		return nil, err
	}
	var valeurs []string
	for _, row := range rows {
		if v := cellule(row, cols[colonne]); v != "" {
			valeurs = append(valeurs, v)
		}
	}
	return valeurs, nil
}

func lireColonneEntiers(f *excelize.File, feuille, colonne string) ([]int64, error) {
	bruts, err := lireColonne(f, feuille, colonne)
	if err != nil {
		return nil, err
	}
	valeurs := make([]int64, 0, len(bruts))
	for _, brut := range bruts {
		v, err := entier(brut)
		if err != nil {
			return nil, fmt.Errorf("feuille %q, colonne %q : %w", feuille, colonne, err)
		}
		valeurs = append(valeurs, v)
	}
	return valeurs, nil
}

func indexColonnes(entete []string) map[string]int {
	idx := make(map[string]int, len(entete))
	for i, nom := range entete {
		idx[nom] = i
	}
	return idx
}

func colonnes(idx map[string]int, feuille string, noms ...string) (map[string]int, error) {
	cols := make(map[string]int, len(noms))
	for _, nom := range noms {
		i, ok := idx[nom]
		if !ok {
			return nil, fmt.Errorf("feuille %q : %w : %q", feuille, ErrColonneIntrouvable, nom)
		}
		cols[nom] = i
	}
	return cols, nil
}

// cellule returns the trimmed cell at position i; excelize trims trailing
// empty cells, so short rows are expected.
func cellule(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func ligneVide(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// entier parses an identifier cell. The ERP sometimes exports ids as
// floating-point ("123.0" or "123.00"); strip the fractional part when it is
// all zeroes.
func entier(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identifiant invalide %q", s)
	}
	return v, nil
}

// montant parses a price or percentage cell; blank means zero.
func montant(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	// Tolerate a comma decimal separator in hand-edited cells.
	s = strings.Replace(s, ",", ".", 1)
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("montant invalide %q", s)
	}
	return v, nil
}

func erreurCellule(feuille, colonne string, ligne int, err error) error {
	return fmt.Errorf("feuille %q, colonne %q, ligne %d : %w", feuille, colonne, ligne, err)
}
