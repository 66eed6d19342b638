package infra

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Alexagz79190/promo/internal/model"
)

// FormatExport selects the serialization of the output tables.
type FormatExport string

const (
	FormatCSV  FormatExport = "csv"
	FormatXLSX FormatExport = "xlsx"
)

func (f FormatExport) Valide() bool {
	return f == FormatCSV || f == FormatXLSX
}

// NomTable identifies one of the three output tables.
type NomTable string

const (
	TablePromus NomTable = "promus"
	TableMarges NomTable = "marges"
	TableExclus NomTable = "exclus"
)

// Tableau is one fully formatted output table: exact column headers plus
// string rows, ready for CSV or XLSX serialization. Formatting here is what
// makes re-runs byte-identical.
type Tableau struct {
	Colonnes []string
	Lignes   [][]string
}

// TableauPromus renders the promoted partition. Prices and margins use a
// comma decimal separator — the downstream import is regional — and the
// window dates apply to every row.
func TableauPromus(r *model.Resultat) Tableau {
	debut := r.Fenetre.Debut.Format(model.FormatDate)
	fin := r.Fenetre.Fin.Format(model.FormatDate)

	t := Tableau{
		Colonnes: []string{
			"Identifiant produit",
			"Prix promo HT",
			"Date de début prix promo",
			"Date de fin prix promo",
			"Taux marge prix promo",
		},
		Lignes: make([][]string, 0, len(r.Promus)),
	}
	for _, l := range r.Promus {
		t.Lignes = append(t.Lignes, []string{
			l.Identifiant,
			virgule(l.PrixPromo),
			debut,
			fin,
			virgule(l.TauxMarge),
		})
	}
	return t
}

// TableauMarges renders the margin review table: promoted rows whose
// resulting margin fell outside the acceptable band, with their source prices.
func TableauMarges(r *model.Resultat) Tableau {
	t := Tableau{
		Colonnes: []string{
			"Code produit",
			"Prix de vente en cours",
			"Prix d'achat avec option",
			"Prix de revient",
			"Prix promo calculé",
		},
		Lignes: make([][]string, 0, len(r.MargesSignalees)),
	}
	for _, l := range r.MargesSignalees {
		t.Lignes = append(t.Lignes, []string{
			l.Code,
			l.PrixVente.StringFixed(2),
			l.PrixAchatOption.StringFixed(2),
			l.PrixRevient.StringFixed(2),
			l.PrixPromo.StringFixed(2),
		})
	}
	return t
}

// TableauExclus renders the excluded partition. The discount columns are only
// filled for price-collapse exclusions; catalog-rule exclusions never reached
// the lookup, so theirs stay blank.
func TableauExclus(r *model.Resultat) Tableau {
	t := Tableau{
		Colonnes: []string{
			"Code produit",
			"Raison exclusion",
			"Prix de vente en cours",
			"Prix d'achat avec option",
			"Prix de revient",
			"Remise appliquée",
			"Raison de la remise",
		},
		Lignes: make([][]string, 0, len(r.Exclus)),
	}
	for _, l := range r.Exclus {
		remise := ""
		if l.Raison == model.RaisonPrixPromo {
			remise = l.RemiseAppliquee.StringFixed(2)
		}
		t.Lignes = append(t.Lignes, []string{
			l.Code,
			l.Raison,
			l.PrixVente.StringFixed(2),
			l.PrixAchatOption.StringFixed(2),
			l.PrixRevient.StringFixed(2),
			remise,
			l.RaisonRemise,
		})
	}
	return t
}

// TableauParNom returns the named output table of a result.
func TableauParNom(r *model.Resultat, nom NomTable) (Tableau, error) {
	switch nom {
	case TablePromus:
		return TableauPromus(r), nil
	case TableMarges:
		return TableauMarges(r), nil
	case TableExclus:
		return TableauExclus(r), nil
	default:
		return Tableau{}, fmt.Errorf("table inconnue %q", nom)
	}
}

// NomFichier returns the download file name of a table. The promoted table
// keeps the historical name users expect.
func NomFichier(nom NomTable, format FormatExport) string {
	base := map[NomTable]string{
		TablePromus: "prix_promo_output",
		TableMarges: "marges_signalees",
		TableExclus: "produits_exclus",
	}[nom]
	return base + "." + string(format)
}

// Ecrire serializes t to w in the requested format.
func Ecrire(w io.Writer, t Tableau, format FormatExport) error {
	switch format {
	case FormatCSV:
		return EcrireCSV(w, t)
	case FormatXLSX:
		return EcrireXLSX(w, t)
	default:
		return fmt.Errorf("format d'export inconnu %q", format)
	}
}

// EcrireCSV writes t as semicolon-separated UTF-8, the encoding the
// downstream import expects.
func EcrireCSV(w io.Writer, t Tableau) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(t.Colonnes); err != nil {
		return err
	}
	for _, ligne := range t.Lignes {
		if err := cw.Write(ligne); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EcrireXLSX writes t as a single-sheet workbook.
func EcrireXLSX(w io.Writer, t Tableau) error {
	f := excelize.NewFile()
	defer f.Close()

	feuille := f.GetSheetName(0)
	for i, nom := range t.Colonnes {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(feuille, cell, nom); err != nil {
			return err
		}
	}
	for n, ligne := range t.Lignes {
		for i, valeur := range ligne {
			cell, err := excelize.CoordinatesToCellName(i+1, n+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(feuille, cell, valeur); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// virgule renders a decimal with two places and a comma separator.
func virgule(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
