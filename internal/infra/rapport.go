package infra

// rapport.go — PDF run report using go-pdf/fpdf. One A4 page summarizing a
// calculation run:
//   - run parameters (window, price basis, export format)
//   - partition counts (promus, marges signalées, exclus)
//   - exclusion breakdown by reason
//   - the journal of the run

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Alexagz79190/promo/internal/model"
)

// ParamsRapport carries the run parameters echoed on the report.
type ParamsRapport struct {
	Base    model.BasePrix
	Format  FormatExport
	Date    time.Time // when the run was executed
	Journal []string
}

// EcrireRapportPDF writes the PDF run report for a completed result.
func EcrireRapportPDF(w io.Writer, r *model.Resultat, params ParamsRapport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// Journal and reason strings carry accents; core fonts are latin-1.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, "Calculateur de Prix Promo", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Rapport de calcul", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Parameters ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Parametres", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	ligne := func(label, valeur string) {
		pdf.CellFormat(contentW*0.4, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.6, 5, valeur, "", 1, "L", false, 0, "")
	}
	ligne("Execute le", params.Date.Format(model.FormatDate))
	ligne("Debut de promotion", r.Fenetre.Debut.Format(model.FormatDate))
	ligne("Fin de promotion", r.Fenetre.Fin.Format(model.FormatDate))
	base := "Prix d'achat avec option"
	if params.Base == model.BaseRevient {
		base = "Prix de revient"
	}
	ligne("Base de calcul", base)
	ligne("Format d'export", string(params.Format))
	pdf.Ln(4)

	// ── Counts ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Resultats", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	ligne("Produits promus", fmt.Sprintf("%d", len(r.Promus)))
	ligne("Marges signalees", fmt.Sprintf("%d", len(r.MargesSignalees)))
	ligne("Produits exclus", fmt.Sprintf("%d", len(r.Exclus)))
	pdf.Ln(2)

	// Exclusion breakdown, in reason priority order.
	parRaison := make(map[string]int, 5)
	for _, e := range r.Exclus {
		parRaison[e.Raison]++
	}
	for _, raison := range []string{
		model.RaisonCode,
		model.RaisonFournisseur,
		model.RaisonMarque,
		model.RaisonFournisseurFamille,
		model.RaisonPrixPromo,
	} {
		if n := parRaison[raison]; n > 0 {
			ligne("  "+tr(raison), fmt.Sprintf("%d", n))
		}
	}
	pdf.Ln(4)

	// ── Journal ──────────────────────────────────────────────────────────────
	if len(params.Journal) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Journal des actions", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, msg := range params.Journal {
			pdf.CellFormat(contentW, 4, tr(msg), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf : %w", err)
	}
	return nil
}
