package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Alexagz79190/promo/internal/model"
)

func resultatTest() *model.Resultat {
	debut, _ := time.Parse(model.FormatDate, "01/06/2026 00:00:00")
	fin, _ := time.Parse(model.FormatDate, "30/06/2026 23:59:59")
	return &model.Resultat{
		Fenetre: model.FenetrePromo{Debut: debut, Fin: fin},
		Promus: []model.LignePromue{
			{
				Identifiant: "1001",
				PrixPromo:   decimal.RequireFromString("90"),
				TauxMarge:   decimal.RequireFromString("33.33"),
			},
		},
		Exclus: []model.LigneExclue{
			{
				Code:            "C-2",
				Raison:          model.RaisonCode,
				PrixVente:       decimal.RequireFromString("100"),
				PrixAchatOption: decimal.RequireFromString("60"),
				PrixRevient:     decimal.RequireFromString("55"),
			},
			{
				Code:            "C-3",
				Raison:          model.RaisonPrixPromo,
				PrixVente:       decimal.RequireFromString("50"),
				PrixAchatOption: decimal.RequireFromString("48"),
				PrixRevient:     decimal.RequireFromString("47"),
				RemiseAppliquee: decimal.RequireFromString("0"),
				RaisonRemise:    "",
				PrixPromo:       decimal.RequireFromString("50"),
			},
		},
		MargesSignalees: []model.LigneMargeSignalee{
			{
				Code:            "C-4",
				PrixVente:       decimal.RequireFromString("100"),
				PrixAchatOption: decimal.RequireFromString("97"),
				PrixRevient:     decimal.RequireFromString("96"),
				PrixPromo:       decimal.RequireFromString("99"),
			},
		},
	}
}

// Promoted prices and margins use the comma decimal separator and always two
// decimals; the window dates repeat on every row.
func TestTableauPromus(t *testing.T) {
	tableau := TableauPromus(resultatTest())

	assert.Equal(t, []string{
		"Identifiant produit",
		"Prix promo HT",
		"Date de début prix promo",
		"Date de fin prix promo",
		"Taux marge prix promo",
	}, tableau.Colonnes)
	require.Len(t, tableau.Lignes, 1)
	assert.Equal(t, []string{"1001", "90,00", "01/06/2026 00:00:00", "30/06/2026 23:59:59", "33,33"}, tableau.Lignes[0])
}

func TestTableauMarges(t *testing.T) {
	tableau := TableauMarges(resultatTest())

	assert.Equal(t, []string{
		"Code produit",
		"Prix de vente en cours",
		"Prix d'achat avec option",
		"Prix de revient",
		"Prix promo calculé",
	}, tableau.Colonnes)
	require.Len(t, tableau.Lignes, 1)
	assert.Equal(t, []string{"C-4", "100.00", "97.00", "96.00", "99.00"}, tableau.Lignes[0])
}

// Catalog-rule exclusions leave the discount columns blank; price-collapse
// exclusions fill them.
func TestTableauExclus(t *testing.T) {
	tableau := TableauExclus(resultatTest())

	assert.Equal(t, []string{
		"Code produit",
		"Raison exclusion",
		"Prix de vente en cours",
		"Prix d'achat avec option",
		"Prix de revient",
		"Remise appliquée",
		"Raison de la remise",
	}, tableau.Colonnes)
	require.Len(t, tableau.Lignes, 2)
	assert.Equal(t, []string{"C-2", model.RaisonCode, "100.00", "60.00", "55.00", "", ""}, tableau.Lignes[0])
	assert.Equal(t, []string{"C-3", model.RaisonPrixPromo, "50.00", "48.00", "47.00", "0.00", ""}, tableau.Lignes[1])
}

func TestEcrireCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EcrireCSV(&buf, TableauPromus(resultatTest())))

	attendu := "Identifiant produit;Prix promo HT;Date de début prix promo;Date de fin prix promo;Taux marge prix promo\n" +
		"1001;90,00;01/06/2026 00:00:00;30/06/2026 23:59:59;33,33\n"
	assert.Equal(t, attendu, buf.String())
}

// Two serializations of the same result must be byte-identical.
func TestEcrireCSVIdempotent(t *testing.T) {
	var premier, second bytes.Buffer
	resultat := resultatTest()
	require.NoError(t, EcrireCSV(&premier, TableauExclus(resultat)))
	require.NoError(t, EcrireCSV(&second, TableauExclus(resultat)))
	assert.Equal(t, premier.Bytes(), second.Bytes())
}

func TestEcrireXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EcrireXLSX(&buf, TableauPromus(resultatTest())))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Prix promo HT", rows[0][1])
	assert.Equal(t, "90,00", rows[1][1])
}

func TestTableauParNom(t *testing.T) {
	resultat := resultatTest()
	for _, nom := range []NomTable{TablePromus, TableMarges, TableExclus} {
		_, err := TableauParNom(resultat, nom)
		assert.NoError(t, err)
	}
	_, err := TableauParNom(resultat, "autre")
	assert.Error(t, err)
}

func TestNomFichier(t *testing.T) {
	assert.Equal(t, "prix_promo_output.csv", NomFichier(TablePromus, FormatCSV))
	assert.Equal(t, "marges_signalees.xlsx", NomFichier(TableMarges, FormatXLSX))
	assert.Equal(t, "produits_exclus.csv", NomFichier(TableExclus, FormatCSV))
}
