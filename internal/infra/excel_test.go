package infra

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Alexagz79190/promo/internal/model"
)

// creerClasseur builds an in-memory workbook, one entry per sheet, rows as
// raw string cells.
func creerClasseur(t *testing.T, feuilles map[string][][]string) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	premiere := true
	for nom, rows := range feuilles {
		if premiere {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), nom))
			premiere = false
		} else {
			_, err := f.NewSheet(nom)
			require.NoError(t, err)
		}
		for i, row := range rows {
			for j, cell := range row {
				ref, err := excelize.CoordinatesToCellName(j+1, i+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellStr(nom, ref, cell))
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func classeurCatalogue(t *testing.T, feuille string, lignes [][]string) io.Reader {
	rows := append([][]string{{
		ColIdentifiantProduit, ColFournisseur, ColFamille, ColMarque,
		ColCodeProduit, ColPrixVente, ColPrixAchatOption, ColPrixRevient,
	}}, lignes...)
	return creerClasseur(t, map[string][][]string{feuille: rows})
}

func TestLireCatalogue(t *testing.T) {
	r := classeurCatalogue(t, FeuilleCatalogue, [][]string{
		{"1001", "7", "42", "3", "AGZ-1001", "100", "60.5", "55"},
		{"", "", "", "", "", "", "", ""}, // ligne vide ignorée
		{"1002", "8.0", "43", "4", "AGZ-1002", "49.99", "", "40"},
	})

	produits, err := LireCatalogue(r)
	require.NoError(t, err)
	require.Len(t, produits, 2)

	assert.Equal(t, "1001", produits[0].Identifiant)
	assert.Equal(t, int64(7), produits[0].FournisseurID)
	assert.Equal(t, int64(42), produits[0].FamilleID)
	assert.Equal(t, int64(3), produits[0].MarqueID)
	assert.Equal(t, "AGZ-1001", produits[0].Code)
	assert.Equal(t, "100", produits[0].PrixVente.String())
	assert.Equal(t, "60.5", produits[0].PrixAchatOption.String())
	assert.Equal(t, "55", produits[0].PrixRevient.String())

	// "8.0" est un identifiant exporté en flottant ; le prix d'achat vide vaut zéro
	assert.Equal(t, int64(8), produits[1].FournisseurID)
	assert.True(t, produits[1].PrixAchatOption.IsZero())
}

// Without a "Worksheet" sheet the reader falls back to the first sheet.
func TestLireCatalogueFeuilleParDefaut(t *testing.T) {
	r := classeurCatalogue(t, "Feuil1", [][]string{
		{"1001", "7", "42", "3", "AGZ-1001", "100", "60", "55"},
	})

	produits, err := LireCatalogue(r)
	require.NoError(t, err)
	assert.Len(t, produits, 1)
}

func TestLireCatalogueColonneManquante(t *testing.T) {
	rows := [][]string{{ColIdentifiantProduit, ColFournisseur}} // colonnes tronquées
	r := creerClasseur(t, map[string][][]string{FeuilleCatalogue: rows})

	_, err := LireCatalogue(r)
	assert.ErrorIs(t, err, ErrColonneIntrouvable)
	assert.Contains(t, err.Error(), ColFamille)
}

func TestLireCatalogueMontantInvalide(t *testing.T) {
	r := classeurCatalogue(t, FeuilleCatalogue, [][]string{
		{"1001", "7", "42", "3", "AGZ-1001", "abc", "60", "55"},
	})

	_, err := LireCatalogue(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColPrixVente)
}

func classeurExclusions(t *testing.T) io.Reader {
	return creerClasseur(t, map[string][][]string{
		FeuilleCodes: {
			{ColCodeAGZ},
			{"AGZ-1001"},
			{""}, // cellule vide ignorée
			{"AGZ-1002"},
		},
		FeuilleFournisseurs: {
			{ColFournisseurSeul},
			{"7"},
		},
		FeuilleMarques: {
			{ColMarqueSeule},
			{"3"},
		},
		FeuillePaires: {
			{ColPaireFournisseur, ColPaireFamille},
			{"1", "10"},
			{"2", "20"},
		},
	})
}

func TestLireExclusions(t *testing.T) {
	feuilles, err := LireExclusions(classeurExclusions(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"AGZ-1001", "AGZ-1002"}, feuilles.Codes)
	assert.Equal(t, []int64{7}, feuilles.Fournisseurs)
	assert.Equal(t, []int64{3}, feuilles.Marques)
	assert.Equal(t, []model.PaireFournisseurFamille{
		{FournisseurID: 1, FamilleID: 10},
		{FournisseurID: 2, FamilleID: 20},
	}, feuilles.Paires)
}

func TestLireExclusionsFeuilleManquante(t *testing.T) {
	r := creerClasseur(t, map[string][][]string{
		FeuilleCodes: {{ColCodeAGZ}},
	})

	_, err := LireExclusions(r)
	assert.ErrorIs(t, err, ErrFeuilleIntrouvable)
}

func TestLireRemises(t *testing.T) {
	r := creerClasseur(t, map[string][][]string{
		"Feuil1": {
			{ColMargeMin, ColMargeMax, ColRemise},
			{"0", "10", "5"},
			{"5", "15", "10"},
		},
	})

	bandes, err := LireRemises(r)
	require.NoError(t, err)
	require.Len(t, bandes, 2)
	// l'ordre de la table est le départage des bandes qui se chevauchent
	assert.Equal(t, "0", bandes[0].MargeMin.String())
	assert.Equal(t, "5", bandes[0].Remise.String())
	assert.Equal(t, "10", bandes[1].Remise.String())
}

func TestLireRemisesColonneManquante(t *testing.T) {
	r := creerClasseur(t, map[string][][]string{
		"Feuil1": {{ColMargeMin, ColMargeMax}},
	})

	_, err := LireRemises(r)
	assert.ErrorIs(t, err, ErrColonneIntrouvable)
	assert.Contains(t, err.Error(), ColRemise)
}

func TestMontantVirguleDecimale(t *testing.T) {
	r := creerClasseur(t, map[string][][]string{
		"Feuil1": {
			{ColMargeMin, ColMargeMax, ColRemise},
			{"0,5", "10", "5"},
		},
	})

	bandes, err := LireRemises(r)
	require.NoError(t, err)
	require.Len(t, bandes, 1)
	assert.Equal(t, "0.5", bandes[0].MargeMin.String())
}
