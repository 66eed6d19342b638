package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPremierManquant(t *testing.T) {
	vide := ""
	rempli := "fichier.xlsx"

	requis := []flagRequis{
		{"produits", &rempli},
		{"exclusions", &vide},
		{"remises", &vide},
	}

	// several flags missing: always the first one in declaration order
	for i := 0; i < 10; i++ {
		nom, manque := premierManquant(requis)
		assert.True(t, manque)
		assert.Equal(t, "exclusions", nom)
	}

	nom, manque := premierManquant([]flagRequis{{"produits", &rempli}})
	assert.False(t, manque)
	assert.Empty(t, nom)
}
