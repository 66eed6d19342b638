package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Alexagz79190/promo/internal/infra"
)

// ChampsRequis lists the catalog columns the calculator consumes, in export
// order. Served as a text file so users can configure the ERP export.
var ChampsRequis = []string{
	infra.ColIdentifiantProduit,
	infra.ColFournisseur,
	infra.ColFamille,
	infra.ColMarque,
	infra.ColCodeProduit,
	infra.ColPrixVente,
	infra.ColPrixAchatOption,
	infra.ColPrixRevient,
}

// Champs serves the required-fields list as a downloadable text file.
func Champs(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="champs_export_produit.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(strings.Join(ChampsRequis, "\n")))
}
