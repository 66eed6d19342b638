package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Alexagz79190/promo/internal/apierror"
	"github.com/Alexagz79190/promo/internal/dto"
	"github.com/Alexagz79190/promo/internal/infra"
	"github.com/Alexagz79190/promo/internal/journal"
	"github.com/Alexagz79190/promo/internal/model"
	"github.com/Alexagz79190/promo/internal/repository"
	"github.com/Alexagz79190/promo/internal/service"
)

// CalculsHandler is the HTTP adapter of the pipeline: it parses the uploaded
// workbooks, runs one calculation, and serves the stored outputs. No pricing
// logic lives here.
type CalculsHandler struct {
	repo         repository.CalculRepository
	options      service.Options
	baseDefaut   model.BasePrix
	formatDefaut infra.FormatExport
}

func NewCalculsHandler(repo repository.CalculRepository, options service.Options, baseDefaut model.BasePrix, formatDefaut infra.FormatExport) *CalculsHandler {
	return &CalculsHandler{
		repo:         repo,
		options:      options,
		baseDefaut:   baseDefaut,
		formatDefaut: formatDefaut,
	}
}

// Executer runs one calculation from a multipart upload: files produits,
// exclusions and remises plus the window dates. A fatal pipeline error yields
// no partial output — nothing is stored.
func (h *CalculsHandler) Executer(c *gin.Context) {
	var req dto.CalculRequest
	if !bindAndValidate(c, &req) {
		return
	}

	debut, err := time.Parse(model.FormatDate, req.DateDebut)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("date_debut invalide : "+err.Error()))
		return
	}
	fin, err := time.Parse(model.FormatDate, req.DateFin)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("date_fin invalide : "+err.Error()))
		return
	}

	base := h.baseDefaut
	if req.BasePrix != "" {
		base = model.BasePrix(req.BasePrix)
	}
	format := h.formatDefaut
	if req.Format != "" {
		format = infra.FormatExport(req.Format)
	}

	catalogue, ok := lireFichier(c, "produits", infra.LireCatalogue)
	if !ok {
		return
	}
	exclusions, ok := lireFichier(c, "exclusions", infra.LireExclusions)
	if !ok {
		return
	}
	remises, ok := lireFichier(c, "remises", infra.LireRemises)
	if !ok {
		return
	}

	j := &journal.Memoire{}
	pipeline := service.NewPipeline(h.options, j)
	resultat, err := pipeline.Executer(c.Request.Context(), service.Entrees{
		Catalogue:  catalogue,
		Exclusions: exclusions,
		Remises:    remises,
		Fenetre:    model.FenetrePromo{Debut: debut, Fin: fin},
		Base:       base,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}

	calcul := &repository.Calcul{
		ID:       uuid.New(),
		Resultat: resultat,
		Base:     base,
		Format:   string(format),
		Journal:  j.Messages(),
		CreeLe:   time.Now(),
	}
	h.repo.Save(calcul)

	c.JSON(http.StatusCreated, calculToResponse(calcul))
}

// Obtenir returns the stored run summary.
func (h *CalculsHandler) Obtenir(c *gin.Context) {
	calcul, ok := h.trouver(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calculToResponse(calcul))
}

// TelechargerFichier streams one output table (promus, marges or exclus) in
// the run's export format.
func (h *CalculsHandler) TelechargerFichier(c *gin.Context) {
	calcul, ok := h.trouver(c)
	if !ok {
		return
	}

	nom := infra.NomTable(c.Param("table"))
	tableau, err := infra.TableauParNom(calcul.Resultat, nom)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}

	format := infra.FormatExport(calcul.Format)
	var buf bytes.Buffer
	if err := infra.Ecrire(&buf, tableau, format); err != nil {
		_ = c.Error(err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == infra.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", infra.NomFichier(nom, format)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// TelechargerRapport streams the PDF run report.
func (h *CalculsHandler) TelechargerRapport(c *gin.Context) {
	calcul, ok := h.trouver(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := infra.EcrireRapportPDF(&buf, calcul.Resultat, infra.ParamsRapport{
		Base:    calcul.Base,
		Format:  infra.FormatExport(calcul.Format),
		Date:    calcul.CreeLe,
		Journal: calcul.Journal,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="rapport_calcul.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *CalculsHandler) trouver(c *gin.Context) (*repository.Calcul, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("identifiant de calcul invalide"))
		return nil, false
	}
	calcul, err := h.repo.FindByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Calcul introuvable"))
		return nil, false
	}
	return calcul, true
}

// lireFichier opens the named multipart file and parses it with lire. A
// missing file is an input error (400); a parse or schema failure surfaces
// the reader error verbatim (422).
func lireFichier[T any](c *gin.Context, nom string, lire func(r io.Reader) (T, error)) (T, bool) {
	var zero T
	fh, err := c.FormFile(nom)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("fichier "+nom+" manquant"))
		return zero, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("fichier "+nom+" illisible : "+err.Error()))
		return zero, false
	}
	defer closeFichier(f)

	v, err := lire(f)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return zero, false
	}
	return v, true
}

func closeFichier(f multipart.File) { _ = f.Close() }

func calculToResponse(calcul *repository.Calcul) dto.CalculResponse {
	base := "/v1/calculs/" + calcul.ID.String()
	return dto.CalculResponse{
		ID:              calcul.ID.String(),
		Promus:          len(calcul.Resultat.Promus),
		MargesSignalees: len(calcul.Resultat.MargesSignalees),
		Exclus:          len(calcul.Resultat.Exclus),
		DateDebut:       calcul.Resultat.Fenetre.Debut.Format(model.FormatDate),
		DateFin:         calcul.Resultat.Fenetre.Fin.Format(model.FormatDate),
		BasePrix:        string(calcul.Base),
		Format:          calcul.Format,
		Journal:         calcul.Journal,
		CreeLe:          calcul.CreeLe.Format(model.FormatDate),
		Fichiers: map[string]string{
			string(infra.TablePromus): base + "/fichiers/promus",
			string(infra.TableMarges): base + "/fichiers/marges",
			string(infra.TableExclus): base + "/fichiers/exclus",
			"rapport":                 base + "/rapport",
		},
	}
}
