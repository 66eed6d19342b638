// Command promo runs one calculation from the command line: three input
// workbooks in, three tables plus a PDF report out. Same pipeline as the
// HTTP server, without keeping anything in memory afterwards.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alexagz79190/promo/internal/config"
	"github.com/Alexagz79190/promo/internal/infra"
	"github.com/Alexagz79190/promo/internal/journal"
	"github.com/Alexagz79190/promo/internal/model"
	"github.com/Alexagz79190/promo/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var (
		produits   = flag.String("produits", "", "fichier export produit (xlsx)")
		exclusions = flag.String("exclusions", "", "fichier exclusion produit (xlsx)")
		remises    = flag.String("remises", "", "fichier remise (xlsx)")
		dateDebut  = flag.String("debut", "", "date de début (dd/mm/yyyy hh:mm:ss)")
		dateFin    = flag.String("fin", "", "date de fin (dd/mm/yyyy hh:mm:ss)")
		base       = flag.String("base", cfg.BasePrix, "base de calcul : achat_option | revient")
		format     = flag.String("format", cfg.FormatExport, "format d'export : csv | xlsx")
		sortie     = flag.String("sortie", cfg.DossierSortie, "dossier de sortie")
		rapport    = flag.Bool("rapport", true, "générer le rapport PDF")
	)
	flag.Parse()

	requis := []flagRequis{
		{"produits", produits},
		{"exclusions", exclusions},
		{"remises", remises},
		{"debut", dateDebut},
		{"fin", dateFin},
	}
	if nom, manque := premierManquant(requis); manque {
		log.Error().Str("flag", nom).Msg("argument requis manquant")
		flag.Usage()
		os.Exit(2)
	}

	debut, err := time.Parse(model.FormatDate, *dateDebut)
	if err != nil {
		log.Fatal().Err(err).Msg("date de début invalide")
	}
	fin, err := time.Parse(model.FormatDate, *dateFin)
	if err != nil {
		log.Fatal().Err(err).Msg("date de fin invalide")
	}

	catalogue := lire(*produits, infra.LireCatalogue)
	feuilles := lire(*exclusions, infra.LireExclusions)
	bandes := lire(*remises, infra.LireRemises)

	options := service.Options{
		ExclusionCartesienne: cfg.ExclusionCartesienne,
		BaseMargeFinale:      service.BaseMargeFinale(cfg.BaseMargeFinale),
		SeuilMargeBasse:      decimal.NewFromInt(int64(cfg.SeuilMargeBasse)),
		SeuilMargeHaute:      decimal.NewFromInt(int64(cfg.SeuilMargeHaute)),
	}
	j := &journal.Memoire{}
	pipeline := service.NewPipeline(options, multiJournal{j, journal.Zerolog{Logger: log.Logger}})

	resultat, err := pipeline.Executer(context.Background(), service.Entrees{
		Catalogue:  catalogue,
		Exclusions: feuilles,
		Remises:    bandes,
		Fenetre:    model.FenetrePromo{Debut: debut, Fin: fin},
		Base:       model.BasePrix(*base),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("calcul interrompu")
	}

	fmtExport := infra.FormatExport(*format)
	if !fmtExport.Valide() {
		log.Fatal().Str("format", *format).Msg("format d'export inconnu")
	}
	for _, nom := range []infra.NomTable{infra.TablePromus, infra.TableMarges, infra.TableExclus} {
		tableau, err := infra.TableauParNom(resultat, nom)
		if err != nil {
			log.Fatal().Err(err).Msg("table de sortie")
		}
		chemin := filepath.Join(*sortie, infra.NomFichier(nom, fmtExport))
		ecrire(chemin, func(f *os.File) error { return infra.Ecrire(f, tableau, fmtExport) })
		log.Info().Str("fichier", chemin).Int("lignes", len(tableau.Lignes)).Msg("fichier exporté")
	}

	if *rapport {
		chemin := filepath.Join(*sortie, "rapport_calcul.pdf")
		params := infra.ParamsRapport{
			Base:    model.BasePrix(*base),
			Format:  fmtExport,
			Date:    time.Now(),
			Journal: j.Messages(),
		}
		ecrire(chemin, func(f *os.File) error { return infra.EcrireRapportPDF(f, resultat, params) })
		log.Info().Str("fichier", chemin).Msg("rapport généré")
	}
}

type flagRequis struct {
	nom    string
	valeur *string
}

// premierManquant reports the first unset required flag, in declaration
// order, so the error message is stable across runs.
func premierManquant(requis []flagRequis) (string, bool) {
	for _, r := range requis {
		if *r.valeur == "" {
			return r.nom, true
		}
	}
	return "", false
}

func lire[T any](chemin string, parse func(r io.Reader) (T, error)) T {
	f, err := os.Open(chemin)
	if err != nil {
		log.Fatal().Err(err).Str("fichier", chemin).Msg("fichier d'entrée")
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		log.Fatal().Err(err).Str("fichier", chemin).Msg("lecture impossible")
	}
	return v
}

func ecrire(chemin string, fn func(f *os.File) error) {
	f, err := os.Create(chemin)
	if err != nil {
		log.Fatal().Err(err).Str("fichier", chemin).Msg("fichier de sortie")
	}
	defer f.Close()
	if err := fn(f); err != nil {
		log.Fatal().Err(err).Str("fichier", chemin).Msg("écriture impossible")
	}
}

// multiJournal fans each checkpoint out to several sinks (live log + the
// collected journal printed on the PDF report).
type multiJournal []journal.Journal

func (m multiJournal) Etape(message string) {
	for _, j := range m {
		j.Etape(message)
	}
}
