package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Alexagz79190/promo/internal/config"
	"github.com/Alexagz79190/promo/internal/handler"
	"github.com/Alexagz79190/promo/internal/infra"
	"github.com/Alexagz79190/promo/internal/middleware"
	"github.com/Alexagz79190/promo/internal/model"
	"github.com/Alexagz79190/promo/internal/repository"
	"github.com/Alexagz79190/promo/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Pipeline/Repository ← Config
func New(cfg *config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	options := service.Options{
		ExclusionCartesienne: cfg.ExclusionCartesienne,
		BaseMargeFinale:      service.BaseMargeFinale(cfg.BaseMargeFinale),
		SeuilMargeBasse:      decimal.NewFromInt(int64(cfg.SeuilMargeBasse)),
		SeuilMargeHaute:      decimal.NewFromInt(int64(cfg.SeuilMargeHaute)),
	}
	calculRepo := repository.NewCalculRepository()
	calculsH := handler.NewCalculsHandler(calculRepo,
		options,
		model.BasePrix(cfg.BasePrix),
		infra.FormatExport(cfg.FormatExport),
	)

	// Public
	r.GET("/health", handler.Health)

	v1 := r.Group("/v1")
	{
		v1.GET("/champs", handler.Champs)

		// A run parses three workbooks — keep the compute route on a tight
		// limit, downloads on a loose one.
		v1.POST("/calculs", middleware.RateLimiter(30, time.Minute), calculsH.Executer)
		v1.GET("/calculs/:id", middleware.RateLimiter(300, time.Minute), calculsH.Obtenir)
		v1.GET("/calculs/:id/fichiers/:table", middleware.RateLimiter(300, time.Minute), calculsH.TelechargerFichier)
		v1.GET("/calculs/:id/rapport", middleware.RateLimiter(300, time.Minute), calculsH.TelechargerRapport)
	}

	return r
}
