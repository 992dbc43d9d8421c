package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/medirahq/commission/internal/commission/domain"
	"github.com/medirahq/commission/internal/config"
	"github.com/medirahq/commission/internal/observability"
	obsmiddleware "github.com/medirahq/commission/internal/observability/logger"
	obsmetrics "github.com/medirahq/commission/internal/observability/metrics"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with recovery, request logging, metrics
// and error mapping middleware.
func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	ruleSvc       ruledomain.Service
	txSvc         transactiondomain.Service
	commissionSvc commissiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	RuleSvc       ruledomain.Service
	TxSvc         transactiondomain.Service
	CommissionSvc commissiondomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("server"),
		ruleSvc:       p.RuleSvc,
		txSvc:         p.TxSvc,
		commissionSvc: p.CommissionSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")

	rules := api.Group("/rules")
	rules.POST("", s.CreateRule)
	rules.GET("", s.ListRules)
	rules.GET("/export", s.ExportRules)
	rules.POST("/import", s.ImportRules)
	rules.GET("/:id", s.GetRule)
	rules.PATCH("/:id", s.UpdateRule)
	rules.DELETE("/:id", s.DeleteRule)
	rules.POST("/:id/activate", s.ActivateRule)
	rules.POST("/:id/deactivate", s.DeactivateRule)

	transactions := api.Group("/transactions")
	transactions.POST("", s.CreateTransaction)
	transactions.GET("", s.ListTransactions)
	transactions.GET("/:id", s.GetTransaction)
	transactions.DELETE("/:id", s.DeleteTransaction)

	commissions := api.Group("/commissions")
	commissions.POST("/run", s.RunCommissions)
	commissions.POST("/preview", s.PreviewCommissions)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
