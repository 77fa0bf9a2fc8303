package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/arot/internal/config"
	"github.com/smallbiznis/arot/internal/observability"
	obsmiddleware "github.com/smallbiznis/arot/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/arot/internal/observability/metrics"
	obstracing "github.com/smallbiznis/arot/internal/observability/tracing"
	"github.com/smallbiznis/arot/internal/ratelimit"
	settingsdomain "github.com/smallbiznis/arot/internal/settings/domain"
	statementdomain "github.com/smallbiznis/arot/internal/statement/domain"
	transactiondomain "github.com/smallbiznis/arot/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware(obstracing.MiddlewareConfig{TraceProbes: obsCfg.TraceProbes}))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	catalog        *config.CatalogHolder
	settingsSvc    settingsdomain.Service
	transactionSvc transactiondomain.Service
	statementSvc   statementdomain.Service
	limiter        *ratelimit.WriteLimiter
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Catalog        *config.CatalogHolder
	SettingsSvc    settingsdomain.Service
	TransactionSvc transactiondomain.Service
	StatementSvc   statementdomain.Service
	Limiter        *ratelimit.WriteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		catalog:        p.Catalog,
		settingsSvc:    p.SettingsSvc,
		transactionSvc: p.TransactionSvc,
		statementSvc:   p.StatementSvc,
		limiter:        p.Limiter,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/settings", s.GetSettings)
	api.PUT("/settings", s.WriteRateLimit(), s.UpdateSettings)

	api.GET("/catalog", s.GetCatalog)

	api.POST("/transactions/preview", s.PreviewTransaction)
	api.POST("/transactions", s.WriteRateLimit(), s.CreateTransaction)
	api.GET("/transactions", s.ListTransactions)
	api.GET("/transactions/stats", s.GetTransactionStats)
	api.GET("/transactions/:id", s.GetTransactionByID)
	api.PUT("/transactions/:id", s.WriteRateLimit(), s.UpdateTransaction)
	api.DELETE("/transactions/:id", s.WriteRateLimit(), s.DeleteTransaction)

	api.GET("/statements/buyer", s.GetBuyerStatement)
	api.GET("/statements/farmer", s.GetFarmerStatement)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
