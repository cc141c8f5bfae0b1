package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/gamecore/playerdata/internal/api/http"
	"github.com/gamecore/playerdata/internal/api/middleware"
	"github.com/gamecore/playerdata/internal/domain/field"
	"github.com/gamecore/playerdata/internal/domain/lifecycle"
	"github.com/gamecore/playerdata/internal/infrastructure/config"
	"github.com/gamecore/playerdata/internal/infrastructure/logging"
	"github.com/gamecore/playerdata/internal/infrastructure/monitoring"
	"github.com/gamecore/playerdata/internal/infrastructure/scheduler"
)

// Server wires the store, its collaborators, and the HTTP admin surface.
type Server struct {
	log     *logging.Logger
	router  *gin.Engine
	manager *lifecycle.Manager
	sched   *scheduler.Ticker
	httpSrv *http.Server
}

// New constructs a server from configuration: schema registry, field
// seeding, scheduler, lifecycle manager, metrics, and routes.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	docsDir := filepath.Join(cfg.Storage.DataDir, "playerdata")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	registry, err := field.Open(filepath.Join(cfg.Storage.DataDir, "fields.json"), log.Named("fields"))
	if err != nil {
		return nil, err
	}

	sched := scheduler.New()
	sessions := newSessions(cfg.Auth.Operators)
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	manager := lifecycle.NewManager(
		registry, sessions, sessions, sched,
		docsDir, cfg.Playtime.TickInterval, log.Named("lifecycle"),
	).WithMetrics(metrics)

	if cfg.Storage.SeedDir != "" {
		if err := field.NewSeeder(registry, cfg.Storage.SeedDir, log.Named("seeder")).Seed(); err != nil {
			log.Warn("Field seeding failed", zap.Error(err))
		}
	}

	// Composition is done; later field additions reach cached documents at
	// their next reconciliation.
	manager.FinishLoading()

	return &Server{
		log:     log,
		router:  newRouter(cfg, manager, sessions, metrics, log),
		manager: manager,
		sched:   sched,
	}, nil
}

// Run starts serving on the configured address and blocks until the listener
// closes.
func (s *Server) Run(host, port string) error {
	s.httpSrv = &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("Player data store listening", zap.String("addr", s.httpSrv.Addr))

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close stops accepting requests, drains every online identity to disk, and
// stops the scheduler.
func (s *Server) Close() error {
	var err error
	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = s.httpSrv.Shutdown(ctx)
	}

	s.manager.Shutdown()
	s.sched.Stop()
	return err
}

func newRouter(cfg *config.Config, manager *lifecycle.Manager, sessions *sessions, metrics *monitoring.Metrics, log *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(manager, sessions, log.Named("http"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/fields", handlers.ListFields)
	router.POST("/fields", handlers.AddField)
	router.DELETE("/fields/:name", handlers.RemoveField)

	router.GET("/players/:id", handlers.GetPlayer)
	router.POST("/players/:id/join", handlers.JoinPlayer)
	router.POST("/players/:id/quit", handlers.QuitPlayer)

	return router
}
