package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/db"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
	"github.com/peerlink/peerlink-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub
	cancel   context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	hub := realtime.NewSSEHub(log)

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, hub)
	if err != nil {
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset, hub)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middlewareset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		SSEHub:   hub,
	}, nil
}

// Start launches background work: when a Redis bus is configured, a
// forwarder pumps bus messages into the local hub.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.Bus != nil {
		if err := a.Services.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			a.Log.Warn("Failed to start SSE bus forwarder", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Bus != nil {
		if err := a.Services.Bus.Close(); err != nil {
			a.Log.Warn("Failed to close SSE bus", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
