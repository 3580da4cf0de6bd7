package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/agenda/internal/config"
	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/logging"
	"github.com/vbonduro/agenda/internal/service"
	"github.com/vbonduro/agenda/internal/session"
	"github.com/vbonduro/agenda/internal/store"
	"github.com/vbonduro/agenda/internal/web"
	"github.com/vbonduro/agenda/internal/web/static"
	"github.com/vbonduro/agenda/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(db.Options{
		DatabaseURL: cfg.DatabaseURL,
		Path:        cfg.DBPath,
		AutoMigrate: cfg.AutoMigrate,
	})
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("database ready", "dialect", database.Dialect().Name())

	clientStore := store.NewClientStore(database)
	locationStore := store.NewLocationStore(database)
	userStore := store.NewUserStore(database)
	technicianStore := store.NewTechnicianStore(database)
	appointmentStore := store.NewAppointmentStore(database)

	directory := service.NewDirectoryService(clientStore, locationStore, userStore, technicianStore, logger)
	schedule := service.NewScheduleService(appointmentStore, locationStore, logger)

	sessionStore, closeSessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		return
	}
	defer closeSessions()
	sessions := session.NewManager(sessionStore, cfg.SessionTTL, cfg.CookieSecure)

	limiter := web.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst)
	go limiter.Run(ctx)

	server := web.NewServer(directory, schedule, sessions, limiter, templates.FS, static.FS, logger)
	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		logger.Info("using in-memory session store")
		mem := session.NewMemoryStore()
		go mem.RunJanitor(ctx, 10*time.Minute)
		return mem, func() {}, nil
	}
}
