package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/stepwise-bot/internal/config"
	"github.com/aliskhannn/stepwise-bot/internal/delivery/telegram"
	"github.com/aliskhannn/stepwise-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/stepwise-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/stepwise-bot/internal/infra/sqlite"
	"github.com/aliskhannn/stepwise-bot/internal/logger"
	"github.com/aliskhannn/stepwise-bot/internal/repository"
	"github.com/aliskhannn/stepwise-bot/internal/service"
	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("telegram bot: %w", err)
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "home", Description: "Sections"},
		{Command: "progress", Description: "Show progress"},
		{Command: "settings", Description: "Settings"},
		{Command: "reset", Description: "Reset progress and settings"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	content, err := repository.NewContentRepository(cfg.ContentJSONPath)
	if err != nil {
		return err
	}

	backend, closeBackend, err := openBackend(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeBackend()

	docs := storage.NewDocuments(backend, lg)

	settingsService, err := service.NewSettingsService(ctx, docs, lg)
	if err != nil {
		return err
	}
	progressService, err := service.NewProgressService(ctx, docs, lg)
	if err != nil {
		return err
	}
	resetService := service.NewResetService(docs, settingsService, progressService, lg)
	reminderService := service.NewReminderService(cfg.Reminder.Schedule, content, progressService, lg)

	handler := telegram.NewHandler(
		bot,
		lg,
		cfg.LearnerChatID,
		cfg.AudioDir,
		content,
		progressService,
		settingsService,
		resetService,
	)

	engine := service.NewSessionEngine(
		content,
		progressService,
		settingsService,
		service.NewOptionGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		handler,
		handler,
		cfg.Quiz.AutoAdvanceDelay,
		lg,
	)
	engine.SetObserver(handler)
	handler.SetEngine(engine)
	reminderService.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(gctx)
	})
	g.Go(func() error {
		return reminderService.Start(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("shutdown signal received")
	return nil
}

// openBackend connects the documents backend selected by storage.driver.
func openBackend(ctx context.Context, cfg *config.Config, lg *zap.Logger) (storage.Backend, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.Storage.DSN()
		if err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.Storage.MaxConnections),
			MaxConnLifetime: cfg.Storage.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}

		repo := pgrepo.NewDocumentsRepository(pool, postgres.NewTransactor(pool))
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}

		lg.Info("using postgres storage")
		return repo, pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Connect(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}

		lg.Info("using sqlite storage", zap.String("path", cfg.Storage.SQLitePath))
		return sqlite.NewDocumentsRepository(db), func() { _ = db.Close() }, nil

	default:
		lg.Warn("using in-memory storage, progress is lost on restart")
		return storage.NewMemoryBackend(), func() {}, nil
	}
}
