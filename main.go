package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/dskvich/catpic-telegram-bot/pkg/auth"
	"github.com/dskvich/catpic-telegram-bot/pkg/catapi"
	"github.com/dskvich/catpic-telegram-bot/pkg/database"
	"github.com/dskvich/catpic-telegram-bot/pkg/digitalocean"
	"github.com/dskvich/catpic-telegram-bot/pkg/dogapi"
	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
	"github.com/dskvich/catpic-telegram-bot/pkg/logger"
	"github.com/dskvich/catpic-telegram-bot/pkg/repository"
	"github.com/dskvich/catpic-telegram-bot/pkg/services"
	"github.com/dskvich/catpic-telegram-bot/pkg/telegram"
	"github.com/dskvich/catpic-telegram-bot/pkg/workers"
)

type Config struct {
	TelegramBotToken          string  `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAuthorizedUserIDs []int64 `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`

	CatAPIURL string `env:"CAT_API_URL" envDefault:"https://api.thecatapi.com/v1/images/search"`
	CatAPIKey string `env:"CAT_API_KEY"`
	DogAPIURL string `env:"DOG_API_URL" envDefault:"https://api.thedogapi.com/v1/images/search"`
	DogAPIKey string `env:"DOG_API_KEY"`

	SourceCooldown time.Duration `env:"SOURCE_COOLDOWN" envDefault:"60s"`
	FetchAttempts  int           `env:"FETCH_ATTEMPTS" envDefault:"5"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	StatsSchedule  string        `env:"STATS_SCHEDULE" envDefault:"@hourly"`

	PgURL  string `env:"DATABASE_URL"`
	PgHost string `env:"DB_HOST"`

	DigitalOceanToken string `env:"DIGITAL_OCEAN_TOKEN"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

type seenImageRepository interface {
	services.SeenImageTracker
	workers.SeenStatsProvider
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	var worker workers.Worker
	var workerGroup workers.Group

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	authenticator := auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs)

	// Priority order: thecatapi first, thedogapi picks up when cats are out.
	sources := []services.ImageSource{
		catapi.NewClient(cfg.CatAPIURL, cfg.CatAPIKey),
		dogapi.NewClient(cfg.DogAPIURL, cfg.DogAPIKey),
	}
	sourceRouter := services.NewSourceRouter(sources, cfg.SourceCooldown)

	var seenImages seenImageRepository
	if cfg.PgURL != "" || cfg.PgHost != "" {
		db, err := database.NewPostgres(cfg.PgURL, cfg.PgHost)
		if err != nil {
			return nil, fmt.Errorf("creating db: %w", err)
		}
		seenImages = repository.NewPgSeenImagesRepository(db)
	} else {
		seenImages = repository.NewSeenImagesRepository()
	}

	deliveryService := services.NewImageDeliveryService(sourceRouter, seenImages, cfg.FetchAttempts)

	var balanceProvider telegram.BalanceProvider
	if cfg.DigitalOceanToken != "" {
		balanceProvider = digitalocean.NewClient(cfg.DigitalOceanToken)
	}

	responseCh := make(chan domain.Response)

	handler := telegram.NewHandler(deliveryService, balanceProvider, responseCh)

	if worker, err = workers.NewTelegramUpdateListener(
		telegramClient,
		authenticator,
		handler,
		responseCh,
		cfg.RequestTimeout,
	); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	if worker, err = workers.NewStatsReporter(
		cfg.StatsSchedule,
		sourceRouter,
		seenImages,
	); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	return workerGroup, nil
}
