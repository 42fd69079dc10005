package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohamedhussein2626/backend-part/internal/api"
	"github.com/mohamedhussein2626/backend-part/internal/auth"
	"github.com/mohamedhussein2626/backend-part/internal/config"
	"github.com/mohamedhussein2626/backend-part/internal/database"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
	"github.com/mohamedhussein2626/backend-part/internal/models"
	"github.com/mohamedhussein2626/backend-part/internal/ocr"
	"github.com/mohamedhussein2626/backend-part/internal/pdf"
	"github.com/mohamedhussein2626/backend-part/internal/ratelimit"
	"github.com/mohamedhussein2626/backend-part/internal/storage"
	"github.com/mohamedhussein2626/backend-part/internal/store"
	"github.com/mohamedhussein2626/backend-part/internal/usage"
)

const version = "1.0.0"

// swapped in tests
var (
	configInit  = config.LoadConfig
	newOCRPool  = ocr.NewTesseractPool
	newArchiver = storage.NewS3Client
)

// initializeAPI wires every collaborator of the HTTP layer. The returned
// cleanup releases them in reverse order.
func initializeAPI(ctx context.Context, cfg *config.Config, logger logging.Logger) (*api.Api, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*api.Api, func(), error) {
		cleanup()
		return nil, nil, err
	}

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { db.Close() })
	s := store.New(db, cfg.Database.Type)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var publisher usage.Publisher
	if cfg.AMQP.URL != "" {
		publisher = usage.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
	}

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return fail(fmt.Errorf("create temp dir: %w", err))
	}

	pool, err := newOCRPool(cfg.OCR.Languages, cfg.OCR.PoolSize)
	if err != nil {
		return fail(fmt.Errorf("start ocr engines: %w", err))
	}
	closers = append(closers, func() { pool.Close() })

	var limiter *ratelimit.Limiter
	if rdb := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); rdb != nil {
		closers = append(closers, func() { rdb.Close() })
		limiter = ratelimit.New(ratelimit.NewRedisCounter(rdb), cfg.Redis.Requests, cfg.Redis.Window, logger)
	} else {
		logger.Warn(ctx, "redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr)
	}

	var archiver api.Archiver
	if cfg.Storage.Enabled {
		s3c, err := newArchiver(ctx, storage.Options{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PresignTTL:      cfg.Storage.PresignTTL,
		})
		if err != nil {
			return fail(err)
		}
		archiver = s3c
	}

	text := pdf.NewTextExtractor(pdf.FitzText{}, pdf.PlainTextReader{}, logger)
	deps := api.Deps{
		Users:      auth.NewService(models.RoleUser, s.Users(), tokens, logger),
		Admins:     auth.NewService(models.RoleAdmin, s.Admins(), tokens, logger),
		Tokens:     tokens,
		Stats:      s.Usage(),
		Tracker:    usage.NewTracker(s.Usage(), publisher, logger),
		Rasterizer: pdf.NewRasterizer(pdf.FitzRenderer{DPI: cfg.PDF.RenderDPI}, cfg.TempDir, cfg.PDF.JPEGQuality, logger),
		Documents:  pdf.NewConverter(text),
		Compressor: pdf.NewCompressor(logger),
		OCR:        pool,
		Archiver:   archiver,
		Limiter:    limiter,
	}

	a, err := api.NewApi(*cfg, deps, logger)
	if err != nil {
		return fail(err)
	}
	return a, cleanup, nil
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := configInit(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.Log.Level)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "starting Toolur API", "version", version, "config", *configPath, "database", cfg.Database.Type)

	a, cleanup, err := initializeAPI(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "initialization failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := a.Serve(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		cleanup()
		os.Exit(1)
	}
}
