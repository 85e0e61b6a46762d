package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gurgen2727/travel-api/internal/cli"
	"github.com/gurgen2727/travel-api/internal/config"
	"github.com/gurgen2727/travel-api/internal/domain/ports"
	amadeus "github.com/gurgen2727/travel-api/internal/infrastructures/amadeus/http/client"
	cacheredis "github.com/gurgen2727/travel-api/internal/infrastructures/db/redis"
	"github.com/gurgen2727/travel-api/internal/presenter"
	"github.com/gurgen2727/travel-api/internal/search"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	opts, err := cli.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Amadeus.RPS), 1)
	source := amadeus.NewClient(
		cfg.Amadeus.BaseURL,
		cfg.Amadeus.Key,
		cfg.Amadeus.Secret,
		cfg.Amadeus.Currency,
		opts.MaxResults,
		cfg.Amadeus.Timeout,
		cfg.Amadeus.RetryDelay,
		limiter,
	)

	var cache ports.OfferCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("failed to close redis client", zap.Error(err))
			}
		}()
		cache = cacheredis.NewOffersCacheRepository(redisClient)
	}

	view := presenter.New(presenter.Options{
		Out:                         os.Stdout,
		DepartFilter:                opts.DepartFilter,
		ReturnFilter:                opts.ReturnFilter,
		DepartStopover:              opts.DepartStopover,
		ReturnStopover:              opts.ReturnStopover,
		MaxStops:                    opts.MaxStops,
		OneWay:                      opts.OneWay,
		AllowDifferentReturnAirport: opts.AllowDifferentReturnAirport,
	})

	driver := search.NewDriver(log, source, cache, cfg.OffersCacheTTL, view)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := driver.Run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

func setupLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLogLevel(level))

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
