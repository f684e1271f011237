package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"appcatalog/internal/adapters/appstore"
	"appcatalog/internal/adapters/observability"
	redisad "appcatalog/internal/adapters/redis"
	"appcatalog/internal/app"
	"appcatalog/internal/cache"
	"appcatalog/internal/domain"
	"appcatalog/internal/shared"
	mysqlrepo "appcatalog/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}
}

func newRootCmd(cfg *shared.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "Build the cleaned and combined app catalog datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.BoolVar(&cfg.UseMock, "mock", cfg.UseMock, "use synthetic catalog records instead of the real lookup API")
	pf.StringVar(&cfg.CacheBackend, "cache-backend", cfg.CacheBackend, "record cache backend: file|redis")
	pf.StringVar(&cfg.CacheFile, "cache-file", cfg.CacheFile, "JSON cache file (file backend)")

	root.AddCommand(newRunCmd(cfg), newFetchCmd(cfg))
	return root
}

func newRunCmd(cfg *shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Clean, enrich, sample, fetch and write both datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), *cfg)
		},
	}
	f := cmd.Flags()
	f.IntVar(&cfg.SamplePerCategory, "per-category", cfg.SamplePerCategory, "max apps sampled per category")
	f.Int64Var(&cfg.SampleSeed, "seed", cfg.SampleSeed, "sampling seed")
	f.StringVar(&cfg.PlayStoreCSV, "input", cfg.PlayStoreCSV, "Play Store apps CSV")
	f.StringVar(&cfg.ReviewsCSV, "reviews", cfg.ReviewsCSV, "user reviews CSV")
	f.StringVar(&cfg.CleanedCSV, "cleaned-out", cfg.CleanedCSV, "cleaned dataset output")
	f.StringVar(&cfg.CombinedCSV, "combined-out", cfg.CombinedCSV, "combined dataset output")
	return cmd
}

func runPipeline(ctx context.Context, cfg shared.Config) error {
	observability.Serve(cfg.MetricsAddr)

	log.Info().
		Bool("mock", cfg.UseMock).
		Str("cache", cfg.CacheBackend).
		Int("per_category", cfg.SamplePerCategory).
		Msg("pipeline starting")

	catalog, err := newCatalog(cfg)
	if err != nil {
		return err
	}
	store, closeStore, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var repo domain.AppRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return fmt.Errorf("sql.Open: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("db ping: %w", err)
		}
		log.Info().Msg("db ping ok")
		repo = mysqlrepo.New(db)
	}

	b := app.NewBuilder(app.BuildConfig{
		PlayStoreCSV: cfg.PlayStoreCSV,
		ReviewsCSV:   cfg.ReviewsCSV,
		CleanedCSV:   cfg.CleanedCSV,
		CombinedCSV:  cfg.CombinedCSV,
		PerCategory:  cfg.SamplePerCategory,
		Seed:         cfg.SampleSeed,
		Mock:         cfg.UseMock,
	}, catalog, store, repo)

	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Str("run_id", res.RunID).
		Int("cleaned", len(res.Cleaned)).
		Int("combined", len(res.Combined)).
		Int("play_store_sampled", len(res.Sampled)).
		Int("app_store_fetched", len(res.Fetched)).
		Msg("pipeline completed")
	return nil
}

func newCatalog(cfg shared.Config) (domain.Catalog, error) {
	if cfg.UseMock {
		return appstore.NewMock(cfg.MockSeed), nil
	}
	cl, err := appstore.New(appstore.Options{
		BaseURL: cfg.AppStoreBase,
		Host:    cfg.AppStoreHost,
		Key:     cfg.AppStoreKey,
		RPS:     cfg.AppStoreRPS,
		Timeout: cfg.AppStoreTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	return cl, nil
}

func newStore(cfg shared.Config) (domain.RecordStore, func(), error) {
	switch cfg.CacheBackend {
	case "", "file":
		return cache.NewFileStore(cfg.CacheFile), func() {}, nil
	case "redis":
		rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisCacheKey)
		return rs, func() { _ = rs.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
