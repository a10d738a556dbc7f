package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotels_merge/internal/adapters/observability"
	redisad "hotels_merge/internal/adapters/redis"
	"hotels_merge/internal/adapters/suppliers"
	"hotels_merge/internal/app"
	"hotels_merge/internal/domain"
	"hotels_merge/internal/reconcile"
	"hotels_merge/internal/shared"
	mysqlrepo "hotels_merge/internal/storage/mysql"
)

func main() {
	var envFile, rulesFile string

	root := &cobra.Command{
		Use:           "ingestor",
		Short:         "Run one refresh cycle: fetch suppliers, merge, publish",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), envFile, rulesFile)
		},
	}
	root.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	root.Flags().StringVar(&rulesFile, "rules", "", "merge rules file (overrides RULES_FILE)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("ingestion failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile, rulesFile string) error {
	cfg, err := shared.Load(envFile)
	if err != nil {
		return err
	}
	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Strs("suppliers", cfg.Suppliers).
		Int("workers", cfg.FetchWorkers).
		Str("key", cfg.CatalogKey).
		Msg("ingestor starting")

	rules, err := reconcile.LoadRules(cfg.RulesFile)
	if err != nil {
		return err
	}
	for _, w := range rules.Validate(cfg.Suppliers) {
		log.Warn().Msg(w)
	}

	var store domain.CatalogStore
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		log.Info().Msg("db ping ok")
		store = mysqlrepo.New(db)
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	client := suppliers.NewClient(cfg.FetchTimeout, cfg.FetchRPS)
	sups, err := suppliers.Build(client, cfg.Suppliers, cfg.SupplierURLs)
	if err != nil {
		return err
	}

	svc := app.NewRefreshService(sups, reconcile.NewEngine(rules), cache, store, app.RefreshOptions{
		CatalogKey: cfg.CatalogKey,
		CatalogTTL: cfg.CatalogTTL,
		Workers:    cfg.FetchWorkers,
	})
	res, err := svc.RunCycle(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("cycle_id", res.CycleID).Int("hotels", res.Hotels).Msg("ingestion completed")
	return nil
}
