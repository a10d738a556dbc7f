package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	server "hotels_merge/internal/adapters/http_server"
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
	var envFile string
	var noScheduler bool

	root := &cobra.Command{
		Use:           "api",
		Short:         "Serve the merged hotel catalog and keep it refreshed",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), envFile, !noScheduler)
		},
	}
	root.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	root.Flags().BoolVar(&noScheduler, "no-scheduler", false, "serve only; another process refreshes the catalog")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("api exited")
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile string, schedule bool) error {
	cfg, err := shared.Load(envFile)
	if err != nil {
		return err
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable yet")
	}

	store, closeDB, err := openStore(ctx, cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer closeDB()

	q := app.NewQueryService(cache, cfg.CatalogKey, store)

	if schedule {
		refresh, err := newRefreshService(cfg, cache, store)
		if err != nil {
			return err
		}
		go app.NewScheduler(refresh, cfg.RefreshInterval).Run(ctx)
		log.Info().Dur("interval", cfg.RefreshInterval).Strs("suppliers", cfg.Suppliers).Msg("scheduler started")
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return httpSrv.Shutdown(shutdownCtx)
}

// openStore connects the optional MySQL mirror. An empty DSN disables it.
func openStore(ctx context.Context, dsn string) (domain.CatalogStore, func(), error) {
	if dsn == "" {
		log.Info().Msg("MYSQL_DSN empty; catalog mirror disabled")
		return nil, func() {}, nil
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db), func() { _ = db.Close() }, nil
}

func newRefreshService(cfg shared.Config, cache domain.Cache, store domain.CatalogStore) (*app.RefreshService, error) {
	rules, err := reconcile.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	for _, w := range rules.Validate(cfg.Suppliers) {
		log.Warn().Msg(w)
	}
	client := suppliers.NewClient(cfg.FetchTimeout, cfg.FetchRPS)
	sups, err := suppliers.Build(client, cfg.Suppliers, cfg.SupplierURLs)
	if err != nil {
		return nil, err
	}
	return app.NewRefreshService(sups, reconcile.NewEngine(rules), cache, store, app.RefreshOptions{
		CatalogKey: cfg.CatalogKey,
		CatalogTTL: cfg.CatalogTTL,
		Workers:    cfg.FetchWorkers,
	}), nil
}
