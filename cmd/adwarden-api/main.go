// @title         adwarden API
// @version       0.1.0
// @description   Advertisement moderation for group chats

//go:generate go run github.com/swaggo/swag/v2/cmd/swag init --v3.1 -d ../../ -g cmd/adwarden-api/main.go -o ../../internal/services/api/docs --parseInternal

package main

import (
	"context"
	"os/signal"
	"syscall"

	"adwarden/internal/modkit/repokit"
	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
	phttp "adwarden/internal/platform/net/http"
	"adwarden/internal/platform/store"

	"adwarden/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // message stats and safe list
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // verdict log
	rdsCfg := root.Prefix("SERVICE_REDIS_")     // offense records
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// every backend is optional; a blank URL disables it
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	rdsURL := rdsCfg.MayString("URL", "")

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "adwarden",
			PG: store.PGConfig{
				Enabled:     pgURL != "",
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:   chURL != "",
				URL:       chURL,
				ClientTag: "api",
			},
			RDS: store.RedisConfig{
				Enabled: rdsURL != "",
				URL:     rdsURL,
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// fail fast when an enabled backend does not answer
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_API_PORT); Run drains on SIGINT/SIGTERM
	srv := phttp.NewServer(apiCfg)

	rt := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			AdminToken:     apiCfg.MayString("ADMIN_TOKEN", ""),
		},
	)
	if err := rt.Start(ctx); err != nil {
		l.Panic().Err(err).Msg("runtime start failed")
	}
	defer rt.Stop()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
