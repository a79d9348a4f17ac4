package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tapas_chat/internal/adapters/assistant"
	server "tapas_chat/internal/adapters/http_server"
	"tapas_chat/internal/adapters/localcache"
	"tapas_chat/internal/adapters/observability"
	redisad "tapas_chat/internal/adapters/redis"
	"tapas_chat/internal/app"
	"tapas_chat/internal/classify"
	"tapas_chat/internal/domain"
	"tapas_chat/internal/normalize"
	"tapas_chat/internal/shared"
	"tapas_chat/internal/storage/memory"
	mysqlrepo "tapas_chat/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	store, cache := backends(cfg)
	client := assistantClient(cfg)

	norm := normalize.New(cfg.USDToINR, normalize.WithLabeler(normalize.NewLabeler(cfg.CurrencySymbol, cfg.CurrencyLocale)))
	chat := app.NewChatService(store, client, classify.New(norm), cfg.BotName)
	q := app.NewQueryService(store, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Chat: chat, Q: q, WS: server.NewWSHandler(chat, nil)})

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("store", cfg.StoreBackend).
		Bool("offline", cfg.OfflineMode).
		Float64("usd_to_inr", norm.Rate()).
		Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

func assistantClient(cfg shared.Config) domain.AssistantClient {
	if cfg.OfflineMode {
		log.Info().Msg("offline mode: answering from demo payloads")
		return assistant.NewDemo()
	}
	c, err := assistant.New(cfg.AssistantURL, cfg.AssistantRPS, cfg.AssistantTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize assistant client")
	}
	return c
}

// backends picks the conversation store. View state goes to Redis whenever
// Redis is the store, otherwise it stays in process.
func backends(cfg shared.Config) (domain.ConversationStore, domain.Cache) {
	switch cfg.StoreBackend {
	case "redis":
		rc := redisClient(cfg)
		return redisad.NewStore(rc, cfg.SessionTTL), redisad.NewCache(rc)
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), localcache.New(cfg.CacheTTL)
	case "", "memory":
		return memory.New(), localcache.New(cfg.CacheTTL)
	}
	log.Fatal().Str("store", cfg.StoreBackend).Msg("unknown STORE_BACKEND")
	return nil, nil
}

func redisClient(cfg shared.Config) *redis.Client {
	rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	log.Info().Msg("redis connection ok")
	return rc
}
