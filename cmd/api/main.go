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

	"wanderlust_travel/internal/adapters/assistant"
	server "wanderlust_travel/internal/adapters/http_server"
	"wanderlust_travel/internal/adapters/mq"
	"wanderlust_travel/internal/adapters/observability"
	redisad "wanderlust_travel/internal/adapters/redis"
	"wanderlust_travel/internal/app"
	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/shared"
	mysqlrepo "wanderlust_travel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	deps := app.Deps{
		Store:        store,
		Model:        cfg.AssistantModel,
		PaymentDelay: cfg.PaymentConfirmDelay,
	}
	if cfg.AssistantKey != "" {
		client, err := assistant.New(cfg.AssistantBase, cfg.AssistantKey, cfg.AssistantRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize assistant client")
		}
		deps.Assistant = client
	}
	if cfg.AMQPURL != "" {
		pub, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// completed-booking events are best effort
			log.Warn().Err(err).Msg("rabbitmq unavailable; booking events disabled")
		} else {
			defer pub.Close()
			deps.Publisher = pub
		}
	}

	// http
	srv := server.New(30 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Sessions: app.NewSessions(deps)})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("state", cfg.StateBackend).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// openStore picks the session state backend from config.
func openStore(ctx context.Context, cfg shared.Config) (domain.StateStore, func()) {
	switch cfg.StateBackend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db, cfg.StateTTL)
		if cfg.StateTTL > 0 {
			go purgeLoop(ctx, repo, cfg.StateTTL)
		}
		return repo, func() { _ = db.Close() }

	case "redis":
		st := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.StateTTL)
		if err := st.Ping(ctx); err != nil {
			// sessions still work, they just won't survive a restart
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		return st, func() { _ = st.Close() }
	}
	log.Fatal().Str("backend", cfg.StateBackend).Msg("STATE_BACKEND must be redis or mysql")
	return nil, nil
}

func purgeLoop(ctx context.Context, repo *mysqlrepo.Repo, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purge expired session state failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("rows", n).Msg("purged expired session state")
			}
		}
	}
}
