package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/pari-flow/internal/shared/cache"
	"github.com/radieske/pari-flow/internal/shared/config"
	"github.com/radieske/pari-flow/internal/shared/logger"
	"github.com/radieske/pari-flow/internal/shared/metrics"
	"github.com/radieske/pari-flow/internal/tracker-service/analysis"
	thttp "github.com/radieske/pari-flow/internal/tracker-service/http"
	"github.com/radieske/pari-flow/internal/tracker-service/producer"
	"github.com/radieske/pari-flow/internal/tracker-service/session"
	"github.com/radieske/pari-flow/internal/tracker-service/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	ctx := context.Background()

	// Redis é o key-value store do tracker; REDIS_ADDR vazio roda
	// em memória (estado descartado no shutdown, útil em dev)
	var st store.Store
	healthFn := func(ctx context.Context) error { return nil }
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		st = store.NewRedis(rdb, log)
		healthFn = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn("REDIS_ADDR empty, state will not survive restarts")
		st = store.NewMemory()
	}

	// Colaborador Gemini (quatro chamadas: gerar, forma, cotas, combiné)
	ai, err := analysis.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Fatal("gemini client", zap.Error(err))
	}

	// Session: reidrata do store ou semeia os defaults
	sess, err := session.New(ctx, st, ai, log)
	if err != nil {
		log.Fatal("session init", zap.Error(err))
	}

	// Publisher de eventos de aposta
	publ := producer.New(cfg.KafkaBrokers, cfg.TopicBetPlaced, cfg.TopicBetSettled)
	defer publ.Close()

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, healthFn)
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// API pública
	api := thttp.NewServer(log, sess, publ)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	go func() {
		log.Info("api listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api srv", zap.Error(err))
		}
	}()

	// graceful shutdown: para de aceitar requisições e grava o estado
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiSrv.Shutdown(shutCtx); err != nil {
		log.Warn("api shutdown", zap.Error(err))
	}
	if err := sess.Flush(shutCtx); err != nil {
		log.Warn("final flush", zap.Error(err))
	}
}
