package internal

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sumup/rack-rpc/internal/audit"
	"github.com/sumup/rack-rpc/internal/cache"
	"github.com/sumup/rack-rpc/internal/ops"
	"github.com/sumup/rack-rpc/internal/server"
	"github.com/sumup/rack-rpc/pkg/config"
	"github.com/sumup/rack-rpc/pkg/log"
	"github.com/sumup/rack-rpc/pkg/rpc"
	"github.com/sumup/rack-rpc/pkg/sets"
)

func Start(cfg *config.Config) error {
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	logger := log.NewLog("")
	lvl, err := log15.LvlFromString(cfg.LogLevel)
	if err != nil {
		logger.Warn("invalid log level, falling back to INFO", "level", cfg.LogLevel)
		lvl = log15.LvlInfo
	}
	log.SetLevel(lvl)

	handlers := rpc.NewHandlerMap()
	ops.RegisterBuiltins(handlers)

	var registry rpc.Registry = handlers
	if len(cfg.ExposedMethods) > 0 {
		registry = rpc.NewFilteredRegistry(handlers, sets.NewStringSet(cfg.ExposedMethods))
	}

	dispatcher := rpc.NewDispatcher(&rpc.Config{
		Registry:           registry,
		DefaultDataMessage: cfg.DefaultErrorMessage,
		BatchConcurrency:   cfg.BatchConcurrency,
	})

	auditor := audit.NewNopAuditor()
	if cfg.LogAuditorConfig != nil {
		auditor, err = audit.NewLogAuditor(cfg.LogAuditorConfig)
		if err != nil {
			return err
		}
	}

	var cacher cache.Cacher
	var results *cache.ResultCache
	if cfg.CacheConfig != nil {
		cacher = cache.NewRedisCacher(cfg.RedisConfig)
		if err := cacher.Start(); err != nil {
			return err
		}
		results = cache.NewResultCache(cacher, cfg.CacheConfig.Methods, cfg.CacheConfig.TTL())
	}

	if cfg.EnablePrometheus {
		logger.Info("Prometheus metrics enabled, listening on port 2112")
		http.Handle("/metrics", promhttp.Handler())
		go http.ListenAndServe(":2112", nil)
	}

	srv := server.NewServer(dispatcher, auditor, results, cfg)
	if err := srv.Start(); err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		logger.Info("interrupted, shutting down")
		if err := srv.Stop(); err != nil {
			logger.Error("failed to stop rpc server", "err", err)
		}
		if cacher != nil {
			if err := cacher.Stop(); err != nil {
				logger.Error("failed to stop cacher", "err", err)
			}
		}
		done <- true
	}()

	<-done
	logger.Info("goodbye")
	return nil
}
