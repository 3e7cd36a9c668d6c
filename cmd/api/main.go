package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/coe-afectaciones/internal/api"
	"github.com/ougirez/coe-afectaciones/internal/pkg/config"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store/xpgx"
	"github.com/spf13/viper"
)

func main() {
	configDir := flag.String("config-dir", "", "directory holding coe.yaml")
	dev := flag.Bool("dev", false, "human readable logs")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Load(*configDir); err != nil {
		logger.Fatal(ctx, err)
	}
	if err := logger.Init(viper.GetString(constants.ViperLogLevelKey), *dev); err != nil {
		logger.Fatal(ctx, err)
	}
	defer logger.Sync()

	if viper.GetString(constants.ViperSecretKey) == "" {
		logger.Fatalf(ctx, "%s is required", constants.ViperSecretKey)
	}

	var st store.Store
	if url := viper.GetString(constants.ViperDatabaseURLKey); url != "" {
		pool, err := xpgx.NewPool(ctx, url)
		if err != nil {
			logger.Fatal(ctx, err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatalf(ctx, "ping database: %s", err.Error())
		}
		st = store.NewStore(pool)
	} else {
		logger.Warn(ctx, "database.url is empty, serving from memory")
		st = store.NewMemStore()
	}

	svc, err := api.NewAPIService(st, &http.Client{Timeout: viper.GetDuration(constants.ViperClientTimeoutKey)})
	if err != nil {
		logger.Fatal(ctx, err)
	}

	addr := viper.GetString(constants.ViperServerAddrKey)
	go svc.Serve(addr)
	logger.Infof(ctx, "listening on %s", addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
	}
}
