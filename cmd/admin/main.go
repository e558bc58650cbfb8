package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"seafood-shop/internal/app"
	"seafood-shop/internal/core/config"
	"seafood-shop/internal/core/logger"
	"seafood-shop/internal/core/server"
	"seafood-shop/internal/transport/http/router"
)

// 后台独立进程：只暴露 /api/admin，默认监听内网地址
func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close(context.Background())

	r := router.NewAdminEngine(a.Deps())

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin", baseURL+"/api/admin"),
	)

	errc := make(chan error, 1)
	go func() { errc <- server.StartHTTP(srv, log) }()

	select {
	case err := <-errc:
		if err != nil {
			log.Error("admin api start FAILED", zap.Error(err))
		}
	case <-ctx.Done():
		server.Shutdown(srv, 10*time.Second, log)
	}
}
