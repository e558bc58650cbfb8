// shopctl 运维命令：建表、初始化管理员、导入示例商品
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"seafood-shop/internal/app"
	"seafood-shop/internal/core/config"
	"seafood-shop/internal/core/logger"
	"seafood-shop/internal/repo"
	"seafood-shop/internal/transport/http/handler"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "shopctl",
	Short:         "Seafood shop maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env 命令共用：只连 SQL，不需要 redis / mongo
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
	svc *handler.Services
}

func open() (*env, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, cleanup := logger.New(cfg.Log)
	db, err := app.OpenDB(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	svc := app.Wire(app.Repos{
		Users:         repo.NewUserRepo(db),
		Categories:    repo.NewCategoryRepo(db),
		Products:      repo.NewProductRepo(db),
		Orders:        repo.NewOrderRepo(db),
		Refunds:       repo.NewRefundRepo(db),
		Notifications: repo.NewNotificationRepo(db),
	}, nil, nil, cfg.Shop, log)

	closeAll := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		cleanup()
	}
	return &env{cfg: cfg, log: log, db: db, svc: svc}, closeAll, nil
}
