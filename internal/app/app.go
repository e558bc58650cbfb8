// Package app 进程级装配：连接外部依赖，组装仓储和服务。api / admin / shopctl 共用。
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/core/auth"
	"seafood-shop/internal/core/cache"
	"seafood-shop/internal/core/config"
	"seafood-shop/internal/core/database"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/notify"
	"seafood-shop/internal/repo"
	"seafood-shop/internal/service"
	"seafood-shop/internal/transport/http/handler"
	"seafood-shop/internal/transport/http/router"
)

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Redis    *redis.Client // session.store=memory 且未配 redis.addr 时为 nil
	JWT      *auth.JWTer
	Carts    cart.Store
	Services *handler.Services

	closers []func(context.Context) error
}

// New 打开数据库 / redis / mongo 并组装服务；失败时已打开的连接会被关闭
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *App, err error) {
	a := &App{Config: cfg, Log: l}
	defer func() {
		if err != nil {
			a.Close(context.Background())
		}
	}()

	if a.DB, err = OpenDB(cfg, l); err != nil {
		return nil, err
	}
	if sqlDB, e := a.DB.DB(); e == nil {
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err = database.Migrate(a.DB); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	if cfg.Redis.Addr != "" {
		a.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		a.closers = append(a.closers, func(context.Context) error { return a.Redis.Close() })
		if err = a.Redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	switch cfg.Session.Store {
	case "redis":
		if a.Redis == nil {
			return nil, fmt.Errorf("session.store=redis requires redis.addr")
		}
		a.Carts = cart.NewRedisStore(a.Redis, time.Duration(cfg.Session.MaxAgeHours)*time.Hour)
	default:
		l.Warn("carts kept in process memory; they are lost on restart")
		a.Carts = cart.NewMemoryStore()
	}

	notes, err := a.notificationStore(ctx)
	if err != nil {
		return nil, err
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	a.Services = Wire(Repos{
		Users:         repo.NewUserRepo(a.DB),
		Categories:    repo.NewCategoryRepo(a.DB),
		Products:      repo.NewProductRepo(a.DB),
		Orders:        repo.NewOrderRepo(a.DB),
		Refunds:       repo.NewRefundRepo(a.DB),
		Notifications: notes,
	}, a.catalogCache(), a.JWT, cfg.Shop, l)

	if err = a.Services.Catalog.EnsureCategories(ctx, cfg.Shop.Categories); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return a, nil
}

func (a *App) catalogCache() *cache.Cache {
	if a.Redis == nil {
		return nil
	}
	return cache.New(a.Redis)
}

func (a *App) notificationStore(ctx context.Context) (domain.NotificationStore, error) {
	if a.Config.Notify.Backend != "mongo" {
		return repo.NewNotificationRepo(a.DB), nil
	}
	db, disconnect, err := database.NewMongo(ctx, a.Config.Mongo.URI, a.Config.Mongo.Database)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, disconnect)
	store := repo.NewMongoNotificationStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	a.Log.Info("notifications stored in mongo", zap.String("database", a.Config.Mongo.Database))
	return store, nil
}

// Deps 给 router 用
func (a *App) Deps() router.Deps {
	return router.Deps{Config: a.Config, Log: a.Log, JWT: a.JWT, Carts: a.Carts, Services: a.Services}
}

// Close 逆序关闭
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Log.Warn("close dependency", zap.Error(err))
		}
	}
	a.closers = nil
}

// Repos 服务层依赖的全部存储
type Repos struct {
	Users         domain.UserRepository
	Categories    domain.CategoryRepository
	Products      domain.ProductRepository
	Orders        domain.OrderRepository
	Refunds       domain.RefundRepository
	Notifications domain.NotificationStore
}

// Wire 只做组装，不碰网络；测试直接传内存仓储
func Wire(r Repos, c *cache.Cache, j *auth.JWTer, shop config.Shop, l *zap.Logger) *handler.Services {
	n := notify.New(r.Notifications, r.Users, l)
	catalog := service.NewCatalogService(r.Categories, r.Products, r.Users, c, time.Duration(shop.CatalogCacheSec)*time.Second, l)
	return &handler.Services{
		Auth:          service.NewAuthService(r.Users, j, l),
		Catalog:       catalog,
		Carts:         service.NewCartService(catalog),
		Orders:        service.NewOrderService(r.Orders, r.Products, r.Users, n, domain.Money(shop.ShippingFee), l),
		Ratings:       service.NewRatingService(r.Products, r.Orders, l),
		Refunds:       service.NewRefundService(r.Refunds, r.Orders, n, l),
		Notifications: service.NewNotificationService(r.Notifications),
		Users:         service.NewUserService(r.Users, r.Orders, l),
		Stats:         service.NewStatsService(r.Products, r.Users, r.Orders),
	}
}

// OpenDB 按配置打开 gorm
func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
}
