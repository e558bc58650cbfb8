package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/core/auth"
	"seafood-shop/internal/core/config"
	"seafood-shop/internal/core/server"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/transport/http/ez"
	"seafood-shop/internal/transport/http/handler"
	mdw "seafood-shop/internal/transport/http/middleware"
	resp "seafood-shop/internal/transport/http/response"
)

type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	JWT      *auth.JWTer
	Carts    cart.Store
	Services *handler.Services
}

// base 两个 engine 共用的中间件链和运维接口
func base(d Deps) *gin.Engine {
	lim := d.Config.Limits
	r := server.NewRouter(server.Options{Env: d.Config.App.Env, AllowOrigins: d.Config.CORS.AllowOrigins})
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(d.Log),
		mdw.AccessLog(d.Log),
		mdw.Metrics(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(lim.Concurrency, time.Second),
		mdw.MaxBodyBytes(lim.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
	)

	r.GET("/health", func(c *gin.Context) { resp.Success(c, http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { resp.Fail(c, resp.CodeNotFound, "api endpoint not found") })
	return r
}

// NewAPIEngine 店面 + 后台全部路由，统一挂在 /api
func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)
	api := ez.New(r.Group("/api"), d.Log)
	bearer := mdw.AuthJWT(d.JWT)

	d.Services.MountAuth(api)

	sess := d.Config.Session
	shop := api.Group("/shop", mdw.Session(d.Carts, mdw.SessionOptions{
		CookieName: sess.CookieName,
		MaxAge:     time.Duration(sess.MaxAgeHours) * time.Hour,
		Secure:     sess.Secure,
	}, d.Log))
	d.Services.MountShop(shop)
	d.Services.MountCustomer(shop.Group("", bearer))

	mountAdmin(api, d)
	d.Services.MountNotification(api.Group("/notification", bearer))
	d.Services.MountRefunds(api.Group("/refunds", bearer))
	return r
}

// NewAdminEngine 内网端口只暴露 /api/admin
func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d)
	mountAdmin(ez.New(r.Group("/api"), d.Log), d)
	return r
}

func mountAdmin(api ez.EZ, d Deps) {
	d.Services.MountAdmin(api.Group("/admin", mdw.AuthJWT(d.JWT, domain.RoleAdmin, domain.RoleEmployee)))
}
