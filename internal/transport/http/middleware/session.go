package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"seafood-shop/internal/cart"
	resp "seafood-shop/internal/transport/http/response"
)

const KeyCart = "cart"

type SessionOptions struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Session 按 cookie 里的 sid 加载购物车，请求结束后有改动才回写
func Session(store cart.Store, opt SessionOptions, l *zap.Logger) gin.HandlerFunc {
	if opt.CookieName == "" {
		opt.CookieName = "shop.sid"
	}
	if opt.MaxAge <= 0 {
		opt.MaxAge = 24 * time.Hour
	}
	return func(c *gin.Context) {
		sid, err := c.Cookie(opt.CookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
		}
		// 每次请求都续期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opt.CookieName, sid, int(opt.MaxAge/time.Second), "/", "", opt.Secure, true)

		ct, err := store.Load(c.Request.Context(), sid)
		if err != nil {
			l.Error("load cart failed", zap.String("sid", sid), zap.Error(err))
			resp.Fail(c, resp.CodeServerError, "internal error")
			return
		}
		c.Set(KeyCart, ct)
		c.Next()

		if ct.Dirty() {
			// 请求可能已超时，回写不跟随请求 ctx
			if err := store.Save(context.WithoutCancel(c.Request.Context()), sid, ct); err != nil {
				l.Error("save cart failed", zap.String("sid", sid), zap.Error(err))
			}
		}
	}
}

// CartFrom 未挂 Session 时返回 nil
func CartFrom(c *gin.Context) *cart.Cart {
	if v, ok := c.Get(KeyCart); ok {
		if ct, ok := v.(*cart.Cart); ok {
			return ct
		}
	}
	return nil
}
