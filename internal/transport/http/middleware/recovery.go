package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "seafood-shop/internal/transport/http/response"
)

// Recovery panic 记 zap（带堆栈），对外只回 500 信封
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.Fail(c, resp.CodeServerError, "internal error")
	})
}
