package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/core/auth"
	"seafood-shop/internal/domain"
	resp "seafood-shop/internal/transport/http/response"
)

// gin.Context 里的登录信息
const (
	KeyUserID   = "userId"
	KeyUsername = "username"
	KeyRole     = "role"
	KeyClaims   = "claims"
)

// AuthJWT 校验 Bearer token；roles 非空时还要求角色命中其一
func AuthJWT(j *auth.JWTer, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Fail(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Fail(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if len(roles) > 0 && !HasRole(claims.Role, roles) {
			resp.Fail(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyUsername, claims.Username)
		c.Set(KeyRole, string(claims.Role))
		c.Next()
	}
}

func HasRole(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
