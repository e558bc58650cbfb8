// Package ez 把 handler 收敛成「绑定 → 鉴权 → 执行 → 统一错误映射」一行注册。
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"seafood-shop/internal/domain"
	mdw "seafood-shop/internal/transport/http/middleware"
	resp "seafood-shop/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group 子路由，可追加中间件
func (e EZ) Group(path string, handlers ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, handlers...), log: e.log}
}

type Binder string

const (
	BindJSON  Binder = "json"  // JSON body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler 自己取 c.Param
)

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool          // 要求已登录（userId 由 AuthJWT 写入）
	Roles   []domain.Role // 可选，限定角色
	Status  int           // 成功时的 HTTP 状态，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if c.GetString(mdw.KeyUserID) == "" {
				resp.Fail(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			if len(a.Roles) > 0 && !mdw.HasRole(domain.Role(c.GetString(mdw.KeyRole)), a.Roles) {
				resp.Fail(c, resp.CodeForbidden, "forbidden")
				return
			}
		}

		// 2) 绑定
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Fail(c, resp.CodeEntityTooLarge, "request body too large")
				return
			}
			resp.Fail(c, resp.CodeBadRequest, bindErr.Error())
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		resp.Success(c, a.Status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// CodeOf 业务错误类型 → 响应码
func CodeOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindUnauthenticated:
		return resp.CodeUnauthorized
	case domain.KindForbidden:
		return resp.CodeForbidden
	case domain.KindNotFound:
		return resp.CodeNotFound
	case domain.KindInvalidArgument, domain.KindInvalidState, domain.KindConflict:
		return resp.CodeBadRequest
	default:
		return resp.CodeServerError
	}
}

// fail 5xx 只记日志不外泄细节
func (e EZ) fail(c *gin.Context, err error) {
	code := CodeOf(err)
	if code >= 500 {
		e.log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp.Fail(c, code, "internal error")
		return
	}
	resp.Fail(c, code, err.Error())
}
