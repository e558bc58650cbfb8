package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/domain"
)

type failingStore struct{}

func (failingStore) Load(context.Context, string) (*cart.Cart, error) { return nil, errors.New("redis down") }
func (failingStore) Save(context.Context, string, *cart.Cart) error  { return nil }

func TestSessionPersistsDirtyCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cart.NewMemoryStore()
	r := gin.New()
	r.Use(Session(store, SessionOptions{CookieName: "sid"}, zap.NewNop()))
	r.POST("/add", func(c *gin.Context) {
		_ = CartFrom(c).Add(cart.Line{
			Product:  cart.ProductRef{ID: "p1", Name: "Cua"},
			Variant:  domain.VariantSnapshot{ID: "v1", Price: decimal.NewFromInt(50000)},
			Quantity: decimal.NewFromInt(1),
		})
		c.Status(http.StatusOK)
	})
	r.GET("/len", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"n": CartFrom(c).Len()})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/len", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"n":1}`, w.Body.String())

	saved, err := store.Load(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.True(t, saved.Total.Equal(decimal.NewFromInt(50000)))
}

func TestSessionLoadFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(failingStore{}, SessionOptions{}, zap.NewNop()))
	r.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
