// Package client 前端同构的 Go 调用层：解 {code,msg,data} 信封，带 session cookie 和 bearer token。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/service"
)

// APIError 服务端返回的非 0 code
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string { return fmt.Sprintf("api error %d: %s", e.Code, e.Msg) }

// IsCode err 是否为指定 code 的 APIError
func IsCode(err error, code int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Code == code
}

type Client struct {
	base string
	hc   *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

func WithToken(tok string) Option { return func(c *Client) { c.token = tok } }

// New base 形如 http://127.0.0.1:4000/api
func New(base string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("client: bad base url: %w", err)
	}
	jar, _ := cookiejar.New(nil)
	c := &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second, Jar: jar},
	}
	for _, o := range opts {
		o(c)
	}
	if c.hc.Jar == nil {
		c.hc.Jar = jar
	}
	return c, nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// do 发送请求并把 data 解到 out（out 为 nil 时丢弃）
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("client: %s %s: status %d, undecodable body: %w", method, path, res.StatusCode, err)
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Msg: env.Msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func send[T any](ctx context.Context, c *Client, method, path string, in any) (T, error) {
	var out T
	err := c.do(ctx, method, path, in, &out)
	return out, err
}

// 账号

func (c *Client) Register(ctx context.Context, in service.RegisterInput) (service.UserSummary, error) {
	return send[service.UserSummary](ctx, c, http.MethodPost, "/auth/register", in)
}

// Login 成功后自动保存 token
func (c *Client) Login(ctx context.Context, identifier, password string) (*service.LoginResult, error) {
	res, err := send[*service.LoginResult](ctx, c, http.MethodPost, "/auth/login",
		service.LoginInput{Identifier: identifier, Password: password})
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res, nil
}

// 商品目录

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	return get[[]domain.Category](ctx, c, "/shop/categories")
}

func (c *Client) Products(ctx context.Context, f domain.ProductFilter) ([]service.ProductView, error) {
	q := url.Values{}
	if f.Q != "" {
		q.Set("q", f.Q)
	}
	if f.CategoryID != "" {
		q.Set("categoryId", f.CategoryID)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	path := "/shop/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return get[[]service.ProductView](ctx, c, path)
}

func (c *Client) Product(ctx context.Context, id string) (*service.ProductDetail, error) {
	return get[*service.ProductDetail](ctx, c, "/shop/products/"+url.PathEscape(id))
}

// 购物车（依赖 cookie jar 保持会话）

func (c *Client) Cart(ctx context.Context) (cart.View, error) {
	return get[cart.View](ctx, c, "/shop/cart")
}

func (c *Client) AddToCart(ctx context.Context, in service.AddToCartInput) (cart.View, error) {
	return send[cart.View](ctx, c, http.MethodPost, "/shop/cart", in)
}

func (c *Client) UpdateCart(ctx context.Context, in service.UpdateCartInput) (cart.View, error) {
	return send[cart.View](ctx, c, http.MethodPut, "/shop/cart", in)
}

func (c *Client) RemoveFromCart(ctx context.Context, index int) (cart.View, error) {
	return send[cart.View](ctx, c, http.MethodDelete, fmt.Sprintf("/shop/cart/%d", index), nil)
}

// 订单

func (c *Client) Checkout(ctx context.Context, in service.CheckoutInput) (*service.CheckoutResult, error) {
	return send[*service.CheckoutResult](ctx, c, http.MethodPost, "/shop/checkout", in)
}

func (c *Client) Order(ctx context.Context, id string) (*service.OrderView, error) {
	return get[*service.OrderView](ctx, c, "/shop/orders/"+url.PathEscape(id))
}

func (c *Client) CancelOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/shop/orders/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *Client) ConfirmPayment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/shop/orders/"+url.PathEscape(id)+"/confirm-payment", nil, nil)
}

func (c *Client) Rate(ctx context.Context, productID string, in service.RateInput) error {
	return c.do(ctx, http.MethodPost, "/shop/products/"+url.PathEscape(productID)+"/rate", in, nil)
}

// 通知

func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	return get[[]domain.Notification](ctx, c, "/notification")
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	out, err := get[struct {
		Count int64 `json:"count"`
	}](ctx, c, "/notification/unread-count")
	return out.Count, err
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notification/mark-all-read", nil, nil)
}

// 退款

func (c *Client) SubmitBankInfo(ctx context.Context, orderID string, in domain.BankInfo) (*domain.Refund, error) {
	return send[*domain.Refund](ctx, c, http.MethodPost, "/refunds/"+url.PathEscape(orderID)+"/bank-info", in)
}

func (c *Client) MyRefunds(ctx context.Context) ([]domain.Refund, error) {
	return get[[]domain.Refund](ctx, c, "/refunds/mine")
}
