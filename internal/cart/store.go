package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 按 session id 存取购物车；同一会话并发写入以最后一次为准
type Store interface {
	Load(ctx context.Context, sid string) (*Cart, error)
	Save(ctx context.Context, sid string, c *Cart) error
}

type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "cart:", ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, sid string) (*Cart, error) {
	b, err := s.rdb.Get(ctx, s.prefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func (s *RedisStore) Save(ctx context.Context, sid string, c *Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+sid, b, s.ttl).Err()
}

// MemoryStore 单进程开发/测试用
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{carts: map[string][]byte{}} }

func (s *MemoryStore) Load(_ context.Context, sid string) (*Cart, error) {
	s.mu.Lock()
	b, ok := s.carts[sid]
	s.mu.Unlock()
	if !ok {
		return New(), nil
	}
	return decode(b)
}

func (s *MemoryStore) Save(_ context.Context, sid string, c *Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.carts[sid] = b
	s.mu.Unlock()
	return nil
}

func decode(b []byte) (*Cart, error) {
	c := New()
	if err := json.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []Line{}
	}
	c.Recompute()
	return c, nil
}
