package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Mongo struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Session 购物车会话
type Session struct {
	Store       string // redis | memory
	CookieName  string
	MaxAgeHours int
	Secure      bool
}

type Shop struct {
	ShippingFee     int64
	Categories      []string
	CatalogCacheSec int
}

type Notify struct {
	Backend string // sql | mongo
}

type CORS struct {
	AllowOrigins []string
}

type Limits struct {
	RPS         float64
	Burst       int
	PerIPRPS    float64
	PerIPBurst  int
	Concurrency int64
	MaxBodyMB   int64
	TimeoutSec  int
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Mongo   Mongo `mapstructure:"mongo"`
	Session Session
	Shop    Shop
	Notify  Notify
	CORS    CORS
	Limits  Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "seafood-shop")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 4000)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 4001)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "seafood-shop")
	v.SetDefault("jwt.accesstokenttlmin", 24*60)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("session.store", "redis")
	v.SetDefault("session.cookiename", "shop.sid")
	v.SetDefault("session.maxagehours", 24)
	v.SetDefault("shop.shippingfee", 30000)
	v.SetDefault("shop.categories", []string{"Hải sản Tươi", "Hải sản Khô", "Hải sản Đông lạnh"})
	v.SetDefault("shop.catalogcachesec", 300)
	v.SetDefault("notify.backend", "sql")
	v.SetDefault("cors.alloworigins", []string{"http://localhost:5173"})
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.peripps", 20)
	v.SetDefault("limits.peripburst", 40)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxbodymb", 16)
	v.SetDefault("limits.timeoutsec", 10)
}

// Load 读 yaml，APP_ 前缀环境变量覆盖（APP_JWT_SECRET → jwt.secret）
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("session.store must be redis or memory, got %q", c.Session.Store)
	}
	switch c.Notify.Backend {
	case "sql":
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required when notify.backend=mongo")
		}
	default:
		return fmt.Errorf("notify.backend must be sql or mongo, got %q", c.Notify.Backend)
	}
	if c.Shop.ShippingFee < 0 {
		return fmt.Errorf("shop.shippingfee must not be negative")
	}
	return nil
}

// MustLoad 启动入口用，失败直接退出
func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	return c
}
