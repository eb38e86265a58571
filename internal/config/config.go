// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	CartBackendMemory = "memory"
	CartBackendFile   = "file"
	CartBackendRedis  = "redis"
)

type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	Otel    OtelConfig    `koanf:"otel"`
	Latency LatencyConfig `koanf:"latency"`
	Cart    CartConfig    `koanf:"cart"`
	Redis   RedisConfig   `koanf:"redis"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// LatencyConfig holds the artificial delay applied by the mock data
// service before each call resolves.
type LatencyConfig struct {
	Products    time.Duration `koanf:"products"`
	Product     time.Duration `koanf:"product"`
	Login       time.Duration `koanf:"login"`
	User        time.Duration `koanf:"user"`
	CreateOrder time.Duration `koanf:"create_order"`
	Orders      time.Duration `koanf:"orders"`
	Admin       time.Duration `koanf:"admin"`
}

type CartConfig struct {
	Backend   string        `koanf:"backend"`
	Slot      string        `koanf:"slot"`
	Dir       string        `koanf:"dir"`
	KeyPrefix string        `koanf:"key_prefix"`
	TTL       time.Duration `koanf:"ttl"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

var (
	cfg     *Config
	loadErr error
	once    sync.Once
)

// Load reads configuration once per process: defaults, then the optional
// YAML file, then environment variables (a local .env file is honoured).
// A failed first load is sticky; later calls return the same error.
func Load(configPath string) (*Config, error) {
	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func load(configPath string) (*Config, error) {
	//nolint:errcheck // a missing .env file is the normal case
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	out := &Config{}
	if err := k.Unmarshal("", out); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(out); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return out, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "NeoLab Storefront",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"log.level":  "info",
		"log.format": "text",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  1.0,
		"otel.service_name": "neolab-storefront",

		"latency.products":     "500ms",
		"latency.product":      "300ms",
		"latency.login":        "800ms",
		"latency.user":         "300ms",
		"latency.create_order": "1s",
		"latency.orders":       "500ms",
		"latency.admin":        "500ms",

		"cart.backend":    CartBackendFile,
		"cart.slot":       "neo-cart",
		"cart.dir":        ".storefront",
		"cart.key_prefix": "storefront:cart:",
		"cart.ttl":        "0s",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"ENVIRONMENT":                 "app.environment",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"CART_BACKEND":                "cart.backend",
	"CART_SLOT":                   "cart.slot",
	"CART_DIR":                    "cart.dir",
	"CART_KEY_PREFIX":             "cart.key_prefix",
	"CART_TTL":                    "cart.ttl",
	"REDIS_URL":                   "redis.url",
	"LATENCY_PRODUCTS":            "latency.products",
	"LATENCY_PRODUCT":             "latency.product",
	"LATENCY_LOGIN":               "latency.login",
	"LATENCY_USER":                "latency.user",
	"LATENCY_CREATE_ORDER":        "latency.create_order",
	"LATENCY_ORDERS":              "latency.orders",
	"LATENCY_ADMIN":               "latency.admin",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	switch c.Cart.Backend {
	case CartBackendMemory, CartBackendFile, CartBackendRedis:
	default:
		return fmt.Errorf(
			"cart.backend must be one of memory, file, redis (got %q)",
			c.Cart.Backend,
		)
	}

	if c.Cart.Slot == "" {
		return fmt.Errorf("cart.slot is required")
	}

	if c.Cart.Backend == CartBackendFile && c.Cart.Dir == "" {
		return fmt.Errorf("CART_DIR is required for the file cart backend")
	}

	if c.Cart.Backend == CartBackendRedis && c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis cart backend")
	}

	if c.Cart.TTL < 0 {
		return fmt.Errorf("cart.ttl must not be negative")
	}

	latencies := map[string]time.Duration{
		"products":     c.Latency.Products,
		"product":      c.Latency.Product,
		"login":        c.Latency.Login,
		"user":         c.Latency.User,
		"create_order": c.Latency.CreateOrder,
		"orders":       c.Latency.Orders,
		"admin":        c.Latency.Admin,
	}
	for name, d := range latencies {
		if d < 0 {
			return fmt.Errorf("latency.%s must not be negative", name)
		}
	}

	if c.Otel.SampleRate < 0 || c.Otel.SampleRate > 1 {
		return fmt.Errorf("otel.sample_rate must be within [0, 1]")
	}

	if c.IsProduction() {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// NoLatency zeroes every simulated delay.
func (l *LatencyConfig) NoLatency() {
	*l = LatencyConfig{}
}
