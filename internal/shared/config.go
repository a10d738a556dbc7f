package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	// MySQLDSN empty disables the catalog mirror and run log.
	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string

	CatalogKey      string
	CatalogTTL      time.Duration
	RefreshInterval time.Duration

	FetchTimeout time.Duration
	FetchRPS     int
	FetchWorkers int
	// Suppliers is the enabled list in merge order.
	Suppliers    []string
	SupplierURLs map[string]string
	RulesFile    string
}

var supplierURLKeys = map[string]string{
	"acme":       "ACME_SUPPLIER_URL",
	"patagonia":  "PATAGONIA_SUPPLIER_URL",
	"paperflies": "PAPERFLIES_SUPPLIER_URL",
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_KEY", "mergedHotels")
	v.SetDefault("CATALOG_TTL", "600s")
	v.SetDefault("REFRESH_INTERVAL", "10m")
	v.SetDefault("FETCH_TIMEOUT", "5s")
	v.SetDefault("FETCH_RPS", 10)
	v.SetDefault("FETCH_WORKERS", 0)
	v.SetDefault("SUPPLIERS_ENABLED", "acme,patagonia,paperflies")
	v.SetDefault("ACME_SUPPLIER_URL", "https://5f2be0b4ffc88500167b85a0.mockapi.io/suppliers/acme")
	v.SetDefault("PATAGONIA_SUPPLIER_URL", "https://5f2be0b4ffc88500167b85a0.mockapi.io/suppliers/patagonia")
	v.SetDefault("PAPERFLIES_SUPPLIER_URL", "https://5f2be0b4ffc88500167b85a0.mockapi.io/suppliers/paperflies")
	v.SetDefault("RULES_FILE", "")
}

// Load reads configuration from the environment. envFile, when present, is
// loaded first without overriding variables that are already set.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	c := Config{
		AppEnv:          v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		MetricsAddr:     v.GetString("METRICS_ADDR"),
		MySQLDSN:        v.GetString("MYSQL_DSN"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPass:       v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		CatalogKey:      v.GetString("CATALOG_KEY"),
		RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
		FetchTimeout:    v.GetDuration("FETCH_TIMEOUT"),
		FetchRPS:        v.GetInt("FETCH_RPS"),
		FetchWorkers:    v.GetInt("FETCH_WORKERS"),
		Suppliers:       splitList(v.GetString("SUPPLIERS_ENABLED")),
		SupplierURLs:    map[string]string{},
		RulesFile:       v.GetString("RULES_FILE"),
	}
	ttl, err := seconds(v.GetString("CATALOG_TTL"))
	if err != nil {
		return Config{}, fmt.Errorf("CATALOG_TTL: %w", err)
	}
	c.CatalogTTL = ttl

	for name, k := range supplierURLKeys {
		if u := strings.TrimSpace(v.GetString(k)); u != "" {
			c.SupplierURLs[name] = u
		}
	}

	if c.CatalogKey == "" {
		return Config{}, errors.New("CATALOG_KEY must not be empty")
	}
	if c.CatalogTTL <= 0 {
		log.Warn().Str("CATALOG_TTL", v.GetString("CATALOG_TTL")).Msg("catalog will be stored without expiry")
	}
	if c.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT must be positive, got %q", v.GetString("FETCH_TIMEOUT"))
	}
	return c, nil
}

// seconds accepts a Go duration ("10m", "500ms") or a bare number of seconds ("600").
func seconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(n) * time.Second, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
