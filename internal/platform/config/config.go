package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "storefront/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	JWTIssuer     string
	LogLevel      string
	SeedDemo      bool

	HTTP      HTTPConfig
	Redis     RedisConfig
	Cookies   CookieConfig
	Tenant    TenantConfig
	Catalogue CatalogueConfig
	Audit     AuditConfig
	RateLimit RateLimitConfig
}

// HTTPConfig tunes the listener and how the caller's address is derived.
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CookieConfig names the session and store-selection cookies.
type CookieConfig struct {
	SessionName   string
	SelectionName string
	Secure        bool
	// SelectionSigningKey signs the selection cookie. Defaults to the JWT key.
	SelectionSigningKey string
}

// TenantConfig tunes store resolution.
type TenantConfig struct {
	// StoreCacheTTL bounds how long a store lookup may be served from Redis.
	StoreCacheTTL time.Duration
	// RevalidateSelection re-checks membership on every read of a stored selection.
	RevalidateSelection bool
}

// CatalogueConfig holds display settings for priced catalogues.
type CatalogueConfig struct {
	CurrencyUnit string
}

// AuditConfig configures the audit sink. With a database, events go to the
// Postgres outbox and are relayed to Kafka when brokers are set. Without one,
// they go straight to Kafka, or stay in memory when no brokers are set.
type AuditConfig struct {
	KafkaBrokers []string
	Topic        string

	RelayInterval  time.Duration
	RelayBatchSize int
	// OutboxRetention is how long delivered rows are kept. Zero keeps them.
	OutboxRetention time.Duration
}

// RateLimitConfig sets per-minute request budgets by endpoint class.
type RateLimitConfig struct {
	Disabled       bool
	ReadPerMinute  int
	WritePerMinute int
}

// SelectionMaxAge is how long a store selection cookie stays valid.
const SelectionMaxAge = 365 * 24 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          envOr("STOREFRONT_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("JWT_ISSUER", "storefront"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		SeedDemo:      os.Getenv("SEED_DEMO") == "true",
		HTTP: HTTPConfig{
			ReadTimeout:       envDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      envDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       envDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout:   envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			TrustProxyHeaders: os.Getenv("TRUST_PROXY_HEADERS") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Cookies: CookieConfig{
			SessionName:         envOr("SESSION_COOKIE", "session"),
			SelectionName:       envOr("SELECTION_COOKIE", "current_store"),
			Secure:              os.Getenv("COOKIE_SECURE") == "true",
			SelectionSigningKey: envOr("SELECTION_SIGNING_KEY", jwtSigningKey),
		},
		Tenant: TenantConfig{
			StoreCacheTTL:       envDuration("STORE_CACHE_TTL", 30*time.Second),
			RevalidateSelection: os.Getenv("REVALIDATE_SELECTION") == "true",
		},
		Catalogue: CatalogueConfig{
			CurrencyUnit: envOr("CURRENCY_UNIT", "MAD"),
		},
		Audit: AuditConfig{
			KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:        envOr("AUDIT_TOPIC", "storefront.audit"),

			RelayInterval:   envDuration("AUDIT_RELAY_INTERVAL", 2*time.Second),
			RelayBatchSize:  envInt("AUDIT_RELAY_BATCH", 100),
			OutboxRetention: envDuration("AUDIT_OUTBOX_RETENTION", 7*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Disabled:       os.Getenv("RATE_LIMIT_DISABLED") == "true",
			ReadPerMinute:  envInt("RATE_LIMIT_READ", 120),
			WritePerMinute: envInt("RATE_LIMIT_WRITE", 30),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return platformstrings.Dedupe(strings.Split(raw, ","))
}
