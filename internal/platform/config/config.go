package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Operator login. The password is stored as bcrypt hash.
	OperatorUsername     string
	OperatorPasswordHash string

	CORSAllowedOrigins []string
	LoginRateLimit     string // ulule limiter format, e.g. "5-M"

	Ledger   LedgerConfig
	Resolver ResolverConfig

	AccountTxMaxPages int
	TargetCurrency    string // Currency received payments are converted into, empty to skip
}

// LedgerConfig selects and tunes the ledger connection.
type LedgerConfig struct {
	Family           string // Only "xrpl" is supported
	Network          string // "live" or "test"
	RPCURL           string
	RPCTimeout       time.Duration
	ValidityMargin   uint32
	SendMaxTolerance decimal.Decimal
}

// ResolverConfig tunes the time to ledger index search.
type ResolverConfig struct {
	MaxIterations     int
	Tolerance         time.Duration
	ReferenceInterval int64
	ProbeStep         int64
	ProbeAttempts     int
	AvgCloseTime      time.Duration
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "ledger-bridge")
	viper.SetDefault("OPERATOR_USERNAME", "operator")
	viper.SetDefault("OPERATOR_PASSWORD_HASH", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "5-M")

	viper.SetDefault("LEDGER_FAMILY", "xrpl")
	viper.SetDefault("LEDGER_NETWORK", "test")
	viper.SetDefault("LEDGER_RPC_URL", "https://s.altnet.rippletest.net:51234")
	viper.SetDefault("LEDGER_RPC_TIMEOUT", "15s")
	viper.SetDefault("VALIDITY_LEDGER_MARGIN", 4)
	viper.SetDefault("SEND_MAX_TOLERANCE", "0.01")

	viper.SetDefault("RESOLVER_MAX_ITERATIONS", 20)
	viper.SetDefault("RESOLVER_TOLERANCE", "60s")
	viper.SetDefault("RESOLVER_REFERENCE_INTERVAL", 1000)
	viper.SetDefault("RESOLVER_PROBE_STEP", 100)
	viper.SetDefault("RESOLVER_PROBE_ATTEMPTS", 10)
	viper.SetDefault("AVG_LEDGER_CLOSE_TIME", "4s")

	viper.SetDefault("ACCOUNT_TX_MAX_PAGES", 10)
	viper.SetDefault("TARGET_CURRENCY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.OperatorUsername = viper.GetString("OPERATOR_USERNAME")
	cfg.OperatorPasswordHash = viper.GetString("OPERATOR_PASSWORD_HASH")
	if cfg.OperatorPasswordHash == "" {
		log.Println("Warning: OPERATOR_PASSWORD_HASH not set. Operator login is disabled.")
	}

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.LoginRateLimit = viper.GetString("RATE_LIMIT")

	cfg.Ledger = LedgerConfig{
		Family:         strings.ToLower(viper.GetString("LEDGER_FAMILY")),
		Network:        strings.ToLower(viper.GetString("LEDGER_NETWORK")),
		RPCURL:         viper.GetString("LEDGER_RPC_URL"),
		RPCTimeout:     durationOrDefault("LEDGER_RPC_TIMEOUT", 15*time.Second),
		ValidityMargin: viper.GetUint32("VALIDITY_LEDGER_MARGIN"),
	}
	if cfg.Ledger.Family != "xrpl" {
		return nil, fmt.Errorf("unsupported LEDGER_FAMILY %q", cfg.Ledger.Family)
	}
	if cfg.Ledger.Network != "live" && cfg.Ledger.Network != "test" {
		return nil, fmt.Errorf("LEDGER_NETWORK must be live or test, got %q", cfg.Ledger.Network)
	}
	tolerance, err := decimal.NewFromString(viper.GetString("SEND_MAX_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid SEND_MAX_TOLERANCE %q", viper.GetString("SEND_MAX_TOLERANCE"))
	}
	cfg.Ledger.SendMaxTolerance = tolerance

	cfg.Resolver = ResolverConfig{
		MaxIterations:     viper.GetInt("RESOLVER_MAX_ITERATIONS"),
		Tolerance:         durationOrDefault("RESOLVER_TOLERANCE", time.Minute),
		ReferenceInterval: viper.GetInt64("RESOLVER_REFERENCE_INTERVAL"),
		ProbeStep:         viper.GetInt64("RESOLVER_PROBE_STEP"),
		ProbeAttempts:     viper.GetInt("RESOLVER_PROBE_ATTEMPTS"),
		AvgCloseTime:      durationOrDefault("AVG_LEDGER_CLOSE_TIME", 4*time.Second),
	}
	if err := cfg.Resolver.validate(); err != nil {
		return nil, err
	}

	cfg.AccountTxMaxPages = viper.GetInt("ACCOUNT_TX_MAX_PAGES")
	if cfg.AccountTxMaxPages < 1 {
		cfg.AccountTxMaxPages = 1
	}
	cfg.TargetCurrency = strings.ToUpper(viper.GetString("TARGET_CURRENCY"))

	return cfg, nil
}

func (r ResolverConfig) validate() error {
	positive := []struct {
		key   string
		value int64
	}{
		{"RESOLVER_MAX_ITERATIONS", int64(r.MaxIterations)},
		{"RESOLVER_REFERENCE_INTERVAL", r.ReferenceInterval},
		{"RESOLVER_PROBE_STEP", r.ProbeStep},
		{"RESOLVER_PROBE_ATTEMPTS", int64(r.ProbeAttempts)},
	}
	for _, p := range positive {
		if p.value < 1 {
			return fmt.Errorf("%s must be positive, got %d", p.key, p.value)
		}
	}
	return nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
