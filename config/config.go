package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Sui      SuiConfig
	Walrus   WalrusConfig
	KeyStore KeyStoreConfig
	Access   AccessConfig
	Events   EventsConfig
	Export   ExportConfig
	Jobs     JobsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	APIKey         string
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether a Postgres connection is configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.DSN != "" || d.Host != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SuiConfig struct {
	PackageID string
	Network   string
	RPCURL    string
	Module    string
	RPCRate   float64
	RPCBurst  int
}

type WalrusConfig struct {
	RelayURL   string
	GatewayURL string
}

type KeyStoreConfig struct {
	Backend string // memory | redis
	TTL     time.Duration
}

type AccessConfig struct {
	MinPercentage uint64
}

type EventsConfig struct {
	NATSURL string
}

type ExportConfig struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
}

type JobsConfig struct {
	FundingSyncSchedule  string
	LedgerExportSchedule string
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			APIKey:         getEnv("API_KEY", ""),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "suiholar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Sui: SuiConfig{
			PackageID: getEnv("SUI_PACKAGE_ID", getEnv("NEXT_PUBLIC_SUI_PACKAGE_ID", "")),
			Network:   getEnv("SUI_NETWORK", "testnet"),
			RPCURL:    getEnv("SUI_RPC_URL", ""),
			Module:    getEnv("SUI_MODULE", "research_dao"),
			RPCRate:   getEnvAsFloat("SUI_RPC_RATE", 10),
			RPCBurst:  getEnvAsInt("SUI_RPC_BURST", 20),
		},
		Walrus: WalrusConfig{
			RelayURL:   getEnv("WALRUS_RELAY_URL", "https://upload-relay.testnet.walrus.space/v1/blobs"),
			GatewayURL: getEnv("WALRUS_GATEWAY_URL", "https://gateway.walrus.xyz/blobs"),
		},
		KeyStore: KeyStoreConfig{
			Backend: strings.ToLower(getEnv("KEYSTORE_BACKEND", "memory")),
			TTL:     getEnvAsDuration("KEYSTORE_TTL", 0),
		},
		Access: AccessConfig{
			MinPercentage: uint64(getEnvAsInt("ACCESS_MIN_PERCENTAGE", 10)),
		},
		Events: EventsConfig{
			NATSURL: getEnv("NATS_URL", ""),
		},
		Export: ExportConfig{
			Bucket:   getEnv("EXPORT_S3_BUCKET", ""),
			Prefix:   getEnv("EXPORT_S3_PREFIX", "ledger"),
			Region:   getEnv("EXPORT_S3_REGION", "us-east-1"),
			Endpoint: getEnv("EXPORT_S3_ENDPOINT", ""),
		},
		Jobs: JobsConfig{
			FundingSyncSchedule:  getEnv("FUNDING_SYNC_SCHEDULE", "0 */10 * * * *"),
			LedgerExportSchedule: getEnv("LEDGER_EXPORT_SCHEDULE", "0 0 0 * * *"),
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "suiholar-api"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.KeyStore.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("KEYSTORE_BACKEND must be memory or redis, got %q", c.KeyStore.Backend)
	}

	switch c.Sui.Network {
	case "localnet", "devnet", "testnet", "mainnet":
	default:
		if c.Sui.RPCURL == "" {
			return fmt.Errorf("SUI_NETWORK %q is unknown and SUI_RPC_URL is not set", c.Sui.Network)
		}
	}

	if c.Access.MinPercentage > 100 {
		return fmt.Errorf("ACCESS_MIN_PERCENTAGE must be between 0 and 100")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
