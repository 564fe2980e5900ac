// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Starknet  StarknetConfig
	PriceFeed PriceFeedConfig
	Checkout  CheckoutConfig
	Pinata    PinataConfig
	Admin     AdminConfig
	Logging   LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	PublicURL    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// StarknetConfig contains the chain endpoint and the contract addresses the
// storefront talks to
type StarknetConfig struct {
	RPCURL               string
	StoreContractAddress string
	TokenContractAddress string
	ReceiptPollInterval  time.Duration
}

// PriceFeedConfig contains the external token price feed configuration
type PriceFeedConfig struct {
	URL              string
	AssetKey         string
	FallbackPriceUSD float64
	RequestTimeout   time.Duration
	RefreshInterval  time.Duration
	CacheTTL         time.Duration
}

// CheckoutConfig contains checkout tuning parameters
type CheckoutConfig struct {
	// Buffer multipliers absorb oracle price drift between the client-side
	// estimate and on-chain settlement. The contract only pulls the exact
	// required amount, so over-buffering never overcharges the buyer.
	SingleItemBuffer float64
	MultiItemBuffer  float64
	TokenDecimals    int
	SessionTTL       time.Duration
}

// PinataConfig contains IPFS pinning service configuration
type PinataConfig struct {
	APIKey     string
	SecretKey  string
	GatewayURL string
	UploadURL  string
	MaxSize    int64
}

// AdminConfig contains the admin panel login credentials
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Web3 Storefront Backend"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			PublicURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront_db"),
			User:         getEnv("DB_USER", "storefront_user"),
			Password:     getEnv("DB_PASSWORD", "storefront_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
			AccessTokenExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
			RefreshTokenExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
		},
		Starknet: StarknetConfig{
			RPCURL:               getEnv("STARKNET_RPC_URL", "https://starknet-sepolia.public.blastapi.io/rpc/v0_7"),
			StoreContractAddress: getEnv("STORE_CONTRACT_ADDRESS", "0x0190c874390d7a6ed8caa01acf6ea2020676eac050cdabc84c2fa69d75f31b7c"),
			TokenContractAddress: getEnv("STRK_TOKEN_ADDRESS", "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"),
			ReceiptPollInterval:  getEnvAsDuration("RECEIPT_POLL_INTERVAL", 5*time.Second),
		},
		PriceFeed: PriceFeedConfig{
			URL:              getEnv("PRICE_FEED_URL", "https://api.coingecko.com/api/v3/simple/price?ids=starknet&vs_currencies=usd"),
			AssetKey:         getEnv("PRICE_FEED_ASSET_KEY", "starknet"),
			FallbackPriceUSD: getEnvAsFloat("PRICE_FEED_FALLBACK_USD", 2.0),
			RequestTimeout:   getEnvAsDuration("PRICE_FEED_TIMEOUT", 5*time.Second),
			RefreshInterval:  getEnvAsDuration("PRICE_FEED_REFRESH_INTERVAL", 30*time.Second),
			CacheTTL:         getEnvAsDuration("PRICE_FEED_CACHE_TTL", 60*time.Second),
		},
		Checkout: CheckoutConfig{
			SingleItemBuffer: getEnvAsFloat("CHECKOUT_SINGLE_ITEM_BUFFER", 1.0),
			MultiItemBuffer:  getEnvAsFloat("CHECKOUT_MULTI_ITEM_BUFFER", 4.0),
			TokenDecimals:    getEnvAsInt("PAYMENT_TOKEN_DECIMALS", 18),
			SessionTTL:       getEnvAsDuration("CHECKOUT_SESSION_TTL", 30*time.Minute),
		},
		Pinata: PinataConfig{
			APIKey:     getEnv("PINATA_API_KEY", ""),
			SecretKey:  getEnv("PINATA_SECRET_KEY", ""),
			GatewayURL: getEnv("PINATA_GATEWAY", "https://gateway.pinata.cloud"),
			UploadURL:  getEnv("PINATA_UPLOAD_URL", "https://api.pinata.cloud/pinning/pinFileToIPFS"),
			MaxSize:    getEnvAsInt64("UPLOAD_MAX_SIZE", 10485760), // 10MB
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", "admin@example.com"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate JWT secret
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	// Validate database configuration
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	// Validate Redis configuration
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	// Validate chain configuration
	if c.Starknet.RPCURL == "" {
		return fmt.Errorf("STARKNET_RPC_URL is required")
	}
	if c.Starknet.StoreContractAddress == "" {
		return fmt.Errorf("STORE_CONTRACT_ADDRESS is required")
	}
	if c.Starknet.TokenContractAddress == "" {
		return fmt.Errorf("STRK_TOKEN_ADDRESS is required")
	}

	// Validate checkout parameters
	if c.Checkout.SingleItemBuffer < 1.0 || c.Checkout.MultiItemBuffer < 1.0 {
		return fmt.Errorf("checkout buffer multipliers must be >= 1.0")
	}
	if c.PriceFeed.FallbackPriceUSD <= 0 {
		return fmt.Errorf("PRICE_FEED_FALLBACK_USD must be positive")
	}

	// Validate server port
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
