package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Owner    OwnerConfig    `mapstructure:"owner"`
	Sale     SaleConfig     `mapstructure:"sale"`
	Vault    VaultConfig    `mapstructure:"vault"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// OwnerConfig identifies the sale owner and the technical backup owner.
// Both bypass quota and pricing on mint and may administer the sale.
type OwnerConfig struct {
	Account       string `mapstructure:"account"`
	BackupAccount string `mapstructure:"backup_account"`
}

// SaleConfig seeds the persisted sale configuration on first boot.
// After bootstrap the database row is authoritative; changes go through
// the owner/admin endpoints.
type SaleConfig struct {
	PresaleStart   string `mapstructure:"presale_start"`   // RFC3339, empty = unset
	PublicStart    string `mapstructure:"public_start"`    // RFC3339, empty = never opens
	Price          int64  `mapstructure:"price"`           // base units per item
	PresalePrice   int64  `mapstructure:"presale_price"`   // 0 = no discount
	Allowance      int    `mapstructure:"allowance"`       // public per-account cap, 0 = uncapped
	MintRateLimit  int    `mapstructure:"mint_rate_limit"` // per-request cap, 0 = unlimited
	MaxSupply      int64  `mapstructure:"max_supply"`      // 0 = unlimited
	RoyaltyAccount string `mapstructure:"royalty_account"`
	RoyaltyBps     int    `mapstructure:"royalty_bps"`
}

// VaultConfig governs escrow vault behaviour.
type VaultConfig struct {
	FeeBps                  int    `mapstructure:"fee_bps"`           // deposit fee skim, 100 = 1%
	ProvisionDeposit        int64  `mapstructure:"provision_deposit"` // base units reserved per vault
	FeeRecipient            string `mapstructure:"fee_recipient"`     // account receiving deposit fees
	RequireFullConfirmation bool   `mapstructure:"require_full_confirmation"`
}

// NotifyConfig secures inbound asset-transfer notifications.
type NotifyConfig struct {
	Secret string `mapstructure:"secret"` // HMAC key shared with asset contracts
}

// GatewayConfig points at the external collaborators.
type GatewayConfig struct {
	AssetBaseURL   string        `mapstructure:"asset_base_url"`
	ListingURL     string        `mapstructure:"listing_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CSG_ (Collectible Sale Gateway).
// Nested keys use underscore: CSG_DATABASE_HOST, CSG_SALE_PRICE, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "sale_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "collectible-sale-gateway")
	v.SetDefault("owner.account", "")
	v.SetDefault("owner.backup_account", "")
	v.SetDefault("sale.presale_start", "")
	v.SetDefault("sale.public_start", "")
	v.SetDefault("sale.price", 0)
	v.SetDefault("sale.presale_price", 0)
	v.SetDefault("sale.allowance", 0)
	v.SetDefault("sale.mint_rate_limit", 0)
	v.SetDefault("sale.max_supply", 0)
	v.SetDefault("sale.royalty_account", "")
	v.SetDefault("sale.royalty_bps", 0)
	v.SetDefault("vault.fee_bps", 100)
	v.SetDefault("vault.provision_deposit", 2)
	v.SetDefault("vault.fee_recipient", "")
	v.SetDefault("vault.require_full_confirmation", false)
	v.SetDefault("notify.secret", "")
	v.SetDefault("gateway.asset_base_url", "")
	v.SetDefault("gateway.listing_url", "")
	v.SetDefault("gateway.request_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CSG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("CSG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
