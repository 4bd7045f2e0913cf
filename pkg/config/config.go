package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"smartswiggy/internal/pricing"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

const envPrefix = "SMARTSWIGGY"

type PsqlConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Sslmode  string `mapstructure:"sslmode"`
}

type HTTPConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type PricingConfig struct {
	DeliveryFee int64  `mapstructure:"delivery_fee"`
	TaxRate     string `mapstructure:"tax_rate"`

	rate decimal.Decimal
}

// Rate is TaxRate parsed by Load.
func (p PricingConfig) Rate() decimal.Decimal {
	return p.rate
}

type PaymentsConfig struct {
	RequestInterval time.Duration `mapstructure:"request_interval"`
}

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Psql     PsqlConfig     `mapstructure:"psql_conn"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Payments PaymentsConfig `mapstructure:"payments"`
}

// Load reads config.yaml from the working directory or CONFIG_PATH.
// Values from the environment (and a .env file, if any) take precedence,
// e.g. SMARTSWIGGY_HTTP_PORT overrides http.port.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file, %s\n", err)
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Error reading config file, %s\n", err)
			return nil, err
		}
		log.Printf("Config file not found, using defaults\n")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Unable to decode into struct, %v\n", err)
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.env", EnvLocal)
	v.SetDefault("http.port", 8080)
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("psql_conn.user", "postgres")
	v.SetDefault("psql_conn.password", "postgres")
	v.SetDefault("psql_conn.host", "localhost")
	v.SetDefault("psql_conn.port", 5432)
	v.SetDefault("psql_conn.database", "smartswiggy")
	v.SetDefault("psql_conn.sslmode", "disable")
	v.SetDefault("pricing.delivery_fee", 40)
	v.SetDefault("pricing.tax_rate", "0.05")
	v.SetDefault("payments.request_interval", 800*time.Millisecond)
}

func (c *Config) validate() error {
	switch c.HTTP.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("config: unknown env %q", c.HTTP.Env)
	}

	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	if c.Pricing.DeliveryFee < 0 {
		return fmt.Errorf("config: delivery fee must not be negative")
	}

	rate, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil {
		return fmt.Errorf("config: tax rate: %w", err)
	}
	if err := pricing.ValidateRate(rate); err != nil {
		return fmt.Errorf("config: tax rate %s: %w", rate, err)
	}
	c.Pricing.rate = rate

	if c.Payments.RequestInterval <= 0 {
		return fmt.Errorf("config: payment request interval must be positive")
	}

	return nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Psql.User, c.Psql.Password, c.Psql.Host, c.Psql.Port, c.Psql.Database, c.Psql.Sslmode)
}
