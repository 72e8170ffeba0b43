// Package config loads process configuration from config.yaml, a .env file
// and the environment, and builds the zap logger.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Render RenderConfig `mapstructure:"render"`
	Layout LayoutConfig `mapstructure:"layout"`
	Quote  QuoteConfig  `mapstructure:"quote"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RenderConfig struct {
	PrintTimeout time.Duration `mapstructure:"print_timeout"`
	PrintRetries int           `mapstructure:"print_retries"`
	ChromiumPath string        `mapstructure:"chromium_path"`
	Branding     string        `mapstructure:"branding"`
}

// LayoutConfig holds the layout overrides; zero values keep the engine defaults.
type LayoutConfig struct {
	BottomThreshold          float64 `mapstructure:"bottom_threshold"`
	WrapColumns              int     `mapstructure:"wrap_columns"`
	CertificatesShowQuantity bool    `mapstructure:"certificates_show_quantity"`
}

type QuoteConfig struct {
	NumberPrefix string `mapstructure:"number_prefix"`
	NumberType   string `mapstructure:"number_type"`
}

// Load reads ./configs/config.yaml or ./config.yaml when present. A .env file
// in the working directory is loaded first; real environment variables win.
func Load() (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("render.print_timeout", "15s")
	v.SetDefault("render.print_retries", 2)
	v.SetDefault("render.chromium_path", "")
	v.SetDefault("render.branding", "Gerado pelo Sistema de Orçamentos")
	v.SetDefault("layout.bottom_threshold", 0)
	v.SetDefault("layout.wrap_columns", 0)
	v.SetDefault("layout.certificates_show_quantity", false)
	v.SetDefault("quote.number_prefix", "")
	v.SetDefault("quote.number_type", "date")
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")

	v.BindEnv("render.print_timeout", "PRINT_TIMEOUT")
	v.BindEnv("render.print_retries", "PRINT_RETRIES")
	v.BindEnv("render.chromium_path", "CHROMIUM_PATH")

	v.BindEnv("quote.number_prefix", "QUOTE_NUMBER_PREFIX")
	v.BindEnv("quote.number_type", "QUOTE_NUMBER_TYPE")
}

func (c *Config) validate() error {
	switch c.Quote.NumberType {
	case "date", "sequential":
	default:
		return fmt.Errorf("quote.number_type must be date or sequential, got %q", c.Quote.NumberType)
	}
	if c.Render.PrintRetries < 0 {
		return fmt.Errorf("render.print_retries must not be negative, got %d", c.Render.PrintRetries)
	}
	return nil
}
