package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"oep_client/internal/domain"
)

// Config holds every application setting. After LoadConfig parses the file,
// sensitive values are overridden from environment variables.
type Config struct {
	Gateway struct {
		Address     string `yaml:"address"`
		Port        int    `yaml:"port"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		Participant uint64 `yaml:"participant"`
		SessionID   uint32 `yaml:"session_id"`
		GatewayID   uint32 `yaml:"gateway_id"`
		DialRetries int    `yaml:"dial_retries"`
	} `yaml:"gateway"`

	Trading struct {
		BookID   uint64 `yaml:"book_id"`
		Quantity uint64 `yaml:"quantity"`
		Side     string `yaml:"side"` // "buy" or "sell"

		// Price band in instrument currency; orders are priced uniformly in
		// [band_low, band_high) on the tick grid.
		BandLow  decimal.Decimal `yaml:"band_low"`
		BandHigh decimal.Decimal `yaml:"band_high"`
		TickSize decimal.Decimal `yaml:"tick_size"`

		MaxOrdersInFlight int    `yaml:"max_orders_in_flight"`
		ClientOrderIDBase uint64 `yaml:"client_order_id_base"`
	} `yaml:"trading"`

	Stats struct {
		Enabled    bool   `yaml:"enabled"`
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"stats"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Gateway.Address == "" {
		return fmt.Errorf("gateway address is required")
	}
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("gateway port %d out of range", c.Gateway.Port)
	}
	if c.Gateway.Username == "" {
		return fmt.Errorf("gateway username is required")
	}
	// The order and cancel layouts carry the gateway id as a single byte.
	if c.Gateway.GatewayID > 255 {
		return fmt.Errorf("gateway_id %d does not fit the one-byte wire field", c.Gateway.GatewayID)
	}

	if _, err := c.SideByte(); err != nil {
		return err
	}
	if c.Trading.Quantity == 0 {
		return fmt.Errorf("order quantity must be positive")
	}
	if c.Trading.MaxOrdersInFlight < 10 {
		return fmt.Errorf("max_orders_in_flight must be at least 10, got %d", c.Trading.MaxOrdersInFlight)
	}
	if _, _, err := c.BandTicks(); err != nil {
		return err
	}

	if c.Stats.Enabled && c.Stats.ListenAddr == "" {
		return fmt.Errorf("stats listen_addr is required when stats are enabled")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal path is required when the journal is enabled")
	}

	return nil
}

// SideByte maps the configured side name to its wire value.
func (c *Config) SideByte() (byte, error) {
	switch c.Trading.Side {
	case "buy":
		return byte(domain.SideBuy), nil
	case "sell":
		return byte(domain.SideSell), nil
	default:
		return 0, fmt.Errorf("side must be \"buy\" or \"sell\", got %q", c.Trading.Side)
	}
}

// BandTicks converts the decimal price band to the integer tick range
// [low, high) used on the wire.
func (c *Config) BandTicks() (low, high uint64, err error) {
	if !c.Trading.TickSize.IsPositive() {
		return 0, 0, fmt.Errorf("tick_size must be positive, got %s", c.Trading.TickSize)
	}
	lowD := c.Trading.BandLow.Div(c.Trading.TickSize)
	highD := c.Trading.BandHigh.Div(c.Trading.TickSize)
	if !lowD.IsInteger() || !highD.IsInteger() {
		return 0, 0, fmt.Errorf("price band %s..%s is not aligned to tick size %s",
			c.Trading.BandLow, c.Trading.BandHigh, c.Trading.TickSize)
	}
	if lowD.IsNegative() || highD.LessThanOrEqual(lowD) {
		return 0, 0, fmt.Errorf("price band %s..%s is empty or negative", c.Trading.BandLow, c.Trading.BandHigh)
	}
	return uint64(lowD.IntPart()), uint64(highD.IntPart()), nil
}

// overrideWithEnv replaces settings from environment variables when present.
// Credentials should come from the environment rather than the config file.
func overrideWithEnv(cfg *Config) {
	if addr := os.Getenv("OEP_GATEWAY_ADDRESS"); addr != "" {
		cfg.Gateway.Address = addr
	}
	if user := os.Getenv("OEP_GATEWAY_USERNAME"); user != "" {
		cfg.Gateway.Username = user
	}
	if pass := os.Getenv("OEP_GATEWAY_PASSWORD"); pass != "" {
		cfg.Gateway.Password = pass
	}
}
