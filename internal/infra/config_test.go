package infra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"oep_client/internal/domain"
)

const sampleYAML = `
gateway:
  address: "127.0.0.1"
  port: 10000
  username: "test"
  password: "test"
  participant: 1050
  session_id: 600
  gateway_id: 1
  dial_retries: 5
trading:
  book_id: 1000
  quantity: 10
  side: "buy"
  band_low: "100.0"
  band_high: "150.0"
  tick_size: "0.10"
  max_orders_in_flight: 10000
  client_order_id_base: 100
stats:
  enabled: false
journal:
  enabled: false
logging:
  level: "info"
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Gateway.Participant != 1050 || cfg.Gateway.SessionID != 600 {
		t.Errorf("Gateway identity parsed wrong: %+v", cfg.Gateway)
	}
	if cfg.Trading.MaxOrdersInFlight != 10000 {
		t.Errorf("Expected cap 10000, got %d", cfg.Trading.MaxOrdersInFlight)
	}
	if !cfg.Trading.TickSize.Equal(decimal.RequireFromString("0.10")) {
		t.Errorf("Expected tick size 0.10, got %s", cfg.Trading.TickSize)
	}

	side, err := cfg.SideByte()
	if err != nil || side != byte(domain.SideBuy) {
		t.Errorf("Expected buy side byte 0, got %d (%v)", side, err)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("OEP_GATEWAY_USERNAME", "ops_user")
	t.Setenv("OEP_GATEWAY_PASSWORD", "hunter2")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Gateway.Username != "ops_user" {
		t.Errorf("Expected env username override, got %q", cfg.Gateway.Username)
	}
	if cfg.Gateway.Password != "hunter2" {
		t.Errorf("Expected env password override, got %q", cfg.Gateway.Password)
	}
}

func TestBandTicks(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	low, high, err := cfg.BandTicks()
	if err != nil {
		t.Fatalf("BandTicks failed: %v", err)
	}
	if low != 1000 || high != 1500 {
		t.Errorf("Expected band [1000, 1500), got [%d, %d)", low, high)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantSub string
	}{
		{
			name:    "gateway id beyond one byte",
			mutate:  func(c *Config) { c.Gateway.GatewayID = 256 },
			wantSub: "one-byte",
		},
		{
			name:    "unknown side",
			mutate:  func(c *Config) { c.Trading.Side = "short" },
			wantSub: "side",
		},
		{
			name:    "cap below retirement minimum",
			mutate:  func(c *Config) { c.Trading.MaxOrdersInFlight = 9 },
			wantSub: "max_orders_in_flight",
		},
		{
			name: "band not aligned to tick",
			mutate: func(c *Config) {
				c.Trading.BandLow = decimal.RequireFromString("100.05")
				c.Trading.TickSize = decimal.RequireFromString("0.2")
			},
			wantSub: "aligned",
		},
		{
			name: "empty band",
			mutate: func(c *Config) {
				c.Trading.BandHigh = c.Trading.BandLow
			},
			wantSub: "empty",
		},
		{
			name:    "zero tick size",
			mutate:  func(c *Config) { c.Trading.TickSize = decimal.Zero },
			wantSub: "tick_size",
		},
		{
			name:    "missing address",
			mutate:  func(c *Config) { c.Gateway.Address = "" },
			wantSub: "address",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, sampleYAML))
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation to fail")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("Error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}
