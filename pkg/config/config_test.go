package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
)

const minimal = `
environment: test
providers:
  base_url: http://provider.local
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", c.Server.Port)
	}
	if c.Providers.Stocks.Path != "/api/stocks" || c.Providers.Trends.Path != "/api/googletrends" {
		t.Fatalf("unexpected provider paths %q %q", c.Providers.Stocks.Path, c.Providers.Trends.Path)
	}
	if c.Providers.RequestTimeout != 0 {
		t.Fatalf("expected unbounded request timeout, got %v", c.Providers.RequestTimeout)
	}
	if c.Stream.PingInterval != 30*time.Second {
		t.Fatalf("unexpected ping interval %v", c.Stream.PingInterval)
	}
	if !c.Defaults.DispatchOnStart {
		t.Fatalf("expected dispatch_on_start default true")
	}

	q := c.DefaultQuery()
	want := models.QueryState{Symbol: "WATT", SearchTerm: "Energous", DateRange: models.DateRange2Y}
	if q != want {
		t.Fatalf("default query = %+v, want %+v", q, want)
	}
}

func TestParseYAMLOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimal + `
defaults:
  symbol: " aapl "
  date_range: "5 Years"
  dispatch_on_start: false
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Defaults.DispatchOnStart {
		t.Fatalf("expected dispatch_on_start false")
	}
	q := c.DefaultQuery()
	if q.Symbol != "AAPL" || q.DateRange != models.DateRange5Y {
		t.Fatalf("unexpected default query %+v", q)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"missing environment", "providers:\n  base_url: http://x\n", "environment is required"},
		{"missing base url", "environment: test\n", "providers.base_url is required"},
		{"bad default range", minimal + "defaults:\n  date_range: 3y\n", "defaults.date_range"},
		{"kafka without brokers", minimal + "kafka:\n  enabled: true\n", "kafka.brokers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	env := map[string]string{
		"STOCKS_API_BASE_URL": "http://override",
		"KAFKA_BROKERS":       "a:9092,b:9092",
		"DEFAULT_SEARCH_TERM": "Tesla",
	}
	c.applyEnv(func(k string) string { return env[k] })

	if c.Providers.BaseURL != "http://override" {
		t.Fatalf("base url not overridden: %q", c.Providers.BaseURL)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", c.Kafka.Brokers)
	}
	if c.DefaultQuery().SearchTerm != "Tesla" {
		t.Fatalf("search term not overridden")
	}
}

func TestLoadWithEnvSuppliesRequiredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("environment: dev\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STOCKS_API_BASE_URL", "http://from-env")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Providers.BaseURL != "http://from-env" {
		t.Fatalf("base url = %q", c.Providers.BaseURL)
	}
}

func TestLoadWithEnvStillValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(minimal), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DEFAULT_DATE_RANGE", "forever")

	if _, err := LoadWithEnv(path); err == nil || !strings.Contains(err.Error(), "defaults.date_range") {
		t.Fatalf("expected date range error, got %v", err)
	}
}
