package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/fieldkit/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestStoreConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     StoreConfig
		wantErr bool
	}{
		{"memory", StoreConfig{Driver: "memory"}, false},
		{"sqlite with path", StoreConfig{Driver: "sqlite", SQLitePath: "x.db"}, false},
		{"sqlite without path", StoreConfig{Driver: "sqlite"}, true},
		{"unknown driver", StoreConfig{Driver: "postgres"}, true},
		{"empty driver", StoreConfig{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSearchConfig(t *testing.T) {
	cfg := SearchConfig{Match: "prefix"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("prefix should pass: %v", err)
	}
	m := cfg.Matcher()
	if m.CaseSensitive || m.Mode != "prefix" {
		t.Errorf("matcher = %+v", m)
	}
	if err := (&SearchConfig{Match: "fuzzy"}).Validate(); err == nil {
		t.Error("unknown match mode should fail")
	}
}

func TestEventsConfig(t *testing.T) {
	if err := (&EventsConfig{}).Validate(); err == nil {
		t.Error("zero throttle should fail")
	}
	if err := (&EventsConfig{Throttle: time.Millisecond}).Validate(); err == nil {
		t.Error("1ms throttle should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("FIELDKIT_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `app:
  log_level: debug
  http:
    port: 9090
auth:
  mode: token
  token: ${FIELDKIT_TEST_TOKEN}
store:
  driver: sqlite
  sqlite_path: ./data.db
events:
  throttle: 500ms
seed:
  demo: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.HTTP.Port != 9090 {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Auth.Token != "s3cret" {
		t.Errorf("token not expanded: %q", cfg.Auth.Token)
	}
	if cfg.Events.Throttle != 500*time.Millisecond {
		t.Errorf("throttle = %v", cfg.Events.Throttle)
	}
	if cfg.Seed.Demo {
		t.Error("seed.demo should be false")
	}
	if cfg.Search.Match != "contains" || !cfg.Search.CaseSensitive {
		t.Errorf("search defaults lost: %+v", cfg.Search)
	}
}
