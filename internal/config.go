package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fieldkit/internal/repository"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Store drivers.
const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Auth     AuthConfig        `yaml:"auth"`
	Store    StoreConfig       `yaml:"store"`
	Snapshot SnapshotConfig    `yaml:"snapshot"`
	Search   SearchConfig      `yaml:"search"`
	Events   EventsConfig      `yaml:"events"`
	Seed     SeedConfig        `yaml:"seed"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		&c.App, &c.Auth, &c.Store, &c.Search, &c.Events,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// StoreConfig selects where definitions live. The memory driver can be
// backed by a snapshot file; the sqlite driver persists on its own.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StoreDriverMemory, StoreDriverSQLite)),
		validation.Field(&c.SQLitePath, validation.When(c.Driver == StoreDriverSQLite, validation.Required)),
	)
}

// SnapshotConfig controls the YAML snapshot of the memory store. An empty
// Path disables it.
type SnapshotConfig struct {
	Path       string `yaml:"path"`
	SaveOnExit bool   `yaml:"save_on_exit"`
}

// SearchConfig sets the name matching policy of FindByName.
type SearchConfig struct {
	CaseSensitive bool   `yaml:"case_sensitive"`
	Match         string `yaml:"match"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Match, validation.Required,
			validation.In(string(repository.MatchContains), string(repository.MatchPrefix))),
	)
}

// Matcher returns the repository matching policy.
func (c *SearchConfig) Matcher() repository.Matcher {
	return repository.Matcher{CaseSensitive: c.CaseSensitive, Mode: repository.MatchMode(c.Match)}
}

// EventsConfig holds SSE settings.
type EventsConfig struct {
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// SeedConfig controls the demo definitions loaded into an empty store.
type SeedConfig struct {
	Demo bool `yaml:"demo"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Store: StoreConfig{
			Driver:     StoreDriverMemory,
			SQLitePath: "./fieldkit.db",
		},
		Snapshot: SnapshotConfig{
			Path:       "./components.yaml",
			SaveOnExit: true,
		},
		Search: SearchConfig{
			CaseSensitive: true,
			Match:         string(repository.MatchContains),
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
		Seed: SeedConfig{
			Demo: true,
		},
	}
}
