package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Endpoints   EndpointsConfig   `toml:"endpoints"`
	Collect     CollectConfig     `toml:"collect"`
	Database    DatabaseConfig    `toml:"database"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify client-credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" validate:"required"`
	ClientSecret string `toml:"client_secret" validate:"required"`
}

// YouTubeConfig contains YouTube Data API credentials.
//
// APIKey is optional and sent as the key query parameter alongside the bearer token.
type YouTubeConfig struct {
	ClientID     string `toml:"client_id" validate:"required"`
	ClientSecret string `toml:"client_secret" validate:"required"`
	APIKey       string `toml:"api_key"`
}

// EndpointsConfig holds provider base URLs. Overridable for proxies and tests.
type EndpointsConfig struct {
	SpotifyTokenURL string `toml:"spotify_token_url" validate:"omitempty,url"`
	SpotifyAPIURL   string `toml:"spotify_api_url" validate:"omitempty,url"`
	YouTubeTokenURL string `toml:"youtube_token_url" validate:"omitempty,url"`
	YouTubeAPIURL   string `toml:"youtube_api_url" validate:"omitempty,url"`
}

// CollectConfig tunes concurrent playlist collection.
type CollectConfig struct {
	Workers   int     `toml:"workers" validate:"gte=0,lte=16"`
	RateLimit float64 `toml:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	for _, section := range []any{config.Endpoints, config.Collect} {
		if err := validate.Struct(section); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides credentials with {PROVIDER}_CLIENT_ID style variables.
//
// A nil lookup uses [os.LookupEnv].
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&c.Credentials.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	set(&c.Credentials.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	set(&c.Credentials.YouTube.ClientID, "YOUTUBE_CLIENT_ID")
	set(&c.Credentials.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET")
	set(&c.Credentials.YouTube.APIKey, "YOUTUBE_API_KEY")
}

// Validate reports missing client credentials for one provider section.
func (s SpotifyConfig) Validate() error {
	return validateCredentials("spotify", s)
}

// Validate reports missing client credentials for one provider section.
func (y YouTubeConfig) Validate() error {
	return validateCredentials("youtube", y)
}

func validateCredentials(provider string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToUpper(provider)+"_"+toEnvSuffix(fe.Field()))
		}
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

func toEnvSuffix(field string) string {
	switch field {
	case "ClientID":
		return "CLIENT_ID"
	case "ClientSecret":
		return "CLIENT_SECRET"
	default:
		return strings.ToUpper(field)
	}
}
