package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default Jobber API endpoints. Overridable for tests and API version bumps.
const (
	defaultAuthURL        = "https://api.getjobber.com/api/oauth/authorize"
	defaultTokenURL       = "https://api.getjobber.com/api/oauth/token"
	defaultGraphQLURL     = "https://api.getjobber.com/api/graphql"
	defaultGraphQLVersion = "2023-08-18"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Jobber struct {
		ClientID string `yaml:"client_id"`
		// ClientSecret may be stored secretbox-encrypted ("nonce|ciphertext");
		// wiring decrypts it when SECRETBOX_MASTER_KEY is configured.
		ClientSecret   string        `yaml:"client_secret"`
		RedirectURI    string        `yaml:"redirect_uri"`
		Scopes         []string      `yaml:"scopes"`
		AuthURL        string        `yaml:"auth_url"`
		TokenURL       string        `yaml:"token_url"`
		GraphQLURL     string        `yaml:"graphql_url"`
		GraphQLVersion string        `yaml:"graphql_version"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"jobber"`

	State struct {
		// SigningSecret selects the codec: set => HMAC-signed state,
		// empty => unsigned container state.
		SigningSecret string        `yaml:"signing_secret"`
		TTL           time.Duration `yaml:"ttl"`
	} `yaml:"state"`

	Sink struct {
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"timeout"`
		// AllowMissing switches the unconfigured-endpoint policy from
		// fail-closed (default) to permissive, for local testing.
		AllowMissing bool `yaml:"allow_missing"`
	} `yaml:"sink"`

	Frontend struct {
		SuccessURL       string `yaml:"success_url"`
		PhoneNotFoundURL string `yaml:"phone_not_found_url"`
		PhoneRequiredURL string `yaml:"phone_required_url"`
	} `yaml:"frontend"`

	Directory struct {
		DefaultClientID string        `yaml:"default_client_id"`
		CacheTTL        time.Duration `yaml:"cache_ttl"`
	} `yaml:"directory"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads the optional YAML file at path, applies env overrides and
// defaults, and validates the result. An empty path (or a missing file)
// means env-only configuration.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	c.applyEnvOverrides()

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{
			"https://jobber-connect-frontend.vercel.app",
			"http://localhost:3000",
		}
	}
	if len(c.Jobber.Scopes) == 0 {
		c.Jobber.Scopes = []string{"clients:read", "clients:write"}
	}
	if c.Jobber.AuthURL == "" {
		c.Jobber.AuthURL = defaultAuthURL
	}
	if c.Jobber.TokenURL == "" {
		c.Jobber.TokenURL = defaultTokenURL
	}
	if c.Jobber.GraphQLURL == "" {
		c.Jobber.GraphQLURL = defaultGraphQLURL
	}
	if c.Jobber.GraphQLVersion == "" {
		c.Jobber.GraphQLVersion = defaultGraphQLVersion
	}
	if c.Jobber.Timeout == 0 {
		c.Jobber.Timeout = 15 * time.Second
	}
	if c.State.TTL == 0 {
		c.State.TTL = 15 * time.Minute
	}
	if c.Sink.Timeout == 0 {
		c.Sink.Timeout = 15 * time.Second
	}
	if c.Frontend.SuccessURL == "" {
		c.Frontend.SuccessURL = "https://jobber-connect-frontend.vercel.app/success.html"
	}
	if c.Frontend.PhoneNotFoundURL == "" {
		c.Frontend.PhoneNotFoundURL = "https://jobber-connect-frontend.vercel.app/phone-not-found.html"
	}
	if c.Frontend.PhoneRequiredURL == "" {
		c.Frontend.PhoneRequiredURL = "https://jobber-connect-frontend.vercel.app/phone-required.html"
	}
	if c.Directory.DefaultClientID == "" {
		c.Directory.DefaultClientID = "test_client_1"
	}
	if c.Directory.CacheTTL == 0 {
		c.Directory.CacheTTL = 5 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate enforces the credentials without which the relay cannot run.
// Missing provider credentials must stop startup, not fail per-request.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Jobber.ClientID) == "" {
		missing = append(missing, "JOBBER_CLIENT_ID")
	}
	if strings.TrimSpace(c.Jobber.ClientSecret) == "" {
		missing = append(missing, "JOBBER_CLIENT_SECRET")
	}
	if strings.TrimSpace(c.Jobber.RedirectURI) == "" {
		missing = append(missing, "JOBBER_REDIRECT_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: required settings missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Signed reports whether the integrity-checked state codec is selected.
func (c *Config) Signed() bool {
	return strings.TrimSpace(c.State.SigningSecret) != ""
}

// ---- env helpers ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides lets environment variables win over config.yaml.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// JOBBER
	if v, ok := getEnvStr("JOBBER_CLIENT_ID"); ok {
		c.Jobber.ClientID = v
	}
	if v, ok := getEnvStr("JOBBER_CLIENT_SECRET"); ok {
		c.Jobber.ClientSecret = v
	}
	if v, ok := getEnvStr("JOBBER_REDIRECT_URI"); ok {
		c.Jobber.RedirectURI = v
	}
	if v, ok := getEnvCSV("JOBBER_SCOPES"); ok && len(v) > 0 {
		c.Jobber.Scopes = v
	}
	if v, ok := getEnvStr("JOBBER_AUTH_URL"); ok {
		c.Jobber.AuthURL = v
	}
	if v, ok := getEnvStr("JOBBER_TOKEN_URL"); ok {
		c.Jobber.TokenURL = v
	}
	if v, ok := getEnvStr("JOBBER_GRAPHQL_URL"); ok {
		c.Jobber.GraphQLURL = v
	}
	if v, ok := getEnvStr("JOBBER_GRAPHQL_VERSION"); ok {
		c.Jobber.GraphQLVersion = v
	}
	if v, ok := getEnvDur("JOBBER_TIMEOUT"); ok {
		c.Jobber.Timeout = v
	}

	// STATE
	if v, ok := getEnvStr("STATE_SIGNING_SECRET"); ok {
		c.State.SigningSecret = v
	}
	if v, ok := getEnvDur("STATE_TTL"); ok {
		c.State.TTL = v
	}

	// SINK
	if v, ok := getEnvStr("N8N_WEBHOOK_URL"); ok {
		c.Sink.WebhookURL = v
	}
	if v, ok := getEnvDur("SINK_TIMEOUT"); ok {
		c.Sink.Timeout = v
	}
	if v, ok := getEnvBool("SINK_ALLOW_MISSING"); ok {
		c.Sink.AllowMissing = v
	}

	// FRONTEND
	if v, ok := getEnvStr("FRONTEND_SUCCESS_URL"); ok {
		c.Frontend.SuccessURL = v
	}
	if v, ok := getEnvStr("FRONTEND_PHONE_NOT_FOUND_URL"); ok {
		c.Frontend.PhoneNotFoundURL = v
	}
	if v, ok := getEnvStr("FRONTEND_PHONE_REQUIRED_URL"); ok {
		c.Frontend.PhoneRequiredURL = v
	}

	// DIRECTORY
	if v, ok := getEnvStr("DIRECTORY_DEFAULT_CLIENT_ID"); ok {
		c.Directory.DefaultClientID = v
	}
	if v, ok := getEnvDur("DIRECTORY_CACHE_TTL"); ok {
		c.Directory.CacheTTL = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}
