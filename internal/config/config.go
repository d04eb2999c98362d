package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the full server configuration, built once at startup and threaded
// through wiring. There is no package-level mutable state.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Primary and optional secondary shared admin secrets. When set they are
	// seeded into the token store on startup and cannot be rotated or deleted
	// through the API.
	AdminToken  string `mapstructure:"admin_token"`
	AdminToken2 string `mapstructure:"admin_token_2"`

	OpenAIKey string `mapstructure:"openai_api_key"`

	DataDir       string `mapstructure:"data_dir"`
	TokenHashAlgo string `mapstructure:"token_hash_algo"`

	// Requests per minute per client IP. The limiter is in-memory and
	// per-process; it does not coordinate across instances.
	RateLimitMax int `mapstructure:"rate_limit_max"`

	Heartbeat       bool `mapstructure:"heartbeat"`
	SelfPing        bool `mapstructure:"self_ping"`
	LogRequests     bool `mapstructure:"log_requests"`
	EnableCORS      bool `mapstructure:"enable_cors"`
	PublicTemplates bool `mapstructure:"public_templates"`
	ForceHTTPS      bool `mapstructure:"force_https"`
	HSTS            bool `mapstructure:"hsts"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration from an optional .env file and the environment.
// Environment variables keep the names the deployment already uses
// (ADMIN_TOKEN, DATA_DIR, ...).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3000)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("token_hash_algo", "sha256")
	v.SetDefault("rate_limit_max", 120)
	v.SetDefault("heartbeat", true)
	v.SetDefault("self_ping", false)
	v.SetDefault("log_requests", false)
	v.SetDefault("enable_cors", false)
	v.SetDefault("public_templates", false)
	v.SetDefault("force_https", false)
	v.SetDefault("hsts", false)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", "json")

	// Optional .env file; absence or a parse error is not fatal, environment
	// variables still apply.
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	for key, env := range map[string]string{
		"host":             "HOST",
		"port":             "PORT",
		"admin_token":      "ADMIN_TOKEN",
		"admin_token_2":    "ADMIN_TOKEN_2",
		"openai_api_key":   "OPENAI_API_KEY",
		"data_dir":         "DATA_DIR",
		"token_hash_algo":  "TOKEN_HASH_ALGO",
		"rate_limit_max":   "RATE_LIMIT_MAX",
		"heartbeat":        "HEARTBEAT",
		"self_ping":        "SELF_PING",
		"log_requests":     "LOG_REQUESTS",
		"enable_cors":      "ENABLE_CORS",
		"public_templates": "PUBLIC_TEMPLATES",
		"force_https":      "FORCE_HTTPS",
		"hsts":             "HSTS",
		"log_level":        "LOG_LEVEL",
		"log_format":       "LOG_FORMAT",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	abs, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	cfg.DataDir = abs

	return &cfg, nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TemplatesFile returns the path of the template array file.
func (c *Config) TemplatesFile() string {
	return filepath.Join(c.DataDir, "templates.json")
}

// CategoriesFile returns the path of the category array file.
func (c *Config) CategoriesFile() string {
	return filepath.Join(c.DataDir, "categories.json")
}

// TokensFile returns the path of the token store file.
func (c *Config) TokensFile() string {
	return filepath.Join(c.DataDir, "admin_tokens.json")
}
