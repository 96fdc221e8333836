// Package config loads scorecard-sync settings from defaults, an optional
// scorecard-sync.yaml, SCORECARD_SYNC_* environment variables and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/scorecard-sync/internal/course"
	"github.com/pfrederiksen/scorecard-sync/internal/crypto"
	"github.com/pfrederiksen/scorecard-sync/internal/scraper"
)

// EnvPrefix prefixes every environment override, e.g. SCORECARD_SYNC_GC_API_KEY.
const EnvPrefix = "SCORECARD_SYNC"

// Setting keys.
const (
	KeyGrintBaseURL  = "grint.base_url"
	KeyGrintUsername = "grint.username"
	KeyGrintPassword = "grint.password"
	KeyGrintRPS      = "grint.requests_per_second"
	KeyGCBaseURL     = "gc.base_url"
	KeyGCAPIKey      = "gc.api_key"
	KeyHTTPTimeout   = "http.timeout"
	KeyDataDir       = "data_dir"
	KeyCacheTTL      = "cache_ttl"
	KeyVerbose       = "verbose"
	KeyPassphrase    = "passphrase"
	KeyNotifyURL     = "notify.webhook_url"
)

type Config struct {
	Grint  GrintConfig  `mapstructure:"grint"`
	GC     GCConfig     `mapstructure:"gc"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Notify NotifyConfig `mapstructure:"notify"`

	DataDir  string        `mapstructure:"data_dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Verbose  bool          `mapstructure:"verbose"`

	// Passphrase opens sealed credentials. Set it through the environment.
	Passphrase string `mapstructure:"passphrase"`
}

type GrintConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	Username          string  `mapstructure:"username"`
	Password          string  `mapstructure:"password"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

type GCConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// HasGrintLogin reports whether Grint credentials are configured.
func (c *Config) HasGrintLogin() bool {
	return c.Grint.Username != "" && c.Grint.Password != ""
}

// HasGC reports whether the Golf Canada API is configured.
func (c *Config) HasGC() bool {
	return c.GC.APIKey != ""
}

// Loader reads configuration. The zero value is not usable; call NewLoader.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults, config file search paths and
// environment binding in place.
func NewLoader() *Loader {
	v := viper.New()

	v.SetDefault(KeyGrintBaseURL, scraper.DefaultBaseURL)
	v.SetDefault(KeyGrintUsername, "")
	v.SetDefault(KeyGrintPassword, "")
	v.SetDefault(KeyGrintRPS, 2.0)
	v.SetDefault(KeyGCBaseURL, course.DefaultBaseURL)
	v.SetDefault(KeyGCAPIKey, "")
	v.SetDefault(KeyHTTPTimeout, "30s")
	v.SetDefault(KeyDataDir, "~/.local/share/scorecard-sync")
	v.SetDefault(KeyCacheTTL, course.DefaultCacheTTL.String())
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyPassphrase, "")
	v.SetDefault(KeyNotifyURL, "")

	v.SetConfigName("scorecard-sync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/scorecard-sync")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// SetConfigFile uses an explicit file instead of searching.
func (l *Loader) SetConfigFile(path string) {
	if path != "" {
		l.v.SetConfigFile(path)
	}
}

// BindFlag lets a command line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s: %w", key, err)
	}
	return nil
}

// ConfigFileUsed returns the file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Load reads the config file if one exists and decodes every layer.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.openSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// openSecrets decrypts sealed credentials in place.
func (c *Config) openSecrets() error {
	secrets := map[string]*string{
		KeyGrintPassword: &c.Grint.Password,
		KeyGCAPIKey:      &c.GC.APIKey,
	}

	var enc *crypto.Encryptor
	for key, value := range secrets {
		if !crypto.IsSealed(*value) {
			continue
		}
		if enc == nil {
			var err error
			if enc, err = crypto.NewEncryptor(c.Passphrase); err != nil {
				return fmt.Errorf("opening %s: set %s_PASSPHRASE: %w", key, EnvPrefix, err)
			}
		}
		opened, err := enc.Open(*value)
		if err != nil {
			return fmt.Errorf("opening %s: %w", key, err)
		}
		*value = opened
	}
	return nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.Grint.BaseURL == "" {
		return fmt.Errorf("invalid config: %s is empty", KeyGrintBaseURL)
	}
	if c.Grint.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid config: %s must not be negative", KeyGrintRPS)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("invalid config: %s must be positive", KeyHTTPTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid config: %s must not be negative", KeyCacheTTL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("invalid config: %s is empty", KeyDataDir)
	}
	return nil
}
