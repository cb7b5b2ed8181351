package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mstoykov/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// Browser names accepted by the backends
const (
	BrowserChrome  = "Chrome"
	BrowserFirefox = "Firefox"
	BrowserEdge    = "Edge"
)

// Driver backends
const (
	DriverSelenium   = "selenium"
	DriverPlaywright = "playwright"
)

// Duration is a time.Duration that decodes from Go duration strings
type Duration time.Duration

// UnmarshalText - parses strings such as "5s" or "250ms"
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText - renders the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std - returns the value as time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Config holds everything a run needs. It is built once and passed down explicitly.
type Config struct {
	LogFolder string `toml:"log_folder" envconfig:"ECOM_LOG_FOLDER" validate:"required"`
	LogLevel  string `toml:"log_level" envconfig:"ECOM_LOG_LEVEL" validate:"oneof=trace debug info warning warn error"`
	LogPrefix string `toml:"log_prefix" envconfig:"ECOM_LOG_PREFIX" validate:"required"`

	Driver        string `toml:"driver" envconfig:"ECOM_DRIVER" validate:"oneof=selenium playwright"`
	Browser       string `toml:"browser" envconfig:"ECOM_BROWSER" validate:"oneof=Chrome Firefox Edge"`
	DriverPath    string `toml:"driver_path" envconfig:"ECOM_DRIVER_PATH"`
	BrowserBinary string `toml:"browser_binary" envconfig:"ECOM_BROWSER_BINARY"`
	DriverPort    int    `toml:"driver_port" envconfig:"ECOM_DRIVER_PORT" validate:"gte=0,lte=65535"`
	Headless      bool   `toml:"headless" envconfig:"ECOM_HEADLESS"`
	Maximized     bool   `toml:"maximized" envconfig:"ECOM_MAXIMIZED"`
	GPU           bool   `toml:"gpu" envconfig:"ECOM_GPU"`
	Sandbox       bool   `toml:"sandbox" envconfig:"ECOM_SANDBOX"`

	BaseURL      string `toml:"base_url" envconfig:"ECOM_BASE_URL" validate:"omitempty,url"`
	LocatorsFile string `toml:"locators_file" envconfig:"ECOM_LOCATORS_FILE" validate:"required"`
	UsersAPIURL  string `toml:"users_api_url" envconfig:"ECOM_USERS_API_URL" validate:"omitempty,url"`

	DefaultTimeout    Duration `toml:"default_timeout" envconfig:"ECOM_DEFAULT_TIMEOUT" validate:"gt=0"`
	PollInterval      Duration `toml:"poll_interval" envconfig:"ECOM_POLL_INTERVAL" validate:"gt=0"`
	NavigationTimeout Duration `toml:"navigation_timeout" envconfig:"ECOM_NAVIGATION_TIMEOUT" validate:"gt=0"`
	APITimeout        Duration `toml:"api_timeout" envconfig:"ECOM_API_TIMEOUT" validate:"gt=0"`
	LoginTimeLimit    Duration `toml:"login_time_limit" envconfig:"ECOM_LOGIN_TIME_LIMIT" validate:"gt=0"`
}

// Default - returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		LogFolder:         "Logs",
		LogLevel:          "info",
		LogPrefix:         "ecommerce",
		Driver:            DriverSelenium,
		Browser:           BrowserChrome,
		Headless:          true,
		Maximized:         false,
		GPU:               false,
		Sandbox:           false,
		LocatorsFile:      "testdata/sauce_demo.yaml",
		DefaultTimeout:    Duration(5 * time.Second),
		PollInterval:      Duration(100 * time.Millisecond),
		NavigationTimeout: Duration(30 * time.Second),
		APITimeout:        Duration(5 * time.Second),
		LoginTimeLimit:    Duration(10 * time.Second),
	}
}

// LoadOptions points Load at its sources. Empty fields skip that source.
type LoadOptions struct {
	File    string
	EnvFile string
	Lookup  func(string) (string, bool)
	Flags   *pflag.FlagSet
}

// Load - builds the configuration from defaults, a TOML file, a .env file, the environment and flags
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		if err := cfg.mergeFile(opts.File); err != nil {
			return Config{}, err
		}
	}

	if opts.EnvFile != "" {
		// .env file is optional
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := envconfig.Process("", &cfg, lookup); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	if opts.Flags != nil {
		if err := cfg.applyFlags(opts.Flags); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate - checks the configuration is usable
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
