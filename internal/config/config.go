package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/toaster/internal/errors"
	"github.com/vango-dev/toaster/pkg/toast"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "toaster.json"

	// DefaultAddr is the default playground listen address.
	DefaultAddr = "localhost:3000"

	// DefaultMetricsPath is where the playground serves Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// PersistentDuration is the duration value that disables auto-dismissal.
	PersistentDuration = "persistent"
)

// FileNames are the configuration file names searched by Load, in order.
var FileNames = []string{ConfigFileName, "toaster.yaml", "toaster.yml"}

// Config represents a toaster.json or toaster.yaml file.
type Config struct {
	// Toast configures the notifier.
	Toast ToastConfig `json:"toast" yaml:"toast"`

	// Serve configures the playground server.
	Serve ServeConfig `json:"serve" yaml:"serve"`

	// Log configures the CLI logger.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ToastConfig mirrors toast.Config with durations written as strings
// such as "3s" or "persistent".
type ToastConfig struct {
	MaxVisible   int         `json:"maxVisible,omitempty" yaml:"maxVisible,omitempty" validate:"gte=0,lte=100"`
	Position     string      `json:"position,omitempty" yaml:"position,omitempty" validate:"omitempty,oneof=top-left top-right bottom-left bottom-right"`
	Duration     string      `json:"duration,omitempty" yaml:"duration,omitempty" validate:"omitempty,toast_duration"`
	MountDelay   string      `json:"mountDelay,omitempty" yaml:"mountDelay,omitempty" validate:"omitempty,delay"`
	UnmountDelay string      `json:"unmountDelay,omitempty" yaml:"unmountDelay,omitempty" validate:"omitempty,delay"`
	MaxActive    int         `json:"maxActive,omitempty" yaml:"maxActive,omitempty" validate:"gte=0"`
	Style        toast.Style `json:"style,omitempty" yaml:"style,omitempty"`
}

// ServeConfig contains playground server settings.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" validate:"required,hostname_port"`

	// MetricsPath is the Prometheus scrape path.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty" validate:"required,startswith=/"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=text json"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Toast: ToastConfig{
			MaxVisible:   toast.DefaultMaxVisible,
			Position:     string(toast.DefaultPosition),
			Duration:     toast.DefaultDuration.String(),
			MountDelay:   toast.DefaultMountDelay.String(),
			UnmountDelay: toast.DefaultUnmountDelay.String(),
		},
		Serve: ServeConfig{
			Addr:        DefaultAddr,
			MetricsPath: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It uses the first of FileNames present in the directory.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("T121").
		WithDetail("No toaster.json or toaster.yaml found in " + dir).
		WithSuggestion("Create toaster.json or run without --config to use defaults")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("T121").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("T120").Wrap(err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes configuration data. ext is ".json", ".yaml" or ".yml".
func Parse(data []byte, ext string) (*Config, error) {
	cfg := New()
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("T120").
				WithDetail("Failed to parse JSON: " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("T120").
				WithDetail("Failed to parse YAML: " + err.Error()).
				WithSuggestion("Check the file's indentation and quoting")
		}
	default:
		return nil, errors.New("T122").
			WithDetail("Extension " + ext + " is not .json, .yaml or .yml")
	}

	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to path, as YAML or JSON by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	default:
		return errors.New("T122").WithDetail("Cannot save to " + path)
	}
	if err != nil {
		return errors.New("T120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("T120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Toast.MaxVisible == 0 {
		c.Toast.MaxVisible = toast.DefaultMaxVisible
	}
	if c.Toast.Position == "" {
		c.Toast.Position = string(toast.DefaultPosition)
	}
	c.Toast.Position = strings.ToLower(strings.TrimSpace(c.Toast.Position))
	if c.Toast.Duration == "" {
		c.Toast.Duration = toast.DefaultDuration.String()
	}
	if c.Toast.MountDelay == "" {
		c.Toast.MountDelay = toast.DefaultMountDelay.String()
	}
	if c.Toast.UnmountDelay == "" {
		c.Toast.UnmountDelay = toast.DefaultUnmountDelay.String()
	}

	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration against its schema and the notifier's
// own rules.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return convertValidationError(err)
	}
	tc, err := c.ToastConfig()
	if err != nil {
		return err
	}
	return tc.Validate()
}

// ToastConfig converts the toast section into a toast.Config.
func (c *Config) ToastConfig() (toast.Config, error) {
	duration, err := parseDuration("toast.duration", c.Toast.Duration, true)
	if err != nil {
		return toast.Config{}, err
	}
	mount, err := parseDuration("toast.mountDelay", c.Toast.MountDelay, false)
	if err != nil {
		return toast.Config{}, err
	}
	unmount, err := parseDuration("toast.unmountDelay", c.Toast.UnmountDelay, false)
	if err != nil {
		return toast.Config{}, err
	}

	return toast.Config{
		MaxVisible:   c.Toast.MaxVisible,
		Position:     toast.Position(c.Toast.Position),
		Duration:     duration,
		Style:        c.Toast.Style,
		MountDelay:   mount,
		UnmountDelay: unmount,
		MaxActive:    c.Toast.MaxActive,
	}, nil
}

func parseDuration(field, s string, allowPersistent bool) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if allowPersistent && strings.EqualFold(s, PersistentDuration) {
		return toast.Persistent, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.New("T103").WithField(field).
			WithDetail(s + " is not a non-negative duration such as 3s or 500ms")
	}
	return d, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the nearest directory that
// holds a config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("T121").
				WithDetail("No toaster.json or toaster.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest parent that has one. Without any config file it returns
// the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if stderrors.Is(err, errors.New("T121")) {
			return New(), nil
		}
		return nil, err
	}

	return Load(root)
}
