package gallery

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phanxgames/lightbox"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvLibrary  = "LIGHTBOX_LIBRARY"
	EnvPageSize = "LIGHTBOX_PAGE_SIZE"
	EnvFit      = "LIGHTBOX_FIT"
	EnvDebug    = "LIGHTBOX_DEBUG"
)

// WindowConfig is the window size in pixels.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config configures the gallery screen.
type Config struct {
	// Library is the photo directory.
	Library string `yaml:"library"`

	PageSize   int                 `yaml:"page_size"`
	Columns    int                 `yaml:"columns"`
	CellHeight float64             `yaml:"cell_height"`
	Fit        lightbox.ContentFit `yaml:"fit"`

	// Transition is the enter and exit animation duration.
	Transition time.Duration `yaml:"transition"`
	Window     WindowConfig  `yaml:"window"`

	CacheSize      int `yaml:"cache_size"`
	ThumbnailEdge  int `yaml:"thumbnail_edge"`
	FullscreenEdge int `yaml:"fullscreen_edge"`
	Concurrency    int `yaml:"concurrency"`

	Debug   bool `yaml:"debug"`
	ShowFPS bool `yaml:"show_fps"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Library:        ".",
		PageSize:       21,
		Columns:        3,
		CellHeight:     120,
		Fit:            lightbox.FitCover,
		Transition:     200 * time.Millisecond,
		Window:         WindowConfig{Width: 390, Height: 844},
		CacheSize:      64,
		ThumbnailEdge:  256,
		FullscreenEdge: 2048,
		Concurrency:    4,
	}
}

// LoadConfig reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file. A non-empty process
// variable wins over the same key in any of envFiles; missing env files are
// skipped.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	env, err := readEnv(envFiles)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readEnv(files []string) (map[string]string, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	env := map[string]string{}
	if len(existing) > 0 {
		read, err := godotenv.Read(existing...)
		if err != nil {
			return nil, fmt.Errorf("read env files: %w", err)
		}
		env = read
	}
	for _, key := range []string{EnvLibrary, EnvPageSize, EnvFit, EnvDebug} {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	if v := env[EnvLibrary]; v != "" {
		c.Library = v
	}
	if v := env[EnvPageSize]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.PageSize = n
	}
	if v := env[EnvFit]; v != "" {
		fit, err := lightbox.ParseContentFit(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFit, err)
		}
		c.Fit = fit
	}
	if v := env[EnvDebug]; v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Debug = on
	}
	return nil
}

// Validate reports settings the gallery cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Library == "" {
		errs = append(errs, errors.New("library is empty"))
	}
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page_size %d must be positive", c.PageSize))
	}
	if c.Columns < 1 {
		errs = append(errs, fmt.Errorf("columns %d must be positive", c.Columns))
	}
	if c.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("cell_height %v must be positive", c.CellHeight))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Transition < 0 {
		errs = append(errs, fmt.Errorf("transition %v is negative", c.Transition))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Screen returns the window size as a lightbox.Size.
func (c Config) Screen() lightbox.Size {
	return lightbox.Size{Width: float64(c.Window.Width), Height: float64(c.Window.Height)}
}

// ViewOptions returns the fullscreen view options for this config.
func (c Config) ViewOptions() lightbox.ViewOptions {
	opts := lightbox.DefaultViewOptions()
	if c.Transition > 0 {
		opts.EnterDuration = c.Transition
		opts.ExitDuration = c.Transition
	}
	if c.FullscreenEdge > 0 {
		opts.MaxEdge = c.FullscreenEdge
	}
	return opts
}
