// Package config loads runtime configuration from a YAML file, .env files
// and environment variables. Environment variables take precedence over the
// file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure of the config file.
type Config struct {
	// Workdir is where relative tool paths resolve.
	Workdir  string `yaml:"workdir"`
	LogLevel string `yaml:"log_level"`

	Sandbox    SandboxConfig    `yaml:"sandbox"`
	REPL       REPLConfig       `yaml:"repl"`
	Data       DataConfig       `yaml:"data"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Threads    ThreadsConfig    `yaml:"threads"`
}

// SandboxConfig configures execute_code.
type SandboxConfig struct {
	OutputDir      string        `yaml:"output_dir"`
	MonitorDirs    []string      `yaml:"monitor_dirs"`
	InferFromCode  *bool         `yaml:"infer_from_code"`
	DetectModified bool          `yaml:"detect_modified"`
	Timeout        time.Duration `yaml:"timeout"`
}

// REPLConfig configures python_repl.
type REPLConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// DataConfig locates the datasets described by get_data_dictionary.
type DataConfig struct {
	Dir      string          `yaml:"dir"`
	Catalog  string          `yaml:"catalog"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

// DatasetConfig names one dataset file.
type DatasetConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// CheckpointConfig configures thread persistence. An empty path disables it.
type CheckpointConfig struct {
	Path string `yaml:"path"`
}

// ThreadsConfig configures the in-memory thread store.
type ThreadsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Load reads .env files, then path (if non-empty), then environment
// overrides, and fills defaults. Relative paths in the file resolve against
// the file's directory.
func Load(path string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		configDir, _ := filepath.Abs(filepath.Dir(path))
		cfg.resolvePaths(configDir)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// LoadEnvFiles loads .env.local and .env from the working directory when
// present. Variables already set are not overridden.
func LoadEnvFiles() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) resolvePaths(base string) {
	abs := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	abs(&c.Workdir)
	abs(&c.Sandbox.OutputDir)
	abs(&c.Data.Dir)
	abs(&c.Data.Catalog)
	abs(&c.Checkpoint.Path)
	for i := range c.Sandbox.MonitorDirs {
		abs(&c.Sandbox.MonitorDirs[i])
	}
	for i := range c.Data.Datasets {
		abs(&c.Data.Datasets[i].Path)
	}
}

func (c *Config) applyEnv() {
	c.Workdir = envOr("WICK_WORKDIR", c.Workdir)
	c.Sandbox.OutputDir = envOr("WICK_OUTPUT_DIR", c.Sandbox.OutputDir)
	c.Data.Dir = envOr("WICK_DATA_DIR", c.Data.Dir)
	c.Checkpoint.Path = envOr("WICK_CHECKPOINT_DB", c.Checkpoint.Path)
	c.LogLevel = envOr("WICK_LOG_LEVEL", c.LogLevel)
	c.Sandbox.Timeout = envDurationOr("WICK_SANDBOX_TIMEOUT", c.Sandbox.Timeout)
}

func (c *Config) applyDefaults() {
	if c.Workdir == "" {
		c.Workdir, _ = os.Getwd()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Sandbox.OutputDir == "" {
		c.Sandbox.OutputDir = filepath.Join(c.Workdir, "outputs")
	}
	if c.Sandbox.InferFromCode == nil {
		on := true
		c.Sandbox.InferFromCode = &on
	}
	if c.Data.Dir == "" {
		c.Data.Dir = filepath.Join(c.Workdir, "data")
	}
	if c.Threads.TTL <= 0 {
		c.Threads.TTL = 30 * time.Minute
	}
}

// envOr returns the environment variable or a default value.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDurationOr returns the environment variable as a duration (or a number
// of seconds) or a default value.
func envDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
