// internal/config/config.go
//
// This package handles configuration and the .taskman directory structure.
// Every directory the program runs in gets a .taskman/ folder holding the
// config file, the persisted store, logs and generated reports.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TaskmanDir is the name of the directory we create in the working
// directory.
const TaskmanDir = ".taskman"

const defaultConfigYAML = `# taskman configuration
version: 1

storage:
  # Store snapshot, relative to the .taskman directory.
  file: data/store.yaml

reports:
  # Report output directory, relative to the .taskman directory.
  directory: reports
  # Formats written by "Generate reports": text, pdf.
  formats:
    - text
    - pdf
`

// StorageConfig locates the persisted store snapshot.
type StorageConfig struct {
	File string `yaml:"file"`
}

// ReportsConfig controls where and how report files are written.
type ReportsConfig struct {
	Directory string   `yaml:"directory"`
	Formats   []string `yaml:"formats,omitempty"`
}

// ProjectConfig models .taskman/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Reports ReportsConfig `yaml:"reports"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the program was started from.
	ProjectDir string

	// TaskmanProjectDir is ProjectDir/.taskman.
	TaskmanProjectDir string

	Project ProjectConfig
}

// InitTaskmanDir creates the .taskman directory structure in the given
// directory. Called once at startup.
//
// Structure created:
// .taskman/
// ├── data/     <- store snapshot
// ├── logs/     <- session log
// └── reports/  <- generated report files
func InitTaskmanDir(projectDir string) error {
	taskmanDir := filepath.Join(projectDir, TaskmanDir)

	dirs := []string{
		filepath.Join(taskmanDir, "data"),
		filepath.Join(taskmanDir, "logs"),
		filepath.Join(taskmanDir, "reports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureConfigFile(filepath.Join(taskmanDir, "config.yaml"))
}

// NewConfig creates a Config populated from .taskman/config.yaml, falling
// back to defaults when the file is absent.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		TaskmanProjectDir: filepath.Join(projectDir, TaskmanDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.TaskmanProjectDir, "config.yaml")
}

// StorePath returns the path of the persisted store snapshot.
func (c *Config) StorePath() string {
	return filepath.Join(c.TaskmanProjectDir, filepath.FromSlash(c.Project.Storage.File))
}

// ReportsDir returns the directory report files are written into.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.TaskmanProjectDir, filepath.FromSlash(c.Project.Reports.Directory))
}

// LogPath returns the session log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.TaskmanProjectDir, "logs", "taskman.log")
}

// ActivityLogPath returns the session activity journal location.
func (c *Config) ActivityLogPath() string {
	return filepath.Join(c.TaskmanProjectDir, "logs", "activity.log")
}

// ReportFormats returns the configured report output formats.
func (c *Config) ReportFormats() []string {
	return c.Project.Reports.Formats
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Storage: StorageConfig{File: "data/store.yaml"},
		Reports: ReportsConfig{
			Directory: "reports",
			Formats:   []string{"text", "pdf"},
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Storage.File) == "" {
		pc.Storage.File = "data/store.yaml"
	}
	if strings.TrimSpace(pc.Reports.Directory) == "" {
		pc.Reports.Directory = "reports"
	}
	if len(pc.Reports.Formats) == 0 {
		pc.Reports.Formats = []string{"text", "pdf"}
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Storage.File = strings.TrimSpace(pc.Storage.File)
	pc.Reports.Directory = strings.TrimSpace(pc.Reports.Directory)
	for i, format := range pc.Reports.Formats {
		pc.Reports.Formats[i] = strings.ToLower(strings.TrimSpace(format))
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	for _, format := range pc.Reports.Formats {
		switch format {
		case "text", "pdf":
		default:
			return fmt.Errorf("reports.formats: unknown format %q", format)
		}
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
