// Package config provides YAML-based configuration for the extractor and patcher.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// AppConfig represents the root YAML configuration structure
type AppConfig struct {
	// Archive configuration
	Archive ArchiveConfig `yaml:"archive"`

	// Extraction configuration
	Extract ExtractConfig `yaml:"extract"`

	// Patch configuration
	Patch PatchConfig `yaml:"patch"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ArchiveConfig describes where the layout document lives inside a report archive.
type ArchiveConfig struct {
	LayoutEntry string `yaml:"layout_entry"`
}

// ExtractConfig contains extractor output settings
type ExtractConfig struct {
	OutputDirName string `yaml:"output_dir_name"`
	// OutputRoot, when set, replaces <archive-parent>/<output_dir_name>/<archive-stem>.
	OutputRoot   string `yaml:"output_root,omitempty"`
	Indent       string `yaml:"indent"`
	DefaultTitle string `yaml:"default_title"`
}

// PatchConfig contains patcher settings
type PatchConfig struct {
	ReportFile      string   `yaml:"report_file"`
	PreservedFields []string `yaml:"preserved_fields"`
	Indent          string   `yaml:"indent"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // "console" or "json"
}

// DefaultPreservedFields are always taken from the original visual during a patch.
var DefaultPreservedFields = []string{"x", "y", "z", "width", "height", "filters", "dataRoles"}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Archive: ArchiveConfig{
			LayoutEntry: "Report/Layout",
		},
		Extract: ExtractConfig{
			OutputDirName: "extracted_visual_templates",
			Indent:        "    ",
			DefaultTitle:  "Untitled Visual",
		},
		Patch: PatchConfig{
			ReportFile:      "report.json",
			PreservedFields: append([]string(nil), DefaultPreservedFields...),
			Indent:          "    ",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file. An empty path or a missing
// file yields the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Power BI visual template tools configuration\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later in a run.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Archive.LayoutEntry) == "" {
		return fmt.Errorf("archive.layout_entry must not be empty")
	}
	if strings.TrimSpace(c.Patch.ReportFile) == "" {
		return fmt.Errorf("patch.report_file must not be empty")
	}
	if strings.TrimSpace(c.Extract.OutputDirName) == "" && c.Extract.OutputRoot == "" {
		return fmt.Errorf("extract.output_dir_name must not be empty")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Encoding {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log.encoding %q", c.Log.Encoding)
	}
	return nil
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Extract.OutputRoot != "" && !filepath.IsAbs(c.Extract.OutputRoot) {
		c.Extract.OutputRoot = filepath.Join(configDir, c.Extract.OutputRoot)
	}
}

// LogLevel parses the configured log level.
func (c *AppConfig) LogLevel() (zapcore.Level, error) {
	return c.Log.ParseLevel()
}

// ParseLevel parses Level, defaulting to info when unset.
func (c LogConfig) ParseLevel() (zapcore.Level, error) {
	if c.Level == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log.level %q: %w", c.Level, err)
	}
	return level, nil
}

// GetOutputRoot returns the directory extracted templates for archivePath go to.
func (c *AppConfig) GetOutputRoot(archivePath string) string {
	if c.Extract.OutputRoot != "" {
		return c.Extract.OutputRoot
	}
	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	return filepath.Join(filepath.Dir(archivePath), c.Extract.OutputDirName, stem)
}

// GetReportPath returns the layout file inside a report folder.
func (c *AppConfig) GetReportPath(reportDir string) string {
	return filepath.Join(reportDir, c.Patch.ReportFile)
}
