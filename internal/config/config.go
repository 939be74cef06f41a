// Package config loads and saves the photosort YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full photosort configuration. All components receive their
// settings explicitly from here; nothing reads ambient global state.
type Config struct {
	DirectoryStructure DirectoryStructure `yaml:"directory_structure"`
	DuplicateDetection DuplicateDetection `yaml:"duplicate_detection"`
	FileProcessing     FileProcessing     `yaml:"file_processing"`
	Output             Output             `yaml:"output"`
}

// DirectoryStructure controls how the sorter lays out destination paths.
type DirectoryStructure struct {
	// Pattern uses tokens {year}, {month}, {month_name}, {day}, {hour}.
	Pattern string `yaml:"pattern"`
	// FallbackPattern is used when no capture date can be determined.
	FallbackPattern string `yaml:"fallback_pattern"`
}

// DuplicateDetection configures the duplicate engine.
type DuplicateDetection struct {
	Algorithm        string `yaml:"algorithm"`
	Threshold        int    `yaml:"threshold"`
	QuarantineFolder string `yaml:"quarantine_folder"`
	Action           string `yaml:"action"`
}

// FileProcessing configures which files enter a scan and how many workers
// process them.
type FileProcessing struct {
	SupportedFormats []string `yaml:"supported_formats"`
	MinFileSize      int64    `yaml:"min_file_size"`
	MaxFileSize      int64    `yaml:"max_file_size"`
	MaxWorkers       int      `yaml:"max_workers"`
}

// Output configures reporting behavior.
type Output struct {
	Verbosity    int  `yaml:"verbosity"`
	ShowProgress bool `yaml:"show_progress"`
	DryRun       bool `yaml:"dry_run"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DirectoryStructure: DirectoryStructure{
			Pattern:         "{year}/{month}-{month_name}/{day}",
			FallbackPattern: "unsorted/{year}/{month}",
		},
		DuplicateDetection: DuplicateDetection{
			Algorithm:        "dhash",
			Threshold:        10,
			QuarantineFolder: "duplicates",
			Action:           "report",
		},
		FileProcessing: FileProcessing{
			SupportedFormats: []string{".jpg", ".jpeg", ".png", ".gif", ".tiff", ".tif", ".bmp", ".webp"},
			MinFileSize:      1024,
			MaxFileSize:      0,
			MaxWorkers:       4,
		},
		Output: Output{
			Verbosity:    1,
			ShowProgress: true,
			DryRun:       false,
		},
	}
}

// Load reads a configuration file, filling unset sections with defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// IsSupportedFormat reports whether the file's extension is in the allow-list.
func (c *Config) IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range c.FileProcessing.SupportedFormats {
		if ext == supported {
			return true
		}
	}
	return false
}
