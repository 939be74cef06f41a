package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"photosort/internal/config"
)

var (
	configShow          bool
	configCreateDefault bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage photosort configuration",
	Long: `Show the active configuration or write a default configuration file.

Example:
  photosort config --show
  photosort config --create-default`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show current configuration")
	configCmd.Flags().BoolVar(&configCreateDefault, "create-default", false, "Create a default configuration file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configCreateDefault {
		path := "photosort_config.yaml"
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Printf("Created default configuration: %s\n", path)
		return nil
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if !configShow {
		fmt.Println("Use --show to display the current configuration")
		fmt.Println("Use --create-default to create a default configuration file")
		return nil
	}

	fmt.Println("Current configuration:")
	fmt.Printf("  Directory pattern:   %s\n", cfg.DirectoryStructure.Pattern)
	fmt.Printf("  Fallback pattern:    %s\n", cfg.DirectoryStructure.FallbackPattern)
	fmt.Printf("  Duplicate algorithm: %s\n", cfg.DuplicateDetection.Algorithm)
	fmt.Printf("  Duplicate threshold: %d\n", cfg.DuplicateDetection.Threshold)
	fmt.Printf("  Supported formats:   %s\n", strings.Join(cfg.FileProcessing.SupportedFormats, ", "))
	fmt.Printf("  Max workers:         %d\n", cfg.FileProcessing.MaxWorkers)
	fmt.Printf("  Verbosity:           %d\n", cfg.Output.Verbosity)
	return nil
}
