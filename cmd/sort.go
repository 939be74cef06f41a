package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"photosort/internal/config"
	"photosort/internal/sorter"
)

var (
	sortDryRun  bool
	sortCopy    bool
	sortVerbose bool
)

var sortCmd = &cobra.Command{
	Use:   "sort <source> <destination>",
	Short: "Sort photos into dated folders",
	Long: `Move photos from source into a destination directory structure derived
from their capture date (EXIF date when present, file modification time
otherwise). The layout is controlled by directory_structure.pattern in the
configuration; photos without a usable date go to the fallback pattern.

Example:
  photosort sort ./inbox ./library
  photosort sort ./inbox ./library --copy
  photosort sort ./inbox ./library --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runSort,
}

func init() {
	sortCmd.Flags().BoolVarP(&sortDryRun, "dry-run", "n", false, "Show what would be done without making changes")
	sortCmd.Flags().BoolVar(&sortCopy, "copy", false, "Copy files instead of moving them")
	sortCmd.Flags().BoolVarP(&sortVerbose, "verbose", "v", false, "Log every processed file")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	source, err := resolveFolder(args[0])
	if err != nil {
		return err
	}
	dest := args[1]

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if sortDryRun {
		cfg.Output.DryRun = true
	}

	fmt.Printf("Source: %s\n", source)
	fmt.Printf("Destination: %s\n", dest)
	fmt.Printf("Mode: %s  Dry run: %v\n", verb(sortCopy), cfg.Output.DryRun)
	fmt.Printf("Pattern: %s\n\n", cfg.DirectoryStructure.Pattern)

	s := sorter.New(cfg)
	if sortVerbose || cfg.Output.DryRun {
		s.LogFn = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}

	stats, err := s.Sort(source, dest, sortCopy)
	if err != nil {
		return fmt.Errorf("sort failed: %w", err)
	}

	fmt.Println("\n=== Sorting Complete ===")
	fmt.Printf("Files processed: %d\n", stats.Processed)
	if sortCopy {
		fmt.Printf("Files copied:    %d\n", stats.Copied)
	} else {
		fmt.Printf("Files moved:     %d\n", stats.Moved)
	}
	if stats.Skipped > 0 {
		fmt.Printf("Files skipped:   %d\n", stats.Skipped)
	}
	if stats.Errors > 0 {
		fmt.Printf("Errors:          %d\n", stats.Errors)
	}
	return nil
}

func verb(copyMode bool) string {
	if copyMode {
		return "copy"
	}
	return "move"
}
