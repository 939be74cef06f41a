package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "photosort",
	Short: "Sort photo collections and find duplicate images",
	Long: `photosort organizes photo collections into configurable directory
structures and finds duplicate or near-duplicate images.

Duplicate detection uses perceptual hashing (dhash, phash, ahash, whash or
colorhash) so it catches copies that were resized or recompressed, and it
picks the best copy of each duplicate set to keep.

Example usage:
  photosort scan ./photos                  # Analyze a photo collection
  photosort duplicates ./photos            # Find near-duplicate photos
  photosort duplicates ./photos --exact    # Find byte-identical photos
  photosort sort ./inbox ./library         # Sort photos into dated folders`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
}
