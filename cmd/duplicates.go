package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"photosort/internal/cache"
	"photosort/internal/config"
	"photosort/internal/dedup"
	"photosort/internal/scan"
)

var (
	dupThreshold int
	dupAlgorithm string
	dupAction    string
	dupExact     bool
	dupWorkers   int
	dupCachePath string
	dupLimit     int
	dupJSON      bool
	dupVerbose   bool
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates <folder>",
	Short: "Find duplicate photos in a folder",
	Long: `Scan a folder recursively and find duplicate or near-duplicate photos.

Near-duplicate detection fingerprints every image with a perceptual hash and
groups images whose fingerprints are within the Hamming distance threshold.
With --exact, images are grouped by the SHA-256 digest of their file bytes
instead, which only matches byte-identical copies.

For each group the largest copy (by file size, then pixel area) is kept;
the report additionally explains quality differences between the copies.

Example:
  photosort duplicates ./photos
  photosort duplicates ./photos --threshold 5 --algorithm phash
  photosort duplicates ./photos --exact
  photosort duplicates ./photos --cache ~/.photosort/fingerprints.db`,
	Args: cobra.ExactArgs(1),
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().IntVarP(&dupThreshold, "threshold", "t", -1, "Hamming distance threshold (0-64 typical, lower = stricter)")
	duplicatesCmd.Flags().StringVarP(&dupAlgorithm, "algorithm", "a", "", "Fingerprint algorithm: dhash, phash, ahash, whash, colorhash")
	duplicatesCmd.Flags().StringVar(&dupAction, "action", "report", "Action for duplicates: report, move, delete")
	duplicatesCmd.Flags().BoolVar(&dupExact, "exact", false, "Group by exact file digest instead of similarity")
	duplicatesCmd.Flags().IntVarP(&dupWorkers, "workers", "w", 0, "Number of parallel fingerprint workers")
	duplicatesCmd.Flags().StringVar(&dupCachePath, "cache", "", "Path to a fingerprint cache database")
	duplicatesCmd.Flags().IntVarP(&dupLimit, "limit", "n", 10, "Limit number of groups to display (0 = all)")
	duplicatesCmd.Flags().BoolVar(&dupJSON, "json", false, "Output in JSON format")
	duplicatesCmd.Flags().BoolVarP(&dupVerbose, "verbose", "v", false, "Show per-image quality metrics")
	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	folder, err := resolveFolder(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if dupThreshold >= 0 {
		cfg.DuplicateDetection.Threshold = dupThreshold
	}
	if dupAlgorithm != "" {
		cfg.DuplicateDetection.Algorithm = dupAlgorithm
	}

	algorithm, err := dedup.ParseAlgorithm(cfg.DuplicateDetection.Algorithm)
	if err != nil {
		return err
	}
	detector, err := dedup.NewDetector(algorithm, cfg.DuplicateDetection.Threshold)
	if err != nil {
		return err
	}

	opts := []scan.Option{}
	if dupWorkers > 0 {
		opts = append(opts, scan.WithWorkers(dupWorkers))
	}

	var fpCache *cache.Cache
	if dupCachePath != "" {
		fpCache, err = cache.Open(dupCachePath)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer fpCache.Close()
		opts = append(opts, scan.WithCache(fpCache))
	}

	if !dupJSON {
		fmt.Printf("Scanning: %s\n", folder)
		fmt.Printf("Algorithm: %s  Threshold: %d\n\n", algorithm, detector.Threshold())
	}

	if cfg.Output.ShowProgress && !dupJSON {
		bar := progressbar.Default(-1, "fingerprinting")
		opts = append(opts, scan.WithProgress(func(done, total int, current string) {
			bar.ChangeMax(total)
			_ = bar.Set(done)
		}))
	}

	scanner := scan.NewScanner(cfg, detector.Fingerprinter(), opts...)
	candidates, err := scanner.Collect(folder)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if !dupJSON {
		fmt.Printf("\nFound %d photos to analyze.\n\n", len(candidates))
	}
	if len(candidates) == 0 {
		if !dupJSON {
			fmt.Println("No supported photo files found.")
		}
		return nil
	}

	var groups []*dedup.Group
	if dupExact {
		groups = detector.FindExactDuplicates(candidates)
	} else {
		groups = detector.FindDuplicates(candidates)
	}

	stats := dedup.ComputeStatistics(groups)

	if dupJSON {
		return printJSONReport(groups, stats)
	}

	if len(groups) == 0 {
		fmt.Println("No duplicates found.")
		return nil
	}

	printStatisticsTable(stats)

	// Largest groups first.
	sorted := make([]*dedup.Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size() > sorted[j].Size()
	})
	shown := sorted
	if dupLimit > 0 && dupLimit < len(shown) {
		shown = shown[:dupLimit]
	}

	fmt.Printf("Duplicate groups (showing %d of %d):\n\n", len(shown), len(sorted))
	for i, group := range shown {
		printGroup(i+1, group, dupVerbose)
	}

	return runAction(dupAction, folder, cfg)
}

// runAction handles the selected duplicate action. Only report is
// implemented; move and delete are acknowledged stubs.
func runAction(action, folder string, cfg *config.Config) error {
	switch action {
	case "report":
		fmt.Println("Duplicate scan complete. Use --action move or --action delete to handle duplicates.")
		return nil
	case "move":
		quarantine := filepath.Join(folder, cfg.DuplicateDetection.QuarantineFolder)
		fmt.Printf("Warning: move action not yet implemented (would move duplicates to %s)\n", quarantine)
		return nil
	case "delete":
		fmt.Println("Warning: delete action not yet implemented (would remove duplicate files permanently)")
		return nil
	default:
		return fmt.Errorf("unknown action %q (supported: report, move, delete)", action)
	}
}

func resolveFolder(arg string) (string, error) {
	folder, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(folder)
	if err != nil {
		return "", fmt.Errorf("folder not found: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", folder)
	}
	return folder, nil
}
