package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"photosort/internal/config"
	"photosort/internal/dedup"
	"photosort/internal/scan"
)

var (
	scanDuplicates bool
	scanVerbose    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "Analyze a photo collection",
	Long: `Scan a folder recursively and summarize the photo collection:
file counts and sizes per format, capture years, and EXIF/GPS coverage.

With --duplicates, a duplicate detection pass runs as well and its
statistics are included in the report.

Example:
  photosort scan ./photos
  photosort scan ./photos --duplicates`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanDuplicates, "duplicates", "d", false, "Also analyze for duplicates")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Show per-extension breakdown")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	folder, err := resolveFolder(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	algorithm, err := dedup.ParseAlgorithm(cfg.DuplicateDetection.Algorithm)
	if err != nil {
		return err
	}
	detector, err := dedup.NewDetector(algorithm, cfg.DuplicateDetection.Threshold)
	if err != nil {
		return err
	}

	fmt.Printf("Scanning: %s\n\n", folder)

	scanner := scan.NewScanner(cfg, detector.Fingerprinter())
	analysis, err := scanner.Analyze(folder)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printAnalysis(analysis)

	if scanVerbose {
		printExtensionTable(analysis)
	}

	if scanDuplicates {
		fmt.Println("Finding duplicates...")
		candidates, err := scanner.Collect(folder)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		groups := detector.FindDuplicates(candidates)
		printStatisticsTable(dedup.ComputeStatistics(groups))
	}

	return nil
}

func printAnalysis(a *scan.Analysis) {
	fmt.Println("=== Collection Summary ===")
	fmt.Printf("Total files:       %d (%s)\n", a.TotalFiles, formatSize(a.TotalSize))
	fmt.Printf("Photos:            %d (%s)\n", a.SupportedFiles, formatSize(a.SupportedSize))
	fmt.Printf("Other files:       %d\n", a.UnsupportedFiles)
	fmt.Printf("With EXIF:         %d\n", a.WithExif)
	fmt.Printf("With GPS:          %d\n", a.WithGPS)
	fmt.Printf("With camera info:  %d\n", a.WithCameraInfo)

	if !a.OldestPhoto.IsZero() {
		fmt.Printf("Date range:        %s - %s\n",
			a.OldestPhoto.Format("2006-01-02"), a.NewestPhoto.Format("2006-01-02"))
	}

	if len(a.FilesByYear) > 0 {
		years := make([]int, 0, len(a.FilesByYear))
		for year := range a.FilesByYear {
			years = append(years, year)
		}
		sort.Ints(years)

		fmt.Println("\nPhotos by year:")
		for _, year := range years {
			fmt.Printf("  %d: %d\n", year, a.FilesByYear[year])
		}
	}
	fmt.Println()
}

func printExtensionTable(a *scan.Analysis) {
	exts := make([]string, 0, len(a.FilesByExtension))
	for ext := range a.FilesByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Extension", "Files", "Size"})
	for _, ext := range exts {
		t.AppendRow(table.Row{ext, a.FilesByExtension[ext], formatSize(a.SizeByExtension[ext])})
	}
	t.Render()
	fmt.Println()
}
