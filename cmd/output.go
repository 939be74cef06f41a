package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"photosort/internal/dedup"
)

// printStatisticsTable renders the summary statistics for a detection pass.
func printStatisticsTable(stats dedup.Statistics) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Duplicate groups", stats.DuplicateGroups},
		{"Files in groups", stats.TotalFilesInGroups},
		{"Duplicate files", stats.DuplicateFiles},
		{"Original files", stats.OriginalFiles},
		{"Total size", formatSize(stats.TotalSizeBytes)},
		{"Reclaimable", formatSize(stats.WastedSpaceBytes)},
		{"Space savings", fmt.Sprintf("%.1f%%", stats.SpaceSavingsPercent)},
	})
	t.Render()
	fmt.Println()
}

// printGroup renders one duplicate group. The kept copy is the group's best
// candidate (largest by size, then area); the quality score shown next to
// each file explains how the copies compare perceptually.
func printGroup(number int, group *dedup.Group, verbose bool) {
	fmt.Printf("Group #%d (%d files, %s)\n", number, group.Size(), formatSize(group.TotalSize()))
	fmt.Println(strings.Repeat("-", 60))

	best := group.Best()
	for _, c := range group.Candidates {
		marker := "✗"
		if c == best {
			marker = "✓"
		}

		w, h := c.Dimensions()
		fmt.Printf("  %s %-40s  %dx%d  %8s  Quality: %.2f\n",
			marker, shortenPath(c.Path, 40), w, h, formatSize(c.ByteSize), c.QualityScore())

		if verbose {
			m := c.QualityMetrics()
			fmt.Printf("      Sharpness: %.1f  Contrast: %.1f  Brightness: %.1f  Color: %.1f\n",
				m.Sharpness, m.Contrast, m.Brightness, m.ColorRichness)
		}
	}
	fmt.Printf("  Reclaimable: %s\n\n", formatSize(group.WastedSpace()))
}

type candidateView struct {
	Path         string  `json:"path"`
	ByteSize     int64   `json:"byte_size"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Fingerprint  string  `json:"fingerprint,omitempty"`
	QualityScore float64 `json:"quality_score"`
}

type groupView struct {
	Files       []candidateView `json:"files"`
	Best        string          `json:"best"`
	ToRemove    []string        `json:"to_remove"`
	TotalSize   int64           `json:"total_size_bytes"`
	WastedSpace int64           `json:"wasted_space_bytes"`
}

type reportView struct {
	Statistics dedup.Statistics `json:"statistics"`
	Groups     []groupView      `json:"groups"`
}

// printJSONReport writes the full detection report as JSON.
func printJSONReport(groups []*dedup.Group, stats dedup.Statistics) error {
	report := reportView{Statistics: stats, Groups: make([]groupView, 0, len(groups))}

	for _, group := range groups {
		view := groupView{
			Best:        group.Best().Path,
			TotalSize:   group.TotalSize(),
			WastedSpace: group.WastedSpace(),
		}
		for _, c := range group.Candidates {
			w, h := c.Dimensions()
			view.Files = append(view.Files, candidateView{
				Path:         c.Path,
				ByteSize:     c.ByteSize,
				Width:        w,
				Height:       h,
				Fingerprint:  c.Fingerprint(),
				QualityScore: c.QualityScore(),
			})
		}
		for _, c := range group.ToRemove() {
			view.ToRemove = append(view.ToRemove, c.Path)
		}
		report.Groups = append(report.Groups, view)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func shortenPath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	dir, file := filepath.Split(path)
	if len(file) >= maxLen-3 {
		return "..." + file[len(file)-(maxLen-3):]
	}

	remaining := maxLen - len(file) - 4 // 4 for ".../"
	if remaining > 0 && len(dir) > remaining {
		dir = dir[len(dir)-remaining:]
	}
	return "..." + dir + file
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
