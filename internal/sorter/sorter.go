// Package sorter files photos into a configurable directory layout derived
// from their capture date.
package sorter

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"photosort/internal/config"
	"photosort/internal/fileutil"
	"photosort/internal/metadata"
)

// PathPattern expands {year}, {month}, {month_name}, {day} and {hour} tokens
// into a destination directory. When no capture date is known, the fallback
// pattern is used instead.
type PathPattern struct {
	pattern  string
	fallback string
}

// NewPathPattern creates a PathPattern.
func NewPathPattern(pattern, fallback string) *PathPattern {
	if pattern == "" {
		pattern = "{year}/{month}"
	}
	if fallback == "" {
		fallback = "unsorted/{year}"
	}
	return &PathPattern{pattern: pattern, fallback: fallback}
}

// Generate expands the pattern for the photo's metadata under base.
func (p *PathPattern) Generate(meta *metadata.PhotoMetadata, base string) string {
	pattern := p.pattern
	if meta.DateTaken.IsZero() {
		pattern = p.fallback
	}

	taken := meta.DateTaken
	replacer := strings.NewReplacer(
		"{year}", fmt.Sprintf("%04d", taken.Year()),
		"{month}", fmt.Sprintf("%02d", int(taken.Month())),
		"{month_name}", taken.Month().String(),
		"{day}", fmt.Sprintf("%02d", taken.Day()),
		"{hour}", fmt.Sprintf("%02d", taken.Hour()),
	)

	expanded := replacer.Replace(pattern)

	parts := strings.Split(expanded, "/")
	for i, part := range parts {
		parts[i] = cleanDirectoryName(part)
	}
	return filepath.Join(append([]string{base}, parts...)...)
}

// cleanDirectoryName strips characters that are unsafe in directory names.
func cleanDirectoryName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.TrimSpace(b.String())
}

// Stats summarizes one sorting run.
type Stats struct {
	Processed int
	Moved     int
	Copied    int
	Skipped   int
	Errors    int
}

// Sorter moves or copies photos from a source tree into the configured
// destination layout.
type Sorter struct {
	cfg       *config.Config
	pattern   *PathPattern
	extractor *metadata.Extractor
	dryRun    bool

	// LogFn, when set, receives one line per processed file.
	LogFn func(format string, args ...any)
}

// New creates a Sorter from configuration.
func New(cfg *config.Config) *Sorter {
	return &Sorter{
		cfg:       cfg,
		pattern:   NewPathPattern(cfg.DirectoryStructure.Pattern, cfg.DirectoryStructure.FallbackPattern),
		extractor: metadata.NewExtractor(),
		dryRun:    cfg.Output.DryRun,
	}
}

func (s *Sorter) logf(format string, args ...any) {
	if s.LogFn != nil {
		s.LogFn(format, args...)
	}
}

// Sort processes every supported photo under sourcePath into destPath.
// Per-file failures are counted, never fatal.
func (s *Sorter) Sort(sourcePath, destPath string, copyMode bool) (Stats, error) {
	var stats Stats

	files, err := s.findPhotos(sourcePath)
	if err != nil {
		return stats, err
	}

	for _, file := range files {
		stats.Processed++

		meta := s.extractor.Extract(file)
		destDir := s.pattern.Generate(meta, destPath)
		name := fileutil.UniqueFilename(destDir, filepath.Base(file))
		dest := filepath.Join(destDir, name)

		if s.dryRun {
			s.logf("would %s %s -> %s", verb(copyMode), file, dest)
			stats.Skipped++
			continue
		}

		if copyMode {
			err = fileutil.SafeCopy(file, dest)
		} else {
			err = fileutil.SafeMove(file, dest)
		}
		if err != nil {
			s.logf("failed to %s %s: %v", verb(copyMode), file, err)
			stats.Errors++
			continue
		}

		s.logf("%s %s -> %s", verb(copyMode), file, dest)
		if copyMode {
			stats.Copied++
		} else {
			stats.Moved++
		}
	}

	return stats, nil
}

func verb(copyMode bool) string {
	if copyMode {
		return "copy"
	}
	return "move"
}

// findPhotos returns the supported photo files under root in lexical order.
func (s *Sorter) findPhotos(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if s.cfg.IsSupportedFormat(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk folder: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
