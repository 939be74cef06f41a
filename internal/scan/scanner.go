// Package scan walks directory trees and turns image files into duplicate
// candidates.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"photosort/internal/cache"
	"photosort/internal/config"
	"photosort/internal/dedup"
	"photosort/internal/metadata"
)

// Scanner collects candidates from a directory tree and computes their
// fingerprints with a pool of workers. The candidate order is the lexical
// walk order and is independent of worker scheduling, so grouping stays
// deterministic.
type Scanner struct {
	cfg        *config.Config
	fp         *dedup.Fingerprinter
	cache      *cache.Cache
	workers    int
	progressFn func(done, total int, current string)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets the number of parallel fingerprint workers.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCache sets an optional fingerprint cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Scanner) {
		s.cache = c
	}
}

// WithProgress sets a progress callback invoked after each file.
func WithProgress(fn func(done, total int, current string)) Option {
	return func(s *Scanner) {
		s.progressFn = fn
	}
}

// NewScanner creates a Scanner. The fingerprinter comes from the detector so
// scanner and grouping always agree on the algorithm.
func NewScanner(cfg *config.Config, fp *dedup.Fingerprinter, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:     cfg,
		fp:      fp,
		workers: cfg.FileProcessing.MaxWorkers,
	}
	if s.workers <= 0 {
		s.workers = 4
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type entry struct {
	candidate *dedup.Candidate
	modTime   time.Time
}

// Collect walks folder, builds a candidate per supported image file, and
// fingerprints them in parallel. Candidates whose files cannot be decoded
// keep an absent fingerprint; they still participate in exact-digest
// grouping. The returned slice preserves walk order.
func (s *Scanner) Collect(folder string) ([]*dedup.Candidate, error) {
	entries, err := s.walk(folder)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	var (
		wg   sync.WaitGroup
		done int64
	)
	total := len(entries)
	work := make(chan entry, total)
	for _, e := range entries {
		work <- e
	}
	close(work)

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range work {
				s.fingerprint(e)
				n := atomic.AddInt64(&done, 1)
				if s.progressFn != nil {
					s.progressFn(int(n), total, e.candidate.Path)
				}
			}
		}()
	}
	wg.Wait()

	candidates := make([]*dedup.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = e.candidate
	}
	return candidates, nil
}

// fingerprint resolves one candidate's fingerprint, consulting the cache
// first when one is configured.
func (s *Scanner) fingerprint(e entry) {
	c := e.candidate
	algorithm := s.fp.Algorithm().String()
	modTime := e.modTime.Unix()

	if s.cache != nil {
		if hash, ok := s.cache.Get(c.Path, algorithm, c.ByteSize, modTime); ok {
			c.SetFingerprint(hash)
			return
		}
	}

	c.ComputeFingerprint(s.fp)

	if s.cache != nil && c.Fingerprint() != "" {
		// Cache write failures are not worth failing a scan over.
		_ = s.cache.Put(c.Path, algorithm, c.ByteSize, modTime, c.Fingerprint())
	}
}

// walk returns one entry per supported file under folder, in lexical order,
// applying the configured extension allow-list and size bounds.
func (s *Scanner) walk(folder string) ([]entry, error) {
	var entries []entry
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if !s.cfg.IsSupportedFormat(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		size := info.Size()
		if size < s.cfg.FileProcessing.MinFileSize {
			return nil
		}
		if maxSize := s.cfg.FileProcessing.MaxFileSize; maxSize > 0 && size > maxSize {
			return nil
		}

		entries = append(entries, entry{
			candidate: dedup.NewCandidate(path, size),
			modTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk folder: %w", err)
	}
	return entries, nil
}

// Analysis summarizes a photo collection.
type Analysis struct {
	TotalFiles       int
	SupportedFiles   int
	UnsupportedFiles int
	TotalSize        int64
	SupportedSize    int64

	FilesByExtension map[string]int
	SizeByExtension  map[string]int64
	FilesByYear      map[int]int

	WithExif       int
	WithGPS        int
	WithCameraInfo int

	OldestPhoto time.Time
	NewestPhoto time.Time
}

// Analyze walks folder and summarizes the collection: counts and sizes per
// extension, capture years, and metadata coverage.
func (s *Scanner) Analyze(folder string) (*Analysis, error) {
	a := &Analysis{
		FilesByExtension: make(map[string]int),
		SizeByExtension:  make(map[string]int64),
		FilesByYear:      make(map[int]int),
	}
	extractor := metadata.NewExtractor()

	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		a.TotalFiles++
		a.TotalSize += info.Size()

		if !s.cfg.IsSupportedFormat(path) {
			a.UnsupportedFiles++
			return nil
		}

		a.SupportedFiles++
		a.SupportedSize += info.Size()

		ext := strings.ToLower(filepath.Ext(path))
		a.FilesByExtension[ext]++
		a.SizeByExtension[ext] += info.Size()

		meta := extractor.Extract(path)
		if meta.HasExif {
			a.WithExif++
		}
		if meta.HasGPS {
			a.WithGPS++
		}
		if meta.HasCameraInfo() {
			a.WithCameraInfo++
		}

		if !meta.DateTaken.IsZero() {
			a.FilesByYear[meta.DateTaken.Year()]++
			if a.OldestPhoto.IsZero() || meta.DateTaken.Before(a.OldestPhoto) {
				a.OldestPhoto = meta.DateTaken
			}
			if a.NewestPhoto.IsZero() || meta.DateTaken.After(a.NewestPhoto) {
				a.NewestPhoto = meta.DateTaken
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk folder: %w", err)
	}
	return a, nil
}
