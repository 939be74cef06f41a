package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Candidate wraps one on-disk image file. Expensive fields (fingerprint,
// content digest, dimensions, quality metrics) are computed once on first use
// and cached for the candidate's lifetime; files are assumed immutable during
// a scan. Each candidate guards its own cache, so candidates may be processed
// concurrently without shared locking.
type Candidate struct {
	Path     string
	ByteSize int64

	fpOnce      sync.Once
	fingerprint string

	digestOnce sync.Once
	digest     string

	dimsOnce      sync.Once
	width, height int

	metricsOnce sync.Once
	metrics     Metrics
}

// NewCandidate creates a candidate for the file at path.
func NewCandidate(path string, byteSize int64) *Candidate {
	return &Candidate{Path: path, ByteSize: byteSize}
}

// ComputeFingerprint fingerprints the candidate's file with the given
// Fingerprinter. A decode failure is non-fatal: the fingerprint stays absent
// and the candidate is excluded from similarity grouping.
func (c *Candidate) ComputeFingerprint(fp *Fingerprinter) {
	c.fpOnce.Do(func() {
		hash, err := fp.FingerprintFile(c.Path)
		if err != nil {
			return
		}
		c.fingerprint = hash
	})
}

// SetFingerprint installs a previously computed fingerprint (e.g. from the
// cache). It is a no-op if the fingerprint was already computed.
func (c *Candidate) SetFingerprint(hash string) {
	c.fpOnce.Do(func() {
		c.fingerprint = hash
	})
}

// Fingerprint returns the hex fingerprint, or "" if it is absent.
func (c *Candidate) Fingerprint() string {
	return c.fingerprint
}

// Digest returns the SHA-256 digest of the full file bytes, computed on first
// use. An I/O failure yields the empty string.
func (c *Candidate) Digest() string {
	c.digestOnce.Do(func() {
		file, err := os.Open(c.Path)
		if err != nil {
			return
		}
		defer file.Close()

		h := sha256.New()
		if _, err := io.Copy(h, file); err != nil {
			return
		}
		c.digest = hex.EncodeToString(h.Sum(nil))
	})
	return c.digest
}

// Dimensions returns the pixel width and height, or (0, 0) if the image
// cannot be decoded.
func (c *Candidate) Dimensions() (int, int) {
	c.dimsOnce.Do(func() {
		file, err := os.Open(c.Path)
		if err != nil {
			return
		}
		defer file.Close()

		cfg, _, err := image.DecodeConfig(file)
		if err != nil {
			return
		}
		c.width, c.height = cfg.Width, cfg.Height
	})
	return c.width, c.height
}

// Area returns the pixel area (width * height).
func (c *Candidate) Area() int {
	w, h := c.Dimensions()
	return w * h
}

// QualityMetrics returns the candidate's quality metrics, computed on first
// use. A decode failure yields all-zero metrics.
func (c *Candidate) QualityMetrics() Metrics {
	c.metricsOnce.Do(func() {
		file, err := os.Open(c.Path)
		if err != nil {
			return
		}
		defer file.Close()

		img, _, err := image.Decode(file)
		if err != nil {
			return
		}
		c.metrics = AnalyzeQuality(img)
	})
	return c.metrics
}

// QualityScore returns the composite 0-1 quality score, derived from the
// cached metrics on every call.
func (c *Candidate) QualityScore() float64 {
	return QualityScore(c.QualityMetrics())
}

// IsBetterQualityThan reports whether this candidate is a better copy than
// other for human-facing explanations: quality score first, then file size
// (less compression), then pixel area, then path as a deterministic
// tie-break. Note that group retention uses Group.Best, which ranks by size
// and area only; the two deliberately remain separate policies.
func (c *Candidate) IsBetterQualityThan(other *Candidate) bool {
	selfScore := c.QualityScore()
	otherScore := other.QualityScore()
	if math.Abs(selfScore-otherScore) > 0.1 {
		return selfScore > otherScore
	}

	if abs64(c.ByteSize-other.ByteSize) > 1024 {
		return c.ByteSize > other.ByteSize
	}

	selfArea := c.Area()
	otherArea := other.Area()
	if absInt(selfArea-otherArea) > 10000 {
		return selfArea > otherArea
	}

	return c.Path < other.Path
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
