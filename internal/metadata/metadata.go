// Package metadata extracts capture information from photo files.
package metadata

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// PhotoMetadata holds the metadata extracted from one photo.
type PhotoMetadata struct {
	Path string

	// DateTaken is the capture time: EXIF DateTimeOriginal/DateTime when
	// present, otherwise the file modification time. Zero only when even
	// the file cannot be stat'd.
	DateTaken time.Time

	// FromExif is true when DateTaken came from EXIF rather than mtime.
	FromExif bool

	HasExif bool

	HasGPS    bool
	Latitude  float64
	Longitude float64

	CameraMake  string
	CameraModel string
}

// Extractor reads photo metadata. Extraction failures are non-fatal; the
// result degrades to mtime-only information.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads metadata for the file at path.
func (e *Extractor) Extract(path string) *PhotoMetadata {
	meta := &PhotoMetadata{Path: path}

	if stat, err := os.Stat(path); err == nil {
		meta.DateTaken = stat.ModTime()
	}

	file, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return meta
	}
	meta.HasExif = true

	if taken, err := x.DateTime(); err == nil {
		meta.DateTaken = taken
		meta.FromExif = true
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta.HasGPS = true
		meta.Latitude = lat
		meta.Longitude = long
	}

	if tag, err := x.Get(exif.Make); err == nil {
		if make, err := tag.StringVal(); err == nil {
			meta.CameraMake = make
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			meta.CameraModel = model
		}
	}

	return meta
}

// HasCameraInfo reports whether make or model was present.
func (m *PhotoMetadata) HasCameraInfo() bool {
	return m.CameraMake != "" || m.CameraModel != ""
}
