package dedup

import (
	"fmt"
	"image"
	"math"
	"math/bits"
	"os"
	"sort"

	"github.com/corona10/goimagehash"
	"golang.org/x/image/draw"
)

// Algorithm identifies a perceptual hashing algorithm. Unknown algorithms are
// rejected when the Fingerprinter is constructed, never at hashing time.
type Algorithm int

const (
	DifferenceHash Algorithm = iota
	PerceptualHash
	AverageHash
	WaveletHash
	ColorHash
)

var algorithmNames = map[Algorithm]string{
	DifferenceHash: "dhash",
	PerceptualHash: "phash",
	AverageHash:    "ahash",
	WaveletHash:    "whash",
	ColorHash:      "colorhash",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm maps a configuration name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	for a, n := range algorithmNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unsupported algorithm %q (supported: dhash, phash, ahash, whash, colorhash)", name)
}

// Fingerprinter computes fixed-width hex fingerprints for decoded images.
type Fingerprinter struct {
	algorithm Algorithm
}

// NewFingerprinter creates a Fingerprinter for the given algorithm.
// An unknown algorithm is a configuration error.
func NewFingerprinter(algorithm Algorithm) (*Fingerprinter, error) {
	if _, ok := algorithmNames[algorithm]; !ok {
		return nil, fmt.Errorf("unsupported algorithm %v", algorithm)
	}
	return &Fingerprinter{algorithm: algorithm}, nil
}

// Algorithm returns the configured algorithm.
func (f *Fingerprinter) Algorithm() Algorithm {
	return f.algorithm
}

// Fingerprint computes the 64-bit fingerprint of a decoded image and returns
// it as a 16-character hex string.
func (f *Fingerprinter) Fingerprint(img image.Image) (string, error) {
	var (
		hash uint64
		err  error
	)

	switch f.algorithm {
	case DifferenceHash:
		var h *goimagehash.ImageHash
		h, err = goimagehash.DifferenceHash(img)
		if err == nil {
			hash = h.GetHash()
		}
	case PerceptualHash:
		var h *goimagehash.ImageHash
		h, err = goimagehash.PerceptionHash(img)
		if err == nil {
			hash = h.GetHash()
		}
	case AverageHash:
		var h *goimagehash.ImageHash
		h, err = goimagehash.AverageHash(img)
		if err == nil {
			hash = h.GetHash()
		}
	case WaveletHash:
		hash = waveletHash(img)
	case ColorHash:
		hash = colorHash(img)
	}
	if err != nil {
		return "", fmt.Errorf("failed to compute %s: %w", f.algorithm, err)
	}

	return fmt.Sprintf("%016x", hash), nil
}

// FingerprintFile decodes the image at path and fingerprints it.
func (f *Fingerprinter) FingerprintFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	return f.Fingerprint(img)
}

// waveletHash computes a 64-bit hash from the 8x8 approximation band of a
// Haar wavelet decomposition: scale to 64x64 grayscale, average pairwise down
// to 8x8, then set one bit per cell above the median.
func waveletHash(img image.Image) uint64 {
	const size = 64

	gray := grayPlane(scaleTo(img, size, size))

	// Each pass halves the approximation band: rows first, then columns.
	for n := size; n > 8; n /= 2 {
		half := n / 2
		for y := 0; y < n; y++ {
			for x := 0; x < half; x++ {
				gray[y][x] = (gray[y][2*x] + gray[y][2*x+1]) / 2
			}
		}
		for x := 0; x < half; x++ {
			for y := 0; y < half; y++ {
				gray[y][x] = (gray[2*y][x] + gray[2*y+1][x]) / 2
			}
		}
	}

	flat := make([]float64, 0, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			flat = append(flat, gray[y][x])
		}
	}
	median := medianOf(flat)

	var hash uint64
	for i, v := range flat {
		if v > median {
			hash |= 1 << (63 - i)
		}
	}
	return hash
}

// colorHash computes a 64-bit hash over the chroma plane: scale to 8x8 and
// set one bit per cell whose chroma (max channel minus min channel) exceeds
// the image mean. Grayscale images hash to zero.
func colorHash(img image.Image) uint64 {
	const size = 8

	dst := scaleTo(img, size, size)

	var chroma [size * size]float64
	var sum float64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := dst.PixOffset(x, y)
			r := float64(dst.Pix[i])
			g := float64(dst.Pix[i+1])
			b := float64(dst.Pix[i+2])
			c := math.Max(r, math.Max(g, b)) - math.Min(r, math.Min(g, b))
			chroma[y*size+x] = c
			sum += c
		}
	}
	mean := sum / (size * size)

	var hash uint64
	for i, c := range chroma {
		if c > mean {
			hash |= 1 << (63 - i)
		}
	}
	return hash
}

// scaleTo resizes an image to exactly width x height.
func scaleTo(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// grayPlane converts an NRGBA image into a luminance matrix indexed [y][x].
func grayPlane(img *image.NRGBA) [][]float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	plane := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			row[x] = 0.2989*float64(img.Pix[i]) + 0.5870*float64(img.Pix[i+1]) + 0.1140*float64(img.Pix[i+2])
		}
		plane[y] = row
	}
	return plane
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// DistanceInfinity is returned by HammingDistance for hashes that cannot be
// compared: empty, different lengths, or not valid hex.
const DistanceInfinity = math.MaxInt

// HammingDistance counts the differing bits between two hex-encoded hashes.
// Malformed input yields DistanceInfinity, never an error.
func HammingDistance(hash1, hash2 string) int {
	if hash1 == "" || hash2 == "" || len(hash1) != len(hash2) {
		return DistanceInfinity
	}

	distance := 0
	for i := 0; i < len(hash1); i++ {
		n1, ok1 := hexNibble(hash1[i])
		n2, ok2 := hexNibble(hash2[i])
		if !ok1 || !ok2 {
			return DistanceInfinity
		}
		distance += bits.OnesCount8(n1 ^ n2)
	}
	return distance
}

// Similar reports whether two hashes are within threshold bits of each other.
// The bound is inclusive.
func Similar(hash1, hash2 string, threshold int) bool {
	distance := HammingDistance(hash1, hash2)
	return distance != DistanceInfinity && distance <= threshold
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
