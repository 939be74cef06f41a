package dedup

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// analysisMaxSide caps the longer side of the image analyzed for quality.
// Larger images are downsampled first, purely for performance.
const analysisMaxSide = 512

// Metrics are the raw quality measurements for one image.
type Metrics struct {
	Sharpness     float64
	Brightness    float64
	Contrast      float64
	ColorRichness float64
}

// AnalyzeQuality computes quality metrics from a decoded image.
func AnalyzeQuality(img image.Image) Metrics {
	src := downsample(img)
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return Metrics{}
	}

	gray := grayPlane(src)

	return Metrics{
		Sharpness:     sharpness(gray, w, h),
		Brightness:    meanLuminance(gray, w, h),
		Contrast:      luminanceStdDev(gray, w, h),
		ColorRichness: colorRichness(src, w, h),
	}
}

// downsample scales the image so its longer side is at most analysisMaxSide,
// preserving aspect ratio. CatmullRom gives high-quality resampling.
func downsample(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= analysisMaxSide && h <= analysisMaxSide {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}

	ratio := float64(analysisMaxSide) / float64(max(w, h))
	dw := int(math.Max(1, math.Round(float64(w)*ratio)))
	dh := int(math.Max(1, math.Round(float64(h)*ratio)))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// sharpness is the mean absolute horizontal finite difference of luminance
// plus the mean absolute vertical finite difference.
func sharpness(gray [][]float64, w, h int) float64 {
	var sumX, sumY float64

	if w > 1 {
		for y := 0; y < h; y++ {
			for x := 0; x < w-1; x++ {
				sumX += math.Abs(gray[y][x+1] - gray[y][x])
			}
		}
		sumX /= float64(h * (w - 1))
	}
	if h > 1 {
		for y := 0; y < h-1; y++ {
			for x := 0; x < w; x++ {
				sumY += math.Abs(gray[y+1][x] - gray[y][x])
			}
		}
		sumY /= float64((h - 1) * w)
	}

	return sumX + sumY
}

func meanLuminance(gray [][]float64, w, h int) float64 {
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum += gray[y][x]
		}
	}
	return sum / float64(w*h)
}

// luminanceStdDev is the population standard deviation of the luminance plane.
func luminanceStdDev(gray [][]float64, w, h int) float64 {
	mean := meanLuminance(gray, w, h)

	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := gray[y][x] - mean
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(w*h))
}

// colorRichness averages, over the R/G/B channels, the Shannon entropy of a
// 64-bin histogram of that channel.
func colorRichness(img *image.NRGBA, w, h int) float64 {
	var hist [3][64]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				hist[c][int(img.Pix[i+c])/4]++
			}
		}
	}

	total := float64(w * h)
	var entropy float64
	for c := 0; c < 3; c++ {
		for _, count := range hist[c] {
			if count > 0 {
				p := float64(count) / total
				entropy -= p * math.Log2(p+1e-10)
			}
		}
	}
	return entropy / 3
}

// QualityScore combines metrics into a weighted composite in [0, 1].
// Sharpness dominates (blur detection), followed by contrast, balanced
// brightness, and color richness.
func QualityScore(m Metrics) float64 {
	sharpnessNorm := math.Min(m.Sharpness/50, 1)
	contrastNorm := math.Min(m.Contrast/100, 1)

	var brightnessNorm float64
	switch {
	case m.Brightness < 50:
		brightnessNorm = m.Brightness / 50
	case m.Brightness > 200:
		brightnessNorm = (255 - m.Brightness) / 55
	default:
		brightnessNorm = 1
	}

	colorNorm := math.Min(m.ColorRichness/8, 1)

	return 0.40*sharpnessNorm + 0.25*contrastNorm + 0.15*brightnessNorm + 0.20*colorNorm
}
