// Package quality scores document image sharpness using the variance of the
// Laplacian. Thresholds are on the raw 8-bit variance scale and are not
// normalized for image resolution, so a downscaled copy of the same page
// reads sharper than the original.
package quality

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"claimassist/internal/domain"
)

const (
	// BlurThreshold is the variance below which an image is blurry and poor.
	BlurThreshold = 70.0
	// GoodThreshold is the variance at or above which an image is good.
	GoodThreshold = 200.0
	// scoreScale maps variance onto the 0-100 score.
	scoreScale = 5.0
	// MaxPixels caps decoded image size. Larger images are unreadable.
	MaxPixels = 50_000_000
)

// ErrImageTooLarge is returned by Decode for images over MaxPixels.
var ErrImageTooLarge = errors.New("image exceeds pixel limit")

// Analyzer computes QualityAssessments for submitted documents.
type Analyzer struct{}

// NewAnalyzer creates a quality Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Assess decodes data and scores it. Undecodable input (including PDFs,
// which are not rasterized here) yields the unreadable assessment.
func (a *Analyzer) Assess(data []byte) domain.QualityAssessment {
	img, err := Decode(data)
	if err != nil {
		return Unreadable()
	}
	return a.AnalyzeImage(img)
}

// AnalyzeImage scores an already decoded image.
func (a *Analyzer) AnalyzeImage(img image.Image) domain.QualityAssessment {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Unreadable()
	}
	return Classify(LaplacianVariance(img))
}

// Decode decodes any registered image format. The header is checked first so
// oversized images are rejected before their pixels are allocated.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Unreadable is the terminal assessment for images that cannot be decoded.
func Unreadable() domain.QualityAssessment {
	return domain.QualityAssessment{
		Variance: 0,
		IsBlurry: true,
		Quality:  domain.QualityUnreadable,
		Score:    0,
	}
}

// Classify buckets a Laplacian variance into a QualityAssessment.
func Classify(variance float64) domain.QualityAssessment {
	if variance < 0 || math.IsNaN(variance) {
		variance = 0
	}

	tier := domain.QualityGood
	switch {
	case variance < BlurThreshold:
		tier = domain.QualityPoor
	case variance < GoodThreshold:
		tier = domain.QualityAcceptable
	}

	score := int(variance / scoreScale)
	if score > 100 {
		score = 100
	}

	return domain.QualityAssessment{
		Variance: math.Round(variance*100) / 100,
		IsBlurry: variance < BlurThreshold,
		Quality:  tier,
		Score:    score,
	}
}

// LaplacianVariance returns the population variance of the 3x3 Laplacian
// response over the image's luminance. Borders are reflected without
// repeating the edge pixel.
func LaplacianVariance(img image.Image) float64 {
	gray := toGray(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	at := func(x, y int) float64 {
		return float64(gray.Pix[reflect101(y, h)*gray.Stride+reflect101(x, w)])
	}

	var n, mean, m2 float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := at(x, y-1) + at(x-1, y) + at(x+1, y) + at(x, y+1) - 4*at(x, y)
			n++
			delta := v - mean
			mean += delta / n
			m2 += delta * (v - mean)
		}
	}
	return m2 / n
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}
	return gray
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
