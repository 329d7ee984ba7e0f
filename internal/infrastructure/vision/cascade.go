package vision

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// qualityThreshold filters out low-certainty cascade detections.
const qualityThreshold = 5.0

// CascadeDetector wraps a pigo pixel-intensity cascade for face-region
// detection on grayscale frames. The classifier is loaded once at startup and
// is read-only afterwards, so a single instance is shared by all requests.
type CascadeDetector struct {
	classifier *pigo.Pigo
}

// NewCascadeDetector loads and unpacks the binary cascade file (facefinder).
func NewCascadeDetector(cascadePath string) (*CascadeDetector, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade file: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &CascadeDetector{classifier: classifier}, nil
}

// Detect returns up to maxFaces face regions in detector order. No sorting is
// applied beyond the cascade's own clustering.
func (d *CascadeDetector) Detect(img *image.Gray, maxFaces int) []image.Rectangle {
	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()
	if rows == 0 || cols == 0 {
		return nil
	}

	params := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     min(rows, cols),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: contiguousPixels(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	var regions []image.Rectangle
	for _, det := range dets {
		if det.Q < qualityThreshold {
			continue
		}
		half := det.Scale / 2
		regions = append(regions, image.Rect(
			det.Col-half, det.Row-half,
			det.Col+half, det.Row+half,
		))
		if len(regions) >= maxFaces {
			break
		}
	}
	return regions
}

// contiguousPixels returns the frame's pixels as a row-major slice without
// stride padding, which is what the cascade expects.
func contiguousPixels(img *image.Gray) []uint8 {
	b := img.Bounds()
	if img.Stride == b.Dx() && b.Min == (image.Point{}) {
		return img.Pix
	}
	out := make([]uint8, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride+(b.Min.X-img.Rect.Min.X):]
		copy(out[y*b.Dx():(y+1)*b.Dx()], row[:b.Dx()])
	}
	return out
}
