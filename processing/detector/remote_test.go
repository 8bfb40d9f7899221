package detector

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"skywatch/internal/models"
)

func grayFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	gray := color.RGBA{128, 128, 128, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, gray)
		}
	}
	return img
}

func TestAnnotateBurnsBoxesWithoutResizing(t *testing.T) {
	frame := grayFrame(100, 80)
	results := []models.DetectionResult{
		{Label: "person", Confidence: 0.9, Box: []float32{0.1, 0.1, 0.5, 0.5}},
	}

	out := annotate(frame, results)
	require.Equal(t, frame.Bounds(), out.Bounds())

	rgba, ok := out.(*image.RGBA)
	require.True(t, ok)

	// Box top-left corner: y1 = 0.1*80 = 8, x1 = 0.1*100 = 10.
	require.Equal(t, boxColor, rgba.RGBAAt(10, 8))

	// The input frame is replaced, never mutated.
	require.Equal(t, color.RGBA{128, 128, 128, 255}, frame.RGBAAt(10, 8))
}

func TestAnnotateSkipsMalformedBoxes(t *testing.T) {
	frame := grayFrame(20, 20)
	results := []models.DetectionResult{
		{Label: "person", Confidence: 0.9, Box: []float32{0.1, 0.1}},
	}

	out := annotate(frame, results)
	rgba := out.(*image.RGBA)
	require.Equal(t, frame.Pix, rgba.Pix)
}
