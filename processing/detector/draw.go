package detector

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var boxColor = color.RGBA{0, 255, 0, 255}

func drawDetections(mat *gocv.Mat, dets []detection) {
	for _, d := range dets {
		gocv.Rectangle(mat, d.box, boxColor, 2)

		label := fmt.Sprintf("%s %.2f", d.label, d.confidence)
		origin := image.Pt(d.box.Min.X, d.box.Min.Y-6)
		if origin.Y < 12 {
			origin.Y = d.box.Min.Y + 14
		}
		gocv.PutText(mat, label, origin, gocv.FontHersheySimplex, 0.5, boxColor, 1)
	}
}
