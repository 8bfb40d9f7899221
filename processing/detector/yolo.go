package detector

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

const yoloInputSize = 640

// YOLO runs a YOLOv8 ONNX model through the OpenCV DNN module. A
// failed load leaves the value usable: every Infer then returns
// ErrNotLoaded instead of attempting inference.
type YOLO struct {
	net    gocv.Net
	loaded bool
	conf   float32
	nms    float32
}

// NewYOLO loads the model weights once. On failure it still returns a
// YOLO value alongside the error so the caller can report the problem
// and keep the process alive.
func NewYOLO(modelPath string, conf, nms float32) (*YOLO, error) {
	y := &YOLO{conf: conf, nms: nms}

	if _, err := os.Stat(modelPath); err != nil {
		return y, fmt.Errorf("load model: %w", err)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return y, fmt.Errorf("load model %s: unreadable network", modelPath)
	}

	y.net = net
	y.loaded = true
	return y, nil
}

func (y *YOLO) Close() {
	if y.loaded {
		y.net.Close()
		y.loaded = false
	}
}

// Infer runs detection on one frame and returns a copy with boxes,
// labels and confidences drawn in. OpenCV reports malformed input by
// throwing, which gocv surfaces as a panic; that is converted into an
// InferenceError here so a bad frame never crashes the process.
func (y *YOLO) Infer(frame image.Image) (out image.Image, err error) {
	if !y.loaded {
		return nil, ErrNotLoaded
	}
	if frame == nil {
		return nil, &InferenceError{Err: errors.New("nil frame")}
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &InferenceError{Err: fmt.Errorf("%v", r)}
		}
	}()

	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, &InferenceError{Err: errors.New("empty frame")}
	}

	dets, err := y.detect(mat)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}

	drawDetections(&mat, dets)

	annotated, err := mat.ToImage()
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	return annotated, nil
}

type detection struct {
	box        image.Rectangle
	label      string
	confidence float32
}

func (y *YOLO) detect(mat gocv.Mat) ([]detection, error) {
	blob := gocv.BlobFromImage(mat, 1.0/255.0,
		image.Pt(yoloInputSize, yoloInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	y.net.SetInput(blob, "")
	output := y.net.Forward("")
	defer output.Close()

	// YOLOv8 output is [1, 4+classes, anchors].
	dims := output.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	rows, cols := dims[1], dims[2]

	flat := output.Reshape(1, rows)
	defer flat.Close()

	scaleX := float32(mat.Cols()) / float32(yoloInputSize)
	scaleY := float32(mat.Rows()) / float32(yoloInputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for j := 0; j < cols; j++ {
		best := float32(0)
		bestID := 0
		for c := 4; c < rows; c++ {
			if s := flat.GetFloatAt(c, j); s > best {
				best = s
				bestID = c - 4
			}
		}
		if best < y.conf {
			continue
		}

		cx := flat.GetFloatAt(0, j) * scaleX
		cy := flat.GetFloatAt(1, j) * scaleY
		w := flat.GetFloatAt(2, j) * scaleX
		h := flat.GetFloatAt(3, j) * scaleY

		boxes = append(boxes, image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2),
		))
		scores = append(scores, best)
		classIDs = append(classIDs, bestID)
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, y.conf, y.nms)

	dets := make([]detection, 0, len(keep))
	for _, i := range keep {
		dets = append(dets, detection{
			box:        boxes[i],
			label:      className(classIDs[i]),
			confidence: scores[i],
		})
	}
	return dets, nil
}
