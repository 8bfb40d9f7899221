// Package detector wraps object-detection backends behind a single
// capability interface: one frame in, one annotated frame out.
package detector

import (
	"errors"
	"fmt"
	"image"
)

// Detector annotates frames with detection overlays. The output frame
// has the same dimensions as the input; boxes, class labels and
// confidences are burned into the pixels.
type Detector interface {
	Infer(image.Image) (image.Image, error)
	Close()
}

// ErrNotLoaded is returned by Infer when the model never loaded. A
// detector that failed to load stays usable as a value but fails every
// inference fast instead of attempting it.
var ErrNotLoaded = errors.New("detection model not loaded")

// InferenceError wraps a failure to run detection on a single frame.
// It is non-fatal to a capture run.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
