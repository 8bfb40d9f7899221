package detector

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInferenceErrorWraps(t *testing.T) {
	inner := errors.New("decode failed")
	err := &InferenceError{Err: inner}

	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "decode failed")
}

func TestClassName(t *testing.T) {
	require.Equal(t, "person", className(0))
	require.Equal(t, "toothbrush", className(len(cocoClasses)-1))
	require.Equal(t, "object", className(-1))
	require.Equal(t, "object", className(len(cocoClasses)))
}

// A detector whose weights never loaded stays usable as a value but
// fails every inference fast.
func TestYOLOMissingWeightsFailsFast(t *testing.T) {
	y, err := NewYOLO(filepath.Join(t.TempDir(), "missing.onnx"), 0.45, 0.5)
	require.Error(t, err)
	require.NotNil(t, y)
	defer y.Close()

	_, inferErr := y.Infer(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.ErrorIs(t, inferErr, ErrNotLoaded)
}
