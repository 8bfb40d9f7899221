package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// videoSource reads frames through an OpenCV VideoCapture, which
// handles camera devices, local files and direct stream URLs alike.
type videoSource struct {
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// NewSource opens the input named by the descriptor. YouTube
// descriptors are resolved to a direct media URL first; a resolution
// failure surfaces as an OpenError like any other open failure.
func NewSource(d Descriptor) (Source, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	switch d.Kind {
	case KindCamera:
		vc, err := gocv.VideoCaptureDevice(d.Device)
		if err != nil {
			return nil, &OpenError{Target: d.String(), Err: err}
		}
		return newVideoSource(vc), nil

	case KindFile:
		vc, err := gocv.VideoCaptureFile(d.Path)
		if err != nil {
			return nil, &OpenError{Target: d.String(), Err: err}
		}
		return newVideoSource(vc), nil

	case KindYouTube:
		direct, err := ResolveStream(d.URL)
		if err != nil {
			return nil, &OpenError{Target: d.String(), Err: err}
		}
		vc, err := gocv.VideoCaptureFile(direct)
		if err != nil {
			return nil, &OpenError{Target: d.String(), Err: err}
		}
		return newVideoSource(vc), nil

	default:
		return nil, ErrNoSource
	}
}

func newVideoSource(cap *gocv.VideoCapture) *videoSource {
	return &videoSource{cap: cap, mat: gocv.NewMat()}
}

func (s *videoSource) ReadNext() (image.Image, error) {
	if ok := s.cap.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, ErrEndOfStream
	}

	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

func (s *videoSource) Close() error {
	s.mat.Close()
	return s.cap.Close()
}

const maxProbedCameras = 4

// ListCameras probes the first few device indexes and reports the ones
// that open. Probing actually opens each device, so this is called off
// the UI thread.
func ListCameras() []int {
	var found []int
	for i := 0; i < maxProbedCameras; i++ {
		vc, err := gocv.VideoCaptureDevice(i)
		if err != nil {
			continue
		}
		if vc.IsOpened() {
			found = append(found, i)
		}
		vc.Close()
	}
	return found
}
