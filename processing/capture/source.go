package capture

import (
	"errors"
	"fmt"
	"image"
)

// Kind selects which input a Descriptor points at.
type Kind int

const (
	KindNone Kind = iota
	KindCamera
	KindFile
	KindYouTube
)

// Descriptor is the user's choice of source: a camera device index, a
// local file path, or a YouTube page URL. Immutable once built.
type Descriptor struct {
	Kind   Kind
	Device int
	Path   string
	URL    string
}

func CameraDescriptor(device int) Descriptor {
	return Descriptor{Kind: KindCamera, Device: device}
}

func FileDescriptor(path string) Descriptor {
	return Descriptor{Kind: KindFile, Path: path}
}

func YouTubeDescriptor(url string) Descriptor {
	return Descriptor{Kind: KindYouTube, URL: url}
}

// ErrNoSource is the rejection for a Start with no usable source
// configured.
var ErrNoSource = errors.New("no video source configured")

func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindCamera:
		if d.Device < 0 {
			return fmt.Errorf("%w: camera index %d", ErrNoSource, d.Device)
		}
	case KindFile:
		if d.Path == "" {
			return fmt.Errorf("%w: empty file path", ErrNoSource)
		}
	case KindYouTube:
		if d.URL == "" {
			return fmt.Errorf("%w: empty URL", ErrNoSource)
		}
	default:
		return ErrNoSource
	}
	return nil
}

func (d Descriptor) String() string {
	switch d.Kind {
	case KindCamera:
		return fmt.Sprintf("camera %d", d.Device)
	case KindFile:
		return d.Path
	case KindYouTube:
		return d.URL
	default:
		return "none"
	}
}

// ErrEndOfStream reports that a source has no more frames. It is not a
// failure: a finite file ends this way.
var ErrEndOfStream = errors.New("end of stream")

// OpenError wraps any failure to open a source for reading, including
// a failed YouTube resolution.
type OpenError struct {
	Target string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Target, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Source produces decoded frames until exhausted or closed.
//
// ReadNext blocks until a frame is available and returns
// ErrEndOfStream when the source is exhausted. Close releases the
// underlying device or decoder and must be called exactly once; the
// capture loop owns that invariant.
type Source interface {
	ReadNext() (image.Image, error)
	Close() error
}

// OpenFunc opens a Source for a descriptor. NewSource is the
// production implementation; tests substitute fakes.
type OpenFunc func(Descriptor) (Source, error)
