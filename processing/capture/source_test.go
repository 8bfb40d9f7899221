package capture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptorValidate(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
		ok   bool
	}{
		{"zero value", Descriptor{}, false},
		{"camera", CameraDescriptor(0), true},
		{"camera negative index", CameraDescriptor(-1), false},
		{"file", FileDescriptor("/tmp/clip.mp4"), true},
		{"file empty path", FileDescriptor(""), false},
		{"youtube", YouTubeDescriptor("https://youtube.com/watch?v=dQw4w9WgXcQ"), true},
		{"youtube empty url", YouTubeDescriptor(""), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrNoSource)
			}
		})
	}
}

func TestDescriptorString(t *testing.T) {
	require.Equal(t, "camera 1", CameraDescriptor(1).String())
	require.Equal(t, "/tmp/clip.mp4", FileDescriptor("/tmp/clip.mp4").String())
	require.Equal(t, "https://y.tube/x", YouTubeDescriptor("https://y.tube/x").String())
	require.Equal(t, "none", Descriptor{}.String())
}

func TestOpenErrorUnwraps(t *testing.T) {
	inner := &ResolutionError{URL: "x", Err: ErrNoSource}
	err := &OpenError{Target: "x", Err: inner}

	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	require.Contains(t, err.Error(), "open x")
}
