package capture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Malformed page references must be rejected locally, before any
// network traffic or source open is attempted.
func TestResolveStreamRejectsMalformedURL(t *testing.T) {
	for _, in := range []string{
		"",
		"not a url",
		"http://example.com/watch",
		"https://example.com/video.mp4",
	} {
		_, err := ResolveStream(in)
		require.Error(t, err, "input %q", in)

		var re *ResolutionError
		require.ErrorAs(t, err, &re, "input %q", in)
		require.Equal(t, in, re.URL)
	}
}

func TestNewSourceFoldsResolutionFailureIntoOpenError(t *testing.T) {
	src, err := NewSource(YouTubeDescriptor("not a url"))
	require.Nil(t, src)

	var oe *OpenError
	require.ErrorAs(t, err, &oe)

	var re *ResolutionError
	require.ErrorAs(t, err, &re)
}
