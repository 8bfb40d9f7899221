package capture

import (
	"errors"
	"fmt"

	"github.com/kkdai/youtube/v2"
)

// ResolutionError reports that a page URL could not be turned into a
// directly playable media URL.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

var resolveClient = youtube.Client{}

// ResolveStream turns a YouTube page URL into a direct media URL,
// picking the best muxed format. Malformed URLs are rejected before
// any network traffic.
func ResolveStream(pageURL string) (string, error) {
	id, err := youtube.ExtractVideoID(pageURL)
	if err != nil {
		return "", &ResolutionError{URL: pageURL, Err: err}
	}

	video, err := resolveClient.GetVideo(id)
	if err != nil {
		return "", &ResolutionError{URL: pageURL, Err: err}
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		formats = video.Formats
	}
	if len(formats) == 0 {
		return "", &ResolutionError{URL: pageURL, Err: errors.New("no playable formats")}
	}
	formats.Sort()

	direct, err := resolveClient.GetStreamURL(video, &formats[0])
	if err != nil {
		return "", &ResolutionError{URL: pageURL, Err: err}
	}
	return direct, nil
}
