// Package youtube holds URL and identifier helpers shared by the upstream
// clients.
package youtube

import (
	"regexp"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
)

var (
	channelIDPattern = regexp.MustCompile(`channel/(UC[\w-]{22})`)
	videoIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

var ErrInvalidVideoURL = errors.New("invalid video url")

// VideoID extracts the 11 character video id from a watch, youtu.be,
// embed or shorts URL, or accepts a bare id.
func VideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidVideoURL
	}

	id, err := ytdl.ExtractVideoID(rawURL)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidVideoURL, "%s: %v", rawURL, err)
	}
	if !videoIDPattern.MatchString(id) {
		return "", errors.Wrap(ErrInvalidVideoURL, rawURL)
	}
	return id, nil
}

// ChannelIDFromURL matches direct channel URLs (".../channel/UC...").
// Handle and legacy user URLs need resolving upstream.
func ChannelIDFromURL(rawURL string) (string, bool) {
	m := channelIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// UploadsPlaylistID returns the id of the playlist holding every upload of
// a channel.
func UploadsPlaylistID(channelID string) string {
	if strings.HasPrefix(channelID, "UC") {
		return "UU" + channelID[2:]
	}
	return channelID
}

func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func ChannelURL(channelID string) string {
	if channelID == "" {
		return ""
	}
	return "https://www.youtube.com/channel/" + channelID
}
