package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := VideoID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestVideoIDInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"abc",
		"not a url at all",
		"https://example.com/nothing",
		"https://www.youtube.com/@veritasium",
		"https://www.youtube.com/watch?v=abc",
		"https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM9Ttw",
	}
	for _, input := range inputs {
		_, err := VideoID(input)
		assert.ErrorIs(t, err, ErrInvalidVideoURL, input)
	}
}

func TestChannelIDFromURL(t *testing.T) {
	a := assert.New(t)

	id, ok := ChannelIDFromURL("https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM9Ttw/videos")
	a.True(ok)
	a.Equal("UC_x5XG1OV2P6uZZ5FSM9Ttw", id)

	_, ok = ChannelIDFromURL("https://www.youtube.com/@GoogleDevelopers")
	a.False(ok)

	_, ok = ChannelIDFromURL("https://www.youtube.com/channel/UCshort")
	a.False(ok)
}

func TestUploadsPlaylistID(t *testing.T) {
	a := assert.New(t)
	a.Equal("UU_x5XG1OV2P6uZZ5FSM9Ttw", UploadsPlaylistID("UC_x5XG1OV2P6uZZ5FSM9Ttw"))
	a.Equal("PLxyz", UploadsPlaylistID("PLxyz"))
}

func TestURLs(t *testing.T) {
	a := assert.New(t)
	a.Equal("https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	a.Equal("https://www.youtube.com/channel/UC1", ChannelURL("UC1"))
	a.Equal("", ChannelURL(""))
}
