package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nijaru/yt-research/youtube/dataapi"
	"github.com/nijaru/yt-research/youtube/innertube"
)

func TestOfficialWithoutKey(t *testing.T) {
	o := NewOfficial(nil)
	_, err := o.FetchMetadata(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, dataapi.ErrNoAPIKey)
	assert.Equal(t, "official", o.Name())
}

func TestRecordFromInfo(t *testing.T) {
	info := &innertube.VideoInfo{
		ID:               "dQw4w9WgXcQ",
		Title:            "Never Gonna Give You Up",
		ShortDescription: "The official video",
		Author:           "Rick Astley",
		ChannelID:        "UCuAXFkgsw1L7xaCfnd5JJOw",
		Thumbnails:       []string{"https://i.ytimg.com/small.jpg", "https://i.ytimg.com/large.jpg"},
		ViewCount:        100,
		LikeCount:        10,
		CommentCount:     2,
		LengthSeconds:    213,
		Keywords:         []string{"rick"},
		Category:         "Music",
		PublishDate:      "2009-10-24",
		DateText:         "Oct 25, 2009",
	}

	rec := RecordFromInfo(info, "innertube", time.Now())

	a := assert.New(t)
	a.Equal("https://i.ytimg.com/small.jpg", rec.Thumbnail)
	a.Equal("https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", rec.ChannelURL)
	a.Equal("Oct 25, 2009", rec.UploadDate)
	a.True(time.Date(2009, 10, 25, 0, 0, 0, 0, time.UTC).Equal(rec.UploadedAt))
	a.Equal(int64(10), rec.LikeCount)
	a.Equal("innertube", rec.Source)
}

func TestRecordFromInfoFallsBackToPublishDate(t *testing.T) {
	rec := RecordFromInfo(&innertube.VideoInfo{Title: "x", PublishDate: "2009-10-24"}, "innertube", time.Now())
	assert.Equal(t, "2009-10-24", rec.UploadDate)
	assert.Equal(t, 2009, rec.UploadedAt.Year())
}

func TestRecordFromInfoRelativeDate(t *testing.T) {
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	rec := RecordFromInfo(&innertube.VideoInfo{Title: "x", DateText: "Premiered 3 days ago"}, "innertube", now)

	assert.Equal(t, "Premiered 3 days ago", rec.UploadDate)
	assert.Equal(t, time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC), rec.UploadedAt)
}
