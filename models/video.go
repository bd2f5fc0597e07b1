package models

import (
	"time"
)

// VideoRecord is the common shape every metadata source maps its upstream
// response into. Fields a source cannot provide are left at their zero value.
type VideoRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Thumbnail       string    `json:"thumbnail"`
	ChannelName     string    `json:"channel_name"`
	ChannelID       string    `json:"channel_id"`
	ChannelURL      string    `json:"channel_url"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	UploadDate      string    `json:"upload_date"`
	UploadedAt      time.Time `json:"uploaded_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Tags            []string  `json:"tags"`
	Category        string    `json:"category"`
	Transcript      string    `json:"transcript"`
	Source          string    `json:"source"`
}

// HasTitle reports whether the record is usable as a metadata result.
func (v *VideoRecord) HasTitle() bool {
	return v != nil && v.Title != ""
}

// ExtractionOptions selects which optional fields appear in a response.
// A nil flag means include; only an explicit false removes the field.
type ExtractionOptions struct {
	Title       *bool `json:"title,omitempty"`
	Description *bool `json:"description,omitempty"`
	Thumbnail   *bool `json:"thumbnail,omitempty"`
	Transcript  *bool `json:"transcript,omitempty"`
	Metadata    *bool `json:"metadata,omitempty"`
}

func (o ExtractionOptions) IncludeTitle() bool       { return enabled(o.Title) }
func (o ExtractionOptions) IncludeDescription() bool { return enabled(o.Description) }
func (o ExtractionOptions) IncludeThumbnail() bool   { return enabled(o.Thumbnail) }
func (o ExtractionOptions) IncludeTranscript() bool  { return enabled(o.Transcript) }
func (o ExtractionOptions) IncludeMetadata() bool    { return enabled(o.Metadata) }

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// VideoResult is the response for a single video extraction.
type VideoResult struct {
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
	Transcript  *string `json:"transcript,omitempty"`
	Channel     string  `json:"channel"`
	ChannelURL  string  `json:"channel_url,omitempty"`
	Views       int64   `json:"views"`
	PublishedAt string  `json:"published_at"`

	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	Likes           *int64   `json:"likes,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Category        string   `json:"category,omitempty"`
}
