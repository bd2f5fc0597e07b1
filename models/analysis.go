package models

import (
	"encoding/json"
	"time"
)

// PerformanceMetrics are derived for bulk analysis only.
type PerformanceMetrics struct {
	ViewsPerDay         int64   `json:"views_per_day"`
	EngagementRate      float64 `json:"engagement_rate"`
	WatchTimePercentage string  `json:"watch_time_percentage"`
}

type PublishingSchedule struct {
	DayOfWeek  string `json:"day_of_week"`
	TimePosted string `json:"time_posted"`
	Frequency  string `json:"frequency"`
}

type AnalyzedMetadata struct {
	Channel      string  `json:"channel"`
	ChannelURL   *string `json:"channel_url"`
	Title        string  `json:"title"`
	Thumbnail    *string `json:"thumbnail,omitempty"`
	Description  *string `json:"description,omitempty"`
	Views        *int64  `json:"views,omitempty"`
	Likes        *int64  `json:"likes,omitempty"`
	UploadDate   *string `json:"upload_date,omitempty"`
	Duration     *string `json:"duration,omitempty"`
	CommentCount *int64  `json:"comment_count,omitempty"`
}

// AnalyzedVideo is one entry of a bulk analysis. Failed items carry only
// URL and Error.
type AnalyzedVideo struct {
	URL                string              `json:"url"`
	Metadata           *AnalyzedMetadata   `json:"metadata,omitempty"`
	Performance        *PerformanceMetrics `json:"performance,omitempty"`
	PublishingSchedule *PublishingSchedule `json:"publishing_schedule,omitempty"`
	Tags               []string            `json:"tags,omitempty"`
	Category           string              `json:"category,omitempty"`
	Transcript         *string             `json:"transcript,omitempty"`
	Error              string              `json:"error,omitempty"`
}

func (a AnalyzedVideo) Failed() bool {
	return a.Error != ""
}

// Analysis is a saved extraction result in a user's history. Data is kept
// exactly as the caller posted it.
type Analysis struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}
