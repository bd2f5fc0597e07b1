package models

// ChannelVideoSummary is one upload in a channel listing. Views keep the
// upstream string formatting.
type ChannelVideoSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
	Views       string `json:"views"`
	PublishedAt string `json:"published_at"`
}

type ChannelListingMeta struct {
	TotalVideos           int    `json:"totalVideos"`
	ChannelID             string `json:"channelId"`
	Pages                 int    `json:"pages"`
	Truncated             bool   `json:"truncated"`
	SkippedMissingDetails int    `json:"skippedMissingDetails"`
}

type ChannelListing struct {
	Videos []ChannelVideoSummary `json:"data"`
	Meta   ChannelListingMeta    `json:"meta"`
}
