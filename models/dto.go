package models

import "encoding/json"

type ExtractType string

const (
	ExtractVideo       ExtractType = "video"
	ExtractBulkAnalyze ExtractType = "bulk_analyze"
	ExtractChannelList ExtractType = "channel_list"
)

func (t ExtractType) Valid() bool {
	switch t {
	case ExtractVideo, ExtractBulkAnalyze, ExtractChannelList:
		return true
	}
	return false
}

// ExtractRequest is the body of POST /api/v1/extract.
type ExtractRequest struct {
	URL     string            `json:"url"`
	Type    ExtractType       `json:"type"`
	Options ExtractionOptions `json:"options"`
	URLs    []string          `json:"urls,omitempty"`
}

// SaveAnalysisRequest is the body of POST /api/v1/history.
type SaveAnalysisRequest struct {
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Data      json.RawMessage `json:"data"`
}
