// Package scrape reads video and channel details straight from youtube.com
// pages, for when neither API route produced anything.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/normalize"
	"github.com/nijaru/yt-research/youtube"
	"github.com/nijaru/yt-research/youtube/innertube"
)

const (
	SourceName = "scrape"

	defaultBaseURL = "https://www.youtube.com"

	playerResponsePrefix = "var ytInitialPlayerResponse ="
)

var ErrNoChannelID = errors.New("no channel id on page")

type Scraper struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Scraper)

func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		s.httpClient = hc
	}
}

// WithBaseURL replaces https://www.youtube.com, without a trailing slash.
func WithBaseURL(u string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimSuffix(u, "/")
	}
}

func New(opts ...Option) *Scraper {
	s := &Scraper{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) getDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "scrape.getDocument")
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cookie", "CONSENT=YES+1")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "scrape.getDocument")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("scrape.getDocument: status code: %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "scrape.getDocument")
	}
	return doc, nil
}

// Video scrapes the watch page of videoID. The embedded player response is
// preferred; page meta tags fill whatever it lacks.
func (s *Scraper) Video(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	doc, err := s.getDocument(ctx, s.baseURL+"/watch?v="+videoID)
	if err != nil {
		return nil, errors.Wrap(err, "scrape.Video")
	}

	rec := &models.VideoRecord{ID: videoID, Source: SourceName}

	if info, err := playerResponse(doc); err == nil {
		rec.Title = info.Title
		rec.Description = info.ShortDescription
		if n := len(info.Thumbnails); n > 0 {
			rec.Thumbnail = info.Thumbnails[n-1]
		}
		rec.ChannelName = info.Author
		rec.ChannelID = info.ChannelID
		rec.ViewCount = info.ViewCount
		rec.UploadDate = info.PublishDate
		rec.DurationSeconds = info.LengthSeconds
		rec.Tags = info.Keywords
		rec.Category = info.Category
	}

	fillFromMeta(doc, rec)

	rec.ChannelURL = youtube.ChannelURL(rec.ChannelID)
	rec.UploadedAt = normalize.ParseDate(rec.UploadDate)

	if rec.Title == "" {
		return nil, errors.New("scrape.Video: no title on watch page")
	}
	return rec, nil
}

func fillFromMeta(doc *goquery.Document, rec *models.VideoRecord) {
	meta := func(selector string) string {
		return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
	}

	if rec.Title == "" {
		rec.Title = meta("meta[property='og:title']")
	}
	if rec.Description == "" {
		rec.Description = meta("meta[property='og:description']")
	}
	if rec.Thumbnail == "" {
		rec.Thumbnail = meta("meta[property='og:image']")
	}
	if rec.ChannelName == "" {
		rec.ChannelName = strings.TrimSpace(doc.Find("span[itemprop=author] link[itemprop=name]").First().AttrOr("content", ""))
	}
	if rec.ChannelID == "" {
		rec.ChannelID = meta("meta[itemprop=channelId]")
	}
	if rec.ViewCount == 0 {
		rec.ViewCount = normalize.ParseCount(meta("meta[itemprop=interactionCount]"))
	}
	if rec.UploadDate == "" {
		rec.UploadDate = meta("meta[itemprop=datePublished]")
	}
	if rec.UploadDate == "" {
		rec.UploadDate = meta("meta[itemprop=uploadDate]")
	}
	if rec.DurationSeconds == 0 {
		rec.DurationSeconds = normalize.ParseDuration(meta("meta[itemprop=duration]"))
	}
	if rec.Category == "" {
		rec.Category = meta("meta[itemprop=genre]")
	}
}

// playerResponse finds the ytInitialPlayerResponse script and parses the
// JSON object that follows the assignment.
func playerResponse(doc *goquery.Document) (*innertube.VideoInfo, error) {
	for _, node := range doc.Find("script").Nodes {
		if node.FirstChild == nil || node.FirstChild.Type != html.TextNode {
			continue
		}

		js := strings.TrimSpace(node.FirstChild.Data)
		if !strings.HasPrefix(js, playerResponsePrefix) {
			continue
		}

		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(strings.TrimPrefix(js, playerResponsePrefix)))
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, "scrape: decode ytInitialPlayerResponse")
		}

		return innertube.ParsePlayer(raw)
	}

	return nil, errors.New("scrape: ytInitialPlayerResponse not found")
}

// ChannelID reads the UC... id from a channel page such as
// https://www.youtube.com/@handle.
func (s *Scraper) ChannelID(ctx context.Context, channelURL string) (string, error) {
	doc, err := s.getDocument(ctx, s.rebase(channelURL))
	if err != nil {
		return "", errors.Wrap(err, "scrape.ChannelID")
	}

	candidates := []string{
		doc.Find("meta[itemprop=identifier]").AttrOr("content", ""),
		doc.Find("meta[itemprop=channelId]").AttrOr("content", ""),
		doc.Find("link[rel=canonical]").AttrOr("href", ""),
		doc.Find("meta[property='og:url']").AttrOr("content", ""),
	}

	for _, c := range candidates {
		if strings.HasPrefix(c, "UC") && len(c) == 24 {
			return c, nil
		}
		if id, ok := youtube.ChannelIDFromURL(c); ok {
			return id, nil
		}
	}

	return "", errors.Wrap(ErrNoChannelID, channelURL)
}

// rebase swaps the scheme and host of a youtube.com URL for the scraper's
// base URL, keeping path and query.
func (s *Scraper) rebase(rawURL string) string {
	for _, host := range []string{"https://www.youtube.com", "https://youtube.com", "https://m.youtube.com", "http://www.youtube.com", "http://youtube.com"} {
		if strings.HasPrefix(rawURL, host) {
			return s.baseURL + strings.TrimPrefix(rawURL, host)
		}
	}
	if strings.HasPrefix(rawURL, "@") {
		return fmt.Sprintf("%s/%s", s.baseURL, rawURL)
	}
	return rawURL
}

