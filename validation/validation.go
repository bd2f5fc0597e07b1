package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nijaru/yt-research/config"
	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/models"
)

type Validator struct {
	config *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// ValidateURL checks that urlStr is an http(s) URL on a YouTube domain.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}

	if !isYouTubeDomain(parsedURL.Hostname()) {
		return errors.InvalidInput(op, nil, "Only YouTube URLs are supported")
	}

	return nil
}

func isYouTubeDomain(host string) bool {
	host = strings.ToLower(host)
	switch host {
	case "youtube.com", "youtu.be":
		return true
	}
	return strings.HasSuffix(host, ".youtube.com")
}

// ValidateExtractRequest checks the shape of an extract request. Bulk URLs
// are not checked one by one: a bad URL fails only its own slot.
func (v *Validator) ValidateExtractRequest(req *models.ExtractRequest) error {
	const op = "Validator.ValidateExtractRequest"

	if !req.Type.Valid() {
		return errors.InvalidInput(op, nil, "Invalid type")
	}

	if req.Type == models.ExtractBulkAnalyze {
		if len(req.URLs) == 0 {
			return errors.InvalidInput(op, nil, "URLs array is required for bulk_analyze")
		}
		if maxURLs := v.maxBulkURLs(); maxURLs > 0 && len(req.URLs) > maxURLs {
			return errors.InvalidInput(op, nil,
				fmt.Sprintf("At most %d URLs are allowed per bulk_analyze request", maxURLs))
		}
		return nil
	}

	return v.ValidateURL(strings.TrimSpace(req.URL))
}

func (v *Validator) maxBulkURLs() int {
	if v.config == nil {
		return 0
	}
	return v.config.YouTube.BulkMaxURLs
}

type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.InvalidInput(op, nil, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}
