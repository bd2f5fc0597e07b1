package innertube

import (
	"context"

	"github.com/Jeffail/gabs/v2"
	"github.com/pkg/errors"
)

// ResolveURL maps a youtube.com URL (handle, /user/, /c/ or channel page)
// to the browse id it points at, which for channels is the UC... id.
func (c *Client) ResolveURL(ctx context.Context, rawURL string) (string, error) {
	data, err := c.post(ctx, "navigation/resolve_url", map[string]any{
		"url":     rawURL,
		"context": c.webContext(),
	})
	if err != nil {
		return "", err
	}

	j, err := gabs.ParseJSON(data)
	if err != nil {
		return "", errors.Wrap(err, "innertube: decode resolve_url")
	}

	browseID := str(j, "endpoint.browseEndpoint.browseId")
	if browseID == "" {
		return "", errors.Wrap(ErrNotResolved, rawURL)
	}
	return browseID, nil
}
