package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-research/sources"
	"github.com/nijaru/yt-research/youtube/dataapi"
	"github.com/nijaru/yt-research/youtube/innertube"
	"github.com/nijaru/yt-research/youtube/scrape"
)

func sourceNames(chain []sources.MetadataSource) []string {
	names := make([]string, len(chain))
	for i, src := range chain {
		names[i] = src.Name()
	}
	return names
}

func TestMetadataChain(t *testing.T) {
	semi := innertube.New()
	scraper := scrape.New()

	t.Run("without api key", func(t *testing.T) {
		chain := metadataChain(nil, semi, scraper)
		assert.Equal(t, []string{"innertube", "scrape"}, sourceNames(chain))
	})

	t.Run("with api key", func(t *testing.T) {
		official, err := dataapi.NewClient(context.Background(), "test-key")
		require.NoError(t, err)

		chain := metadataChain(official, semi, scraper)
		assert.Equal(t, []string{"official", "innertube", "scrape"}, sourceNames(chain))
	})
}
