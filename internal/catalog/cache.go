package catalog

import (
	"time"

	"recordshop-be/internal/product"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const facetKey = "all"

// facetCache keeps the format and genre vocabularies for a fixed TTL.
// Empty vocabularies are never stored, so an outage does not pin empty
// dropdowns.
type facetCache struct {
	formats *expirable.LRU[string, []product.Format]
	genres  *expirable.LRU[string, []product.Genre]
}

func newFacetCache(ttl time.Duration) *facetCache {
	return &facetCache{
		formats: expirable.NewLRU[string, []product.Format](1, nil, ttl),
		genres:  expirable.NewLRU[string, []product.Genre](1, nil, ttl),
	}
}

func (c *facetCache) getFormats() ([]product.Format, bool) {
	return c.formats.Get(facetKey)
}

func (c *facetCache) setFormats(v []product.Format) {
	if len(v) > 0 {
		c.formats.Add(facetKey, v)
	}
}

func (c *facetCache) getGenres() ([]product.Genre, bool) {
	return c.genres.Get(facetKey)
}

func (c *facetCache) setGenres(v []product.Genre) {
	if len(v) > 0 {
		c.genres.Add(facetKey, v)
	}
}
