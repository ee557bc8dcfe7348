package cms

import (
	"context"

	"recordshop-be/internal/product"
)

const (
	productsPath = "/api/products"
	formatsPath  = "/api/formats"
	genresPath   = "/api/genres"
)

// ListProducts returns the products matching f, or an empty slice when the
// CMS has no data or cannot be used.
func (c *Client) ListProducts(ctx context.Context, f product.Filter) []product.Product {
	var out []product.Product
	if err := c.get(ctx, "list_products", productsPath, ProductListQuery(f), &out); err != nil || out == nil {
		return []product.Product{}
	}
	return out
}

// GetProduct looks a product up by slug. The CMS does not enforce slug
// uniqueness, so the first match wins. Absent is nil.
func (c *Client) GetProduct(ctx context.Context, slug string) *product.Product {
	var out []product.Product
	if err := c.get(ctx, "get_product", productsPath, ProductBySlugQuery(slug), &out); err != nil || len(out) == 0 {
		return nil
	}
	return &out[0]
}

func (c *Client) ListFormats(ctx context.Context) []product.Format {
	var out []product.Format
	if err := c.get(ctx, "list_formats", formatsPath, Query{}, &out); err != nil || out == nil {
		return []product.Format{}
	}
	return out
}

func (c *Client) ListGenres(ctx context.Context) []product.Genre {
	var out []product.Genre
	if err := c.get(ctx, "list_genres", genresPath, Query{}, &out); err != nil || out == nil {
		return []product.Genre{}
	}
	return out
}

// GetPriceRange reduces a bounded sample of prices to {min, max}. It falls
// back to product.DefaultPriceRange when the sample is empty or the call
// fails.
func (c *Client) GetPriceRange(ctx context.Context) product.PriceRange {
	var sample []struct {
		Price *float64 `json:"price"`
	}
	if err := c.get(ctx, "price_range", productsPath, PriceRangeQuery(), &sample); err != nil {
		return product.DefaultPriceRange
	}

	var (
		r     product.PriceRange
		found bool
	)
	for _, s := range sample {
		if s.Price == nil {
			continue
		}
		p := *s.Price
		if !found {
			r = product.PriceRange{Min: p, Max: p}
			found = true
			continue
		}
		r.Min = min(r.Min, p)
		r.Max = max(r.Max, p)
	}
	if !found {
		return product.DefaultPriceRange
	}
	return r
}

// GetSuggestions returns at most limit products whose title contains text.
// A non-positive limit uses DefaultSuggestionLimit.
func (c *Client) GetSuggestions(ctx context.Context, text string, limit int) []product.Product {
	var out []product.Product
	if err := c.get(ctx, "suggestions", productsPath, SuggestionQuery(text, limit), &out); err != nil || out == nil {
		return []product.Product{}
	}
	return out
}
