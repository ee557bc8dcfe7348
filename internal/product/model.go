package product

import "encoding/json"

// Image is a media reference attached to a product or a single-type entry.
type Image struct {
	ID              int     `json:"id"`
	DocumentID      string  `json:"documentId,omitempty"`
	Name            string  `json:"name,omitempty"`
	AlternativeText *string `json:"alternativeText"`
	Width           *int    `json:"width,omitempty"`
	Height          *int    `json:"height,omitempty"`
	URL             string  `json:"url"`
}

type Format struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both "name" and the legacy "type" key the CMS used
// for genre labels.
func (g *Genre) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	g.ID = raw.ID
	g.Name = raw.Name
	if g.Name == "" {
		g.Name = raw.Type
	}
	return nil
}

// Product is read-through data owned by the CMS. The slug is the public
// lookup key; the numeric id never appears in storefront URLs.
type Product struct {
	ID              int     `json:"id"`
	DocumentID      string  `json:"documentId,omitempty"`
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Price           float64 `json:"price"`
	Stock           int     `json:"stock"`
	MediaCondition  string  `json:"media_condition,omitempty"`
	SleeveCondition string  `json:"sleeve_condition,omitempty"`
	ReleaseDate     string  `json:"release_date,omitempty"`
	Description     string  `json:"description,omitempty"`
	Images          []Image `json:"images"`
	Format          *Format `json:"format"`
	Genre           *Genre  `json:"genre"`
}

// PriceRange is the catalog-wide price bound used by the price slider.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange is returned when no prices could be sampled.
var DefaultPriceRange = PriceRange{Min: 0, Max: 1000}

// Suggestion is the autocomplete projection of a product.
type Suggestion struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
