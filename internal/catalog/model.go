package catalog

import "recordshop-be/internal/product"

// Filters echoes the normalized listing filters back to the client so its
// inputs stay in sync. Query is "" when absent, the others are null.
type Filters struct {
	Query    string   `json:"query"`
	Format   *int     `json:"format"`
	Genre    *int     `json:"genre"`
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
}

func echoFilters(f product.Filter) Filters {
	out := Filters{
		Format:   f.Format,
		Genre:    f.Genre,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
	}
	if f.Query != nil {
		out.Query = *f.Query
	}
	return out
}

type ListingPage struct {
	Products     []product.Product  `json:"products"`
	Formats      []product.Format   `json:"formats"`
	Genres       []product.Genre    `json:"genres"`
	PriceRange   product.PriceRange `json:"priceRange"`
	Filters      Filters            `json:"filters"`
	CMSAvailable bool               `json:"cmsAvailable"`
}

// Hero is the single-type banner shown on the home page.
type Hero struct {
	ID         int            `json:"id"`
	DocumentID string         `json:"documentId,omitempty"`
	Title      string         `json:"title,omitempty"`
	Image      *product.Image `json:"image"`
}

type HomePage struct {
	Hero         *Hero             `json:"hero"`
	Products     []product.Product `json:"products"`
	CMSAvailable bool              `json:"cmsAvailable"`
}
