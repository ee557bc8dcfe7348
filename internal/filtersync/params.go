package filtersync

import (
	"strconv"
	"strings"

	"recordshop-be/internal/product"
)

// Resolved is the filter set a navigation is built from.
type Resolved struct {
	Query    string
	Format   *int
	Genre    *int
	MinPrice *float64
	MaxPrice *float64
}

// BuildParams returns only the parameters that constrain the listing: an
// empty query, a nil selection and a price bound equal to the catalog-wide
// bound are all left out. A zero price bound is kept when the catalog bound
// is not zero.
func BuildParams(r Resolved, pr product.PriceRange) map[string]string {
	params := make(map[string]string, 5)

	if q := strings.TrimSpace(r.Query); q != "" {
		params[product.ParamQuery] = q
	}
	if r.Format != nil {
		params[product.ParamFormat] = strconv.Itoa(*r.Format)
	}
	if r.Genre != nil {
		params[product.ParamGenre] = strconv.Itoa(*r.Genre)
	}
	if r.MinPrice != nil && *r.MinPrice != pr.Min {
		params[product.ParamMinPrice] = formatPrice(*r.MinPrice)
	}
	if r.MaxPrice != nil && *r.MaxPrice != pr.Max {
		params[product.ParamMaxPrice] = formatPrice(*r.MaxPrice)
	}
	return params
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
