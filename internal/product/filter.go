package product

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names read by ParseFilter.
const (
	ParamQuery    = "q"
	ParamFormat   = "format"
	ParamGenre    = "genre"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
)

// Filter is a partial set of catalog constraints. A nil field means "no
// constraint"; a non-nil field always holds a validated value.
type Filter struct {
	Query    *string  `json:"query,omitempty"`
	Format   *int     `json:"format,omitempty"`
	Genre    *int     `json:"genre,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (f Filter) IsEmpty() bool {
	return f.Query == nil && f.Format == nil && f.Genre == nil &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// ParseFilter normalizes untrusted query parameters. Invalid input for a
// field drops that field only; it never fails the whole request.
func ParseFilter(values url.Values) Filter {
	var f Filter

	if q := strings.TrimSpace(values.Get(ParamQuery)); q != "" {
		f.Query = &q
	}

	f.Format = parseID(values.Get(ParamFormat))
	f.Genre = parseID(values.Get(ParamGenre))

	// price bounds are keyed on presence: 0 is a legitimate bound
	if values.Has(ParamMinPrice) {
		f.MinPrice = parsePrice(values.Get(ParamMinPrice))
	}
	if values.Has(ParamMaxPrice) {
		f.MaxPrice = parsePrice(values.Get(ParamMaxPrice))
	}

	return f
}

// parseID accepts positive integers only. CMS ids start at 1, so "0",
// negatives and non-numeric input all mean "not selected".
func parseID(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// parsePrice accepts finite, non-negative numbers. An empty value counts as
// unparseable rather than zero.
func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	// "-0" parses as negative zero
	v = math.Abs(v)
	return &v
}
