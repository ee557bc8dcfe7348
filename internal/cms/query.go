package cms

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"recordshop-be/internal/product"
)

const (
	paramPopulate = "populate"
	paramFields   = "fields"
	paramLimit    = "pagination[limit]"

	// PriceSampleLimit caps the products sampled for the price range.
	PriceSampleLimit = 1000
	// DefaultSuggestionLimit is the autocomplete page size.
	DefaultSuggestionLimit = 6
)

// listingPopulate is the related data every listing and detail view renders.
var listingPopulate = []string{"images", "format", "genre"}

type Param struct {
	Key   string
	Value string
}

// Query is an ordered set of CMS query parameters. Encoding keeps insertion
// order, so compiling the same filter twice yields the same bytes.
type Query struct {
	params []Param
}

// Set replaces key in place when present, otherwise appends it.
func (q *Query) Set(key, value string) {
	for i := range q.params {
		if q.params[i].Key == key {
			q.params[i].Value = value
			return
		}
	}
	q.params = append(q.params, Param{Key: key, Value: value})
}

func (q Query) Get(key string) (string, bool) {
	for _, p := range q.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (q Query) Len() int {
	return len(q.params)
}

func (q Query) Params() []Param {
	return append([]Param(nil), q.params...)
}

func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// MarshalJSON renders the params as a flat object, used for body verbs.
func (q Query) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(q.params))
	for _, p := range q.params {
		m[p.Key] = p.Value
	}
	return json.Marshal(m)
}

func containsi(field string) string { return "filters[" + field + "][$containsi]" }
func eq(field string) string { return "filters[" + field + "][$eq]" }
func relationEq(field string) string { return "filters[" + field + "][id][$eq]" }
func gte(field string) string { return "filters[" + field + "][$gte]" }
func lte(field string) string { return "filters[" + field + "][$lte]" }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ProductListQuery compiles a normalized filter. Absent fields never become
// constraints.
func ProductListQuery(f product.Filter) Query {
	var q Query
	q.Set(paramPopulate, strings.Join(listingPopulate, ","))

	if f.Query != nil {
		q.Set(containsi("title"), *f.Query)
	}
	if f.Format != nil {
		q.Set(relationEq("format"), strconv.Itoa(*f.Format))
	}
	if f.Genre != nil {
		q.Set(relationEq("genre"), strconv.Itoa(*f.Genre))
	}
	if f.MinPrice != nil {
		q.Set(gte("price"), formatFloat(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		q.Set(lte("price"), formatFloat(*f.MaxPrice))
	}
	return q
}

func ProductBySlugQuery(slug string) Query {
	var q Query
	q.Set(paramPopulate, strings.Join(listingPopulate, ","))
	q.Set(eq("slug"), slug)
	return q
}

// PriceRangeQuery requests only the price field of a bounded sample, with no
// population.
func PriceRangeQuery() Query {
	var q Query
	q.Set(paramFields, "price")
	q.Set(paramLimit, strconv.Itoa(PriceSampleLimit))
	return q
}

func SuggestionQuery(text string, limit int) Query {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	var q Query
	q.Set(paramLimit, strconv.Itoa(limit))
	if text = strings.TrimSpace(text); text != "" {
		q.Set(containsi("title"), text)
	}
	return q
}

// CollectionQuery is the generic listing used by batch fetches. Zero values
// are left out.
func CollectionQuery(populate []string, limit int) Query {
	var q Query
	if len(populate) > 0 {
		q.Set(paramPopulate, strings.Join(populate, ","))
	}
	if limit > 0 {
		q.Set(paramLimit, strconv.Itoa(limit))
	}
	return q
}
