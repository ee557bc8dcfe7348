package catalog

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"recordshop-be/internal/cms"
	"recordshop-be/internal/logger"
	"recordshop-be/internal/product"

	"go.uber.org/zap"
)

const (
	// MinSuggestLength is the shortest query that reaches the CMS.
	MinSuggestLength = 2

	homeFeaturedLimit = 4
)

// Gateway is the subset of the CMS client the page layer depends on.
type Gateway interface {
	ListProducts(ctx context.Context, f product.Filter) []product.Product
	GetProduct(ctx context.Context, slug string) *product.Product
	ListFormats(ctx context.Context) []product.Format
	ListGenres(ctx context.Context) []product.Genre
	GetPriceRange(ctx context.Context) product.PriceRange
	GetSuggestions(ctx context.Context, text string, limit int) []product.Product
	FetchBatch(ctx context.Context, reqs map[string]cms.BatchRequest) cms.BatchResult
	IsAvailable() bool
}

type Service interface {
	ListingPage(ctx context.Context, raw url.Values) ListingPage
	ProductPage(ctx context.Context, slug string) (*product.Product, error)
	HomePage(ctx context.Context) HomePage
	Suggest(ctx context.Context, q string) []product.Suggestion
}

type service struct {
	gw     Gateway
	facets *facetCache
}

// NewService builds the page layer. A positive facetTTL keeps formats and
// genres in memory for that long; zero fetches them on every listing.
func NewService(gw Gateway, facetTTL time.Duration) Service {
	s := &service{gw: gw}
	if facetTTL > 0 {
		s.facets = newFacetCache(facetTTL)
	}
	return s
}

func (s *service) ListingPage(ctx context.Context, raw url.Values) ListingPage {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListingPage"),
	)
	start := time.Now()

	f := product.ParseFilter(raw)
	page := ListingPage{
		Products:   s.gw.ListProducts(ctx, f),
		Formats:    s.formats(ctx),
		Genres:     s.genres(ctx),
		PriceRange: s.gw.GetPriceRange(ctx),
		Filters:    echoFilters(f),
	}
	page.CMSAvailable = s.gw.IsAvailable()

	log.Debug("listing page built",
		zap.Int("products", len(page.Products)),
		zap.Bool("filtered", !f.IsEmpty()),
		zap.Bool("cms_available", page.CMSAvailable),
		zap.Duration("duration", time.Since(start)),
	)
	return page
}

func (s *service) ProductPage(ctx context.Context, slug string) (*product.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}

	p := s.gw.GetProduct(ctx, slug)
	if p == nil {
		logger.FromCtx(ctx).Info("product not found", zap.String("slug", slug))
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) HomePage(ctx context.Context) HomePage {
	res := s.gw.FetchBatch(ctx, map[string]cms.BatchRequest{
		"hero": {
			Populate: []string{"image"},
			First:    true,
		},
		"products": {
			Populate: []string{"images"},
			Limit:    homeFeaturedLimit,
		},
	})

	log := logger.FromCtx(ctx)
	page := HomePage{Products: []product.Product{}}
	if err := res.Decode("hero", &page.Hero); err != nil {
		log.Warn("hero payload unusable", zap.Error(err))
		page.Hero = nil
	}
	if err := res.Decode("products", &page.Products); err != nil || page.Products == nil {
		if err != nil {
			log.Warn("featured products payload unusable", zap.Error(err))
		}
		page.Products = []product.Product{}
	}
	page.CMSAvailable = s.gw.IsAvailable()
	return page
}

func (s *service) Suggest(ctx context.Context, q string) []product.Suggestion {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinSuggestLength {
		return []product.Suggestion{}
	}
	return product.ToSuggestions(s.gw.GetSuggestions(ctx, q, cms.DefaultSuggestionLimit))
}

func (s *service) formats(ctx context.Context) []product.Format {
	if s.facets == nil {
		return s.gw.ListFormats(ctx)
	}
	if v, ok := s.facets.getFormats(); ok {
		return v
	}
	v := s.gw.ListFormats(ctx)
	s.facets.setFormats(v)
	return v
}

func (s *service) genres(ctx context.Context) []product.Genre {
	if s.facets == nil {
		return s.gw.ListGenres(ctx)
	}
	if v, ok := s.facets.getGenres(); ok {
		return v
	}
	v := s.gw.ListGenres(ctx)
	s.facets.setGenres(v)
	return v
}
