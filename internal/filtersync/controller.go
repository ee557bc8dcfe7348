package filtersync

import (
	"context"
	"maps"
	"sync"

	"recordshop-be/internal/catalog"
	"recordshop-be/internal/logger"
	"recordshop-be/internal/product"

	"go.uber.org/zap"
)

const (
	ListingPath = "/products"

	keySearch = "search"
	keyPrice  = "price"
)

type NavOptions struct {
	PreserveScroll bool
	PreserveState  bool
	Replace        bool
}

// listingNav keeps scroll position and replaces the history entry, so
// filter edits do not pile up in back-navigation.
var listingNav = NavOptions{PreserveScroll: true, PreserveState: true, Replace: true}

type Navigator interface {
	Navigate(path string, params map[string]string, opts NavOptions)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string, params map[string]string, opts NavOptions)

func (f NavigatorFunc) Navigate(path string, params map[string]string, opts NavOptions) {
	f(path, params, opts)
}

// Controller drives one listing page. Search and price edits are committed
// after the debounce delay and navigate only when the resulting parameters
// differ from the ones currently in the URL; dropdown edits navigate at
// once.
type Controller struct {
	nav        Navigator
	debounce   *Debouncer
	priceRange product.PriceRange

	mu              sync.Mutex
	state           State
	committedSearch string
	committedPrice  [2]float64
	// current holds the parameters of the page on screen: the loaded
	// filters until the first navigation, then the last one sent.
	current map[string]string
}

func NewController(initial catalog.Filters, pr product.PriceRange, nav Navigator, sched Scheduler) *Controller {
	s := NewState(initial, pr)
	c := &Controller{
		nav:             nav,
		debounce:        NewDebouncer(sched, DefaultDelay),
		priceRange:      pr,
		state:           s,
		committedSearch: s.Search,
		committedPrice:  s.Price,
	}
	c.current = c.paramsLocked()
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	c.state = Apply(c.state, SetSearch(text))
	c.mu.Unlock()

	c.debounce.Trigger(keySearch, func() { c.commitSearch(text) })
}

func (c *Controller) SetPrice(low, high float64) {
	c.mu.Lock()
	c.state = Apply(c.state, SetPrice(low, high))
	price := c.state.Price
	c.mu.Unlock()

	c.debounce.Trigger(keyPrice, func() { c.commitPrice(price) })
}

func (c *Controller) SetFormat(sel Selection) {
	c.mu.Lock()
	c.state = Apply(c.state, SetFormat(sel))
	params := c.paramsLocked()
	c.current = params
	c.mu.Unlock()

	c.navigate(params)
}

func (c *Controller) SetGenre(sel Selection) {
	c.mu.Lock()
	c.state = Apply(c.state, SetGenre(sel))
	params := c.paramsLocked()
	c.current = params
	c.mu.Unlock()

	c.navigate(params)
}

// Close drops pending commits.
func (c *Controller) Close() {
	c.debounce.Stop()
}

func (c *Controller) commitSearch(text string) {
	c.mu.Lock()
	c.committedSearch = text
	params, changed := c.advanceLocked()
	c.mu.Unlock()

	if changed {
		c.navigate(params)
	}
}

func (c *Controller) commitPrice(price [2]float64) {
	c.mu.Lock()
	c.committedPrice = price
	params, changed := c.advanceLocked()
	c.mu.Unlock()

	if changed {
		c.navigate(params)
	}
}

// advanceLocked recomputes the parameters and records them as current when
// they differ from the page on screen. Callers hold c.mu.
func (c *Controller) advanceLocked() (map[string]string, bool) {
	params := c.paramsLocked()
	if maps.Equal(params, c.current) {
		return params, false
	}
	c.current = params
	return params, true
}

// paramsLocked resolves committed search and price with the current
// dropdowns. Callers hold c.mu.
func (c *Controller) paramsLocked() map[string]string {
	low, high := c.committedPrice[0], c.committedPrice[1]
	return BuildParams(Resolved{
		Query:    c.committedSearch,
		Format:   c.state.Format.ID(),
		Genre:    c.state.Genre.ID(),
		MinPrice: &low,
		MaxPrice: &high,
	}, c.priceRange)
}

func (c *Controller) navigate(params map[string]string) {
	logger.Component(context.Background(), "filtersync").Debug("navigating",
		zap.String("path", ListingPath),
		zap.Any("params", params),
	)
	c.nav.Navigate(ListingPath, params, listingNav)
}
