// Package filtersync keeps the storefront filter inputs and the listing URL
// in step: edits update local state at once, text and price edits are
// debounced, and a navigation carries only the parameters that differ from
// their defaults.
package filtersync

import (
	"strconv"

	"recordshop-be/internal/catalog"
	"recordshop-be/internal/product"
)

// All is the dropdown value meaning "no constraint".
const All Selection = "all"

// Selection is a dropdown value: All or a numeric id.
type Selection string

func SelectionOf(id *int) Selection {
	if id == nil {
		return All
	}
	return Selection(strconv.Itoa(*id))
}

// ID returns nil for All and for values that are not positive ids.
func (s Selection) ID() *int {
	if s == All {
		return nil
	}
	n, err := strconv.Atoi(string(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

type State struct {
	Search string
	Format Selection
	Genre  Selection
	Price  [2]float64
}

// NewState seeds the inputs from the filters the server echoed back. Absent
// price bounds start at the catalog-wide range.
func NewState(initial catalog.Filters, pr product.PriceRange) State {
	return State{
		Search: initial.Query,
		Format: SelectionOf(initial.Format),
		Genre:  SelectionOf(initial.Genre),
		Price:  initialPrice(initial, pr),
	}
}

func initialPrice(f catalog.Filters, pr product.PriceRange) [2]float64 {
	p := [2]float64{pr.Min, pr.Max}
	if f.MinPrice != nil {
		p[0] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		p[1] = *f.MaxPrice
	}
	return p
}

type EditKind uint8

const (
	EditSearch EditKind = iota
	EditFormat
	EditGenre
	EditPrice
)

type Edit struct {
	Kind      EditKind
	Text      string
	Selection Selection
	Price     [2]float64
}

func SetSearch(text string) Edit { return Edit{Kind: EditSearch, Text: text} }
func SetFormat(sel Selection) Edit { return Edit{Kind: EditFormat, Selection: sel} }
func SetGenre(sel Selection) Edit { return Edit{Kind: EditGenre, Selection: sel} }
func SetPrice(low, high float64) Edit { return Edit{Kind: EditPrice, Price: [2]float64{low, high}} }

// Apply is the pure transition from one input state to the next. A reversed
// price interval is swapped; an empty selection means All.
func Apply(s State, e Edit) State {
	switch e.Kind {
	case EditSearch:
		s.Search = e.Text
	case EditFormat:
		s.Format = normalizeSelection(e.Selection)
	case EditGenre:
		s.Genre = normalizeSelection(e.Selection)
	case EditPrice:
		p := e.Price
		if p[0] > p[1] {
			p[0], p[1] = p[1], p[0]
		}
		s.Price = p
	}
	return s
}

func normalizeSelection(sel Selection) Selection {
	if sel == "" {
		return All
	}
	return sel
}
