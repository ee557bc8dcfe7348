package product

// WithinStock reports whether qty units can be held against the given stock.
// A negative stock counts as none.
func WithinStock(qty, stock int) bool {
	if stock < 0 {
		stock = 0
	}
	return qty >= 0 && qty <= stock
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return WithinStock(1, p.Stock)
}
