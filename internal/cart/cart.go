package cart

import (
	"sync"

	"recordshop-be/internal/product"
)

// Cart is the shopper's in-memory cart. Quantities never exceed the stock
// recorded on the product when it was added.
type Cart struct {
	mu    sync.RWMutex
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add puts one more unit of p in the cart.
func (c *Cart) Add(p product.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(p.ID)
	current := 0
	if idx >= 0 {
		current = c.items[idx].Quantity
	}
	if !product.WithinStock(current+1, p.Stock) {
		return ErrInsufficientStock
	}

	if idx >= 0 {
		c.items[idx].Quantity++
		return nil
	}
	c.items = append(c.items, Item{ID: p.ID, Product: p, Quantity: 1})
	return nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line.
func (c *Cart) UpdateQuantity(id, qty int) error {
	if qty <= 0 {
		c.Remove(id)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	if !product.WithinStock(qty, c.items[idx].Product.Stock) {
		return ErrInsufficientStock
	}
	c.items[idx].Quantity = qty
	return nil
}

func (c *Cart) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexLocked(id); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Item{}, c.items...)
}

func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sum float64
	for _, it := range c.items {
		sum += it.Subtotal()
	}
	return sum
}

// ItemCount is the number of units, not lines.
func (c *Cart) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Quantity(id int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexLocked(id); idx >= 0 {
		return c.items[idx].Quantity
	}
	return 0
}

func (c *Cart) indexLocked(id int) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
