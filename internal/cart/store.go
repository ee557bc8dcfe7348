package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"recordshop-be/internal/logger"

	"go.uber.org/zap"
)

// Save writes the cart as {"items":[...]}.
func (c *Cart) Save(w io.Writer) error {
	snap := snapshot{Items: c.Items()}
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Load replaces the cart contents with a saved snapshot. An empty reader
// leaves an empty cart. Lines with a non-positive quantity are rejected;
// lines over the product's stock are clamped to it or dropped when it is
// sold out.
func (c *Cart) Load(r io.Reader) error {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			c.Clear()
			return nil
		}
		return fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}

	items := make([]Item, 0, len(snap.Items))
	seen := make(map[int]struct{}, len(snap.Items))
	for _, it := range snap.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has quantity %d", ErrInvalidQuantity, it.ID, it.Quantity)
		}
		it.ID = it.Product.ID
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate item %d", ErrCorruptCart, it.ID)
		}
		seen[it.ID] = struct{}{}

		if stock := max(it.Product.Stock, 0); it.Quantity > stock {
			logger.L().Warn("stored cart quantity exceeds stock",
				zap.Int("product_id", it.ID),
				zap.Int("quantity", it.Quantity),
				zap.Int("stock", stock),
			)
			if stock == 0 {
				continue
			}
			it.Quantity = stock
		}
		items = append(items, it)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}
