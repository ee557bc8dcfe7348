package cart

import "recordshop-be/internal/product"

// Item is one cart line. ID mirrors the product id.
type Item struct {
	ID       int             `json:"id"`
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (i Item) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// snapshot is the persisted layout.
type snapshot struct {
	Items []Item `json:"items"`
}
