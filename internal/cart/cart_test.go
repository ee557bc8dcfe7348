package cart

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"recordshop-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func record(id int, price float64, stock int) product.Product {
	return product.Product{ID: id, Slug: "record-" + strconv.Itoa(id), Title: "Record", Price: price, Stock: stock}
}

// --- Tests ---

func TestCart_Add(t *testing.T) {
	t.Run("New line then increments", func(t *testing.T) {
		c := New()
		p := record(1, 24.99, 2)

		require.NoError(t, c.Add(p))
		require.NoError(t, c.Add(p))

		assert.Equal(t, 2, c.Quantity(1))
		assert.Len(t, c.Items(), 1)
	})

	t.Run("Refuses beyond stock", func(t *testing.T) {
		c := New()
		p := record(1, 24.99, 1)

		require.NoError(t, c.Add(p))
		assert.ErrorIs(t, c.Add(p), ErrInsufficientStock)
		assert.Equal(t, 1, c.Quantity(1))
	})

	t.Run("Sold out", func(t *testing.T) {
		c := New()

		assert.ErrorIs(t, c.Add(record(1, 10, 0)), ErrInsufficientStock)
		assert.ErrorIs(t, c.Add(record(2, 10, -3)), ErrInsufficientStock)
		assert.Empty(t, c.Items())
	})
}

func TestCart_UpdateQuantity(t *testing.T) {
	setup := func() *Cart {
		c := New()
		require.NoError(t, c.Add(record(1, 10, 5)))
		require.NoError(t, c.Add(record(2, 20, 1)))
		return c
	}

	t.Run("Within stock", func(t *testing.T) {
		c := setup()
		require.NoError(t, c.UpdateQuantity(1, 5))
		assert.Equal(t, 5, c.Quantity(1))
	})

	t.Run("Beyond stock", func(t *testing.T) {
		c := setup()
		assert.ErrorIs(t, c.UpdateQuantity(1, 6), ErrInsufficientStock)
		assert.Equal(t, 1, c.Quantity(1))
	})

	t.Run("Zero removes", func(t *testing.T) {
		c := setup()
		require.NoError(t, c.UpdateQuantity(2, 0))
		assert.Zero(t, c.Quantity(2))
		assert.Len(t, c.Items(), 1)
	})

	t.Run("Unknown item", func(t *testing.T) {
		c := setup()
		assert.ErrorIs(t, c.UpdateQuantity(99, 1), ErrItemNotFound)
		assert.NoError(t, c.UpdateQuantity(99, -1), "removing an absent line is a no-op")
	})
}

func TestCart_Totals(t *testing.T) {
	c := New()
	assert.Zero(t, c.Total())
	assert.Zero(t, c.ItemCount())

	require.NoError(t, c.Add(record(1, 10.5, 5)))
	require.NoError(t, c.UpdateQuantity(1, 3))
	require.NoError(t, c.Add(record(2, 20, 1)))

	assert.InDelta(t, 51.5, c.Total(), 1e-9)
	assert.Equal(t, 4, c.ItemCount())

	c.Remove(1)
	assert.InDelta(t, 20, c.Total(), 1e-9)

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Zero(t, c.ItemCount())
}

func TestCart_Items_IsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(record(1, 10, 5)))

	items := c.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, c.Quantity(1))
}

func TestCart_Persistence(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add(record(1, 10, 5)))
		require.NoError(t, c.Add(record(2, 20, 5)))
		require.NoError(t, c.UpdateQuantity(2, 3))

		var buf bytes.Buffer
		require.NoError(t, c.Save(&buf))
		assert.True(t, strings.HasPrefix(buf.String(), `{"items":[`))

		restored := New()
		require.NoError(t, restored.Load(&buf))
		assert.Equal(t, c.Items(), restored.Items())
	})

	t.Run("Empty cart", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New().Save(&buf))
		assert.JSONEq(t, `{"items":[]}`, buf.String())

		c := New()
		require.NoError(t, c.Load(strings.NewReader("")))
		assert.Empty(t, c.Items())
	})

	t.Run("Clamps to stock and drops sold out lines", func(t *testing.T) {
		c := New()
		err := c.Load(strings.NewReader(`{"items":[
			{"id":1,"product":{"id":1,"price":10,"stock":2},"quantity":5},
			{"id":2,"product":{"id":2,"price":10,"stock":0},"quantity":1}
		]}`))

		require.NoError(t, err)
		assert.Equal(t, 2, c.Quantity(1))
		assert.Zero(t, c.Quantity(2))
		assert.Len(t, c.Items(), 1)
	})

	t.Run("Rejects bad data", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add(record(1, 10, 5)))

		assert.ErrorIs(t, c.Load(strings.NewReader(`{"items":[{"id":1,"product":{"id":1,"stock":3},"quantity":0}]}`)), ErrInvalidQuantity)
		assert.ErrorIs(t, c.Load(strings.NewReader(`{"items":[
			{"id":1,"product":{"id":1,"stock":3},"quantity":1},
			{"id":1,"product":{"id":1,"stock":3},"quantity":1}
		]}`)), ErrCorruptCart)
		assert.ErrorIs(t, c.Load(strings.NewReader(`not json`)), ErrCorruptCart)

		assert.Equal(t, 1, c.Quantity(1), "failed loads leave the cart untouched")
	})
}
