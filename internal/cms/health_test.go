package cms

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Run("Starts available", func(t *testing.T) {
		h := NewHealth()
		s := h.Snapshot()
		assert.True(t, h.Available())
		assert.True(t, s.Available)
		assert.Nil(t, s.LastFailureAt)
		assert.Nil(t, s.LastSuccessAt)
	})

	t.Run("Statuses do not flip availability", func(t *testing.T) {
		h := NewHealth()
		h.recordStatus(http.StatusOK)
		h.recordStatus(http.StatusBadGateway)

		s := h.Snapshot()
		assert.True(t, s.Available)
		assert.Equal(t, http.StatusBadGateway, s.LastStatus)
		assert.NotNil(t, s.LastSuccessAt)
	})

	t.Run("Failure is sticky", func(t *testing.T) {
		h := NewHealth()
		h.markUnavailable(errors.New("dial tcp: connection refused"))
		h.recordStatus(http.StatusOK)

		s := h.Snapshot()
		assert.False(t, s.Available)
		assert.Equal(t, "dial tcp: connection refused", s.LastError)
		require.NotNil(t, s.LastFailureAt)
	})

	t.Run("Concurrent access", func(t *testing.T) {
		h := NewHealth()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				h.recordStatus(http.StatusOK)
			}()
			go func() {
				defer wg.Done()
				_ = h.Available()
				_ = h.Snapshot()
			}()
		}
		wg.Wait()
		assert.True(t, h.Available())
	})
}

func TestVerb(t *testing.T) {
	assert.Equal(t, http.MethodGet, verbGet.String())
	assert.False(t, verbGet.spec().withBody)
	assert.True(t, verbPost.spec().withBody)
	assert.True(t, verbPut.spec().withBody)
	assert.False(t, verbDelete.spec().withBody)
}
