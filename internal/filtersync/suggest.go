package filtersync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"recordshop-be/internal/logger"
	"recordshop-be/internal/product"

	"go.uber.org/zap"
)

const (
	// MinQueryLength is the shortest query that is sent to the server.
	MinQueryLength = 2

	SuggestPath = "/search/suggest"

	keySuggest = "suggest"
)

type SuggestionSource interface {
	Suggestions(ctx context.Context, q string) ([]product.Suggestion, error)
}

// Suggester fetches autocomplete results for the latest query only. A newer
// query cancels the in-flight fetch, and results of a cancelled fetch are
// dropped.
type Suggester struct {
	src      SuggestionSource
	debounce *Debouncer
	onUpdate func([]product.Suggestion)

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	results []product.Suggestion
	wg      sync.WaitGroup
}

// NewSuggester debounces queries on sched. onUpdate, when set, receives every
// accepted result set.
func NewSuggester(src SuggestionSource, sched Scheduler, onUpdate func([]product.Suggestion)) *Suggester {
	return &Suggester{
		src:      src,
		debounce: NewDebouncer(sched, DefaultDelay),
		onUpdate: onUpdate,
		results:  []product.Suggestion{},
	}
}

func (s *Suggester) Results() []product.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Suggestion{}, s.results...)
}

// Query schedules a fetch for q. Queries shorter than MinQueryLength clear
// the results right away without fetching.
func (s *Suggester) Query(ctx context.Context, q string) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		s.debounce.Cancel(keySuggest)
		s.mu.Lock()
		s.seq++
		s.cancelLocked()
		s.results = []product.Suggestion{}
		s.mu.Unlock()
		s.notify([]product.Suggestion{})
		return
	}

	s.debounce.Trigger(keySuggest, func() { s.fetch(ctx, q) })
}

func (s *Suggester) fetch(parent context.Context, q string) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	s.cancelLocked()
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		out, err := s.src.Suggestions(ctx, q)

		s.mu.Lock()
		if seq != s.seq || ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		s.cancel = nil
		if err != nil {
			s.mu.Unlock()
			logger.Component(parent, "filtersync").Debug("suggestion fetch failed",
				zap.String("query", q),
				zap.Error(err),
			)
			return
		}
		if out == nil {
			out = []product.Suggestion{}
		}
		s.results = out
		s.mu.Unlock()

		s.notify(out)
	}()
}

func (s *Suggester) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Suggester) notify(out []product.Suggestion) {
	if s.onUpdate != nil {
		s.onUpdate(out)
	}
}

// Close cancels pending and in-flight fetches and waits for them to finish.
func (s *Suggester) Close() {
	s.debounce.Stop()
	s.mu.Lock()
	s.seq++
	s.cancelLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

// HTTPSuggestionSource calls the storefront suggestion endpoint.
type HTTPSuggestionSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSuggestionSource(baseURL string, timeout time.Duration) *HTTPSuggestionSource {
	return &HTTPSuggestionSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Suggestions returns an empty list for non-2xx answers. Transport and
// decode failures are errors.
func (h *HTTPSuggestionSource) Suggestions(ctx context.Context, q string) ([]product.Suggestion, error) {
	target := h.BaseURL + SuggestPath + "?" + url.Values{product.ParamQuery: {q}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build suggestion request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return []product.Suggestion{}, nil
	}

	var out []product.Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return []product.Suggestion{}, nil
		}
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	if out == nil {
		out = []product.Suggestion{}
	}
	return out, nil
}
