package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"sync"
)

var (
	emptyList = json.RawMessage(`[]`)
	null      = json.RawMessage(`null`)
)

// BatchRequest describes one named fetch of FetchBatch.
type BatchRequest struct {
	// Resource is the collection or single type; the entry name is used when
	// empty.
	Resource string

	Populate []string
	Limit    int

	// First resolves the entry to a single item instead of a list.
	First bool
}

// BatchResult maps entry names to raw JSON: an object or null for First
// entries, the CMS data (an empty list when missing) otherwise.
type BatchResult map[string]json.RawMessage

// Decode unmarshals the named entry into v. Missing entries decode as null.
func (r BatchResult) Decode(name string, v any) error {
	raw, ok := r[name]
	if !ok {
		raw = null
	}
	return json.Unmarshal(raw, v)
}

// FetchBatch issues one request per entry. Entries run concurrently and fail
// independently: a failed entry resolves to its empty value without
// affecting the others.
func (c *Client) FetchBatch(ctx context.Context, reqs map[string]BatchRequest) BatchResult {
	out := make(BatchResult, len(reqs))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, req := range reqs {
		wg.Add(1)
		go func(name string, req BatchRequest) {
			defer wg.Done()
			v := c.fetchEntry(ctx, name, req)

			mu.Lock()
			out[name] = v
			mu.Unlock()
		}(name, req)
	}
	wg.Wait()

	return out
}

func (c *Client) fetchEntry(ctx context.Context, name string, req BatchRequest) json.RawMessage {
	resource := req.Resource
	if resource == "" {
		resource = name
	}
	path := "/api/" + url.PathEscape(resource)

	data, err := c.request(ctx, verbGet, path, CollectionQuery(req.Populate, req.Limit))
	if err != nil {
		logFailure(ctx, "batch:"+name, path, err)
	}

	if req.First {
		return firstOf(data)
	}
	if data == nil {
		return emptyList
	}
	return data
}

// firstOf returns an object as is and the first element of a list.
func firstOf(data json.RawMessage) json.RawMessage {
	if data == nil {
		return null
	}
	if !isList(data) {
		return data
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || len(items) == 0 {
		return null
	}
	return items[0]
}

func isList(data json.RawMessage) bool {
	t := bytes.TrimSpace(data)
	return len(t) > 0 && t[0] == '['
}
