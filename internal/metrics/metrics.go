package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value atomic.Uint64
}

func (c *Counter) Inc() {
	c.value.Add(1)
}

func (c *Counter) Load() uint64 {
	return c.value.Load()
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Gateway counts outbound CMS calls by outcome.
type Gateway struct {
	Requests          Counter
	TransportFailures Counter
	StatusErrors      Counter
	DecodeErrors      Counter
}

type GatewaySnapshot struct {
	Requests          uint64 `json:"requests"`
	TransportFailures uint64 `json:"transport_failures"`
	StatusErrors      uint64 `json:"status_errors"`
	DecodeErrors      uint64 `json:"decode_errors"`
}

func (g *Gateway) Snapshot() GatewaySnapshot {
	return GatewaySnapshot{
		Requests:          g.Requests.Load(),
		TransportFailures: g.TransportFailures.Load(),
		StatusErrors:      g.StatusErrors.Load(),
		DecodeErrors:      g.DecodeErrors.Load(),
	}
}
