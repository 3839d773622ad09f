// Package dedup coalesces identical backend reads. At most one producer runs
// per key at a time, and its settled result (value or error) is shared with
// every caller until the entry's TTL runs out.
package dedup

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Auth modes that take part in the key
const (
	ModeToken = "token"
	ModeKey   = "key"
)

// Producer performs the underlying call
type Producer func(ctx context.Context) ([]byte, error)

// Key builds the cache key for an action. Scope is any entity-scoping
// parameter (topic id, status filter) and may be empty.
func Key(action, scope, mode string) string {
	return action + "|" + scope + "|" + mode
}

type entry struct {
	val     []byte
	err     error
	expires time.Time
}

// Deduplicator is safe for concurrent use
type Deduplicator struct {
	group singleflight.Group

	mu      sync.Mutex
	settled map[string]entry
	// inflight maps a key to the generation of its current producer run.
	// A run stores its result only while its generation is still current.
	inflight map[string]uint64
	gen      uint64

	now     func() time.Time
	metrics metrics.Recorder
}

// Option configures a Deduplicator
type Option func(*Deduplicator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(d *Deduplicator) { d.now = now }
}

// WithMetrics records hit/miss counts
func WithMetrics(r metrics.Recorder) Option {
	return func(d *Deduplicator) { d.metrics = r }
}

// New creates an empty Deduplicator
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{
		settled:  make(map[string]entry),
		inflight: make(map[string]uint64),
		now:      time.Now,
		metrics:  metrics.Nop{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Do returns the cached result for key, joins an in-flight call for key, or
// runs produce. With force set the cache is bypassed entirely: produce runs
// and its result is neither looked up nor stored.
//
// produce runs detached from ctx cancellation; a caller whose ctx ends
// stops waiting but the call itself completes for the other waiters.
func (d *Deduplicator) Do(ctx context.Context, key string, ttl time.Duration, force bool, produce Producer) ([]byte, error) {
	action := actionOf(key)
	if force {
		d.metrics.RecordDedup(action, false)
		return produce(ctx)
	}

	if e, ok := d.lookup(key); ok {
		d.metrics.RecordDedup(action, true)
		return e.val, e.err
	}

	detached := context.WithoutCancel(ctx)
	ch := d.group.DoChan(key, func() (interface{}, error) {
		// a flight that just finished may have stored between lookup and here
		if e, ok := d.lookup(key); ok {
			return e.val, e.err
		}

		d.mu.Lock()
		d.gen++
		gen := d.gen
		d.inflight[key] = gen
		d.mu.Unlock()

		val, err := produce(detached)

		d.mu.Lock()
		if cur, ok := d.inflight[key]; ok && cur == gen {
			delete(d.inflight, key)
			d.settled[key] = entry{val: val, err: err, expires: d.now().Add(ttl)}
		}
		d.mu.Unlock()

		return val, err
	})

	select {
	case res := <-ch:
		d.metrics.RecordDedup(action, res.Shared)
		val, _ := res.Val.([]byte)
		return val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Deduplicator) lookup(key string) (entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sweepLocked()
	e, ok := d.settled[key]
	return e, ok
}

func (d *Deduplicator) sweepLocked() {
	now := d.now()
	for k, e := range d.settled {
		if !now.Before(e.expires) {
			delete(d.settled, k)
		}
	}
}

// Invalidate drops every settled entry for the given actions and detaches
// their in-flight calls, so the next call for any of their keys starts a
// fresh request.
func (d *Deduplicator) Invalidate(actions ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, action := range actions {
		prefix := action + "|"
		for k := range d.settled {
			if strings.HasPrefix(k, prefix) {
				delete(d.settled, k)
			}
		}
		for k := range d.inflight {
			if strings.HasPrefix(k, prefix) {
				delete(d.inflight, k)
				d.group.Forget(k)
			}
		}
	}
}

// Reset clears all entries
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for k := range d.inflight {
		d.group.Forget(k)
	}
	d.settled = make(map[string]entry)
	d.inflight = make(map[string]uint64)
}

// Len reports how many settled entries are retained, after evicting expired ones
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sweepLocked()
	return len(d.settled)
}

func actionOf(key string) string {
	if i := strings.IndexByte(key, '|'); i >= 0 {
		return key[:i]
	}
	return key
}
