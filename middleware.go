package eventbus

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Middleware wraps a Handler with additional behavior. Middleware runs
// only for deliveries that reach the handle: paused or canceled handles
// are skipped before the chain is entered.
type Middleware func(Handler) Handler

// KeyFunc derives a deduplication key from an event. Return "" to exempt
// an event from deduplication.
type KeyFunc func(Event) string

// DedupStore remembers recently seen deduplication keys.
type DedupStore interface {
	// Seen reports whether key was marked within the store's TTL window.
	Seen(key string) bool

	// Mark records key as seen.
	Mark(key string)
}

// lruDedupStore is a bounded in-memory DedupStore. Expiry is lazy: entries
// older than ttl read as unseen, and capacity is enforced by LRU eviction
// rather than a background sweep.
type lruDedupStore struct {
	entries *lru.Cache[string, time.Time]
	ttl     time.Duration
	clock   clock.Clock
}

// DefaultDedupStoreSize bounds the dedup store when size is not positive.
var DefaultDedupStoreSize = 1024

// NewDedupStore creates an LRU-backed dedup store.
// size: maximum number of remembered keys (default: DefaultDedupStoreSize)
// ttl: how long a key stays seen (default: 1 hour)
func NewDedupStore(size int, ttl time.Duration) DedupStore {
	if size <= 0 {
		size = DefaultDedupStoreSize
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	entries, _ := lru.New[string, time.Time](size)
	return &lruDedupStore{
		entries: entries,
		ttl:     ttl,
		clock:   clock.New(),
	}
}

func (s *lruDedupStore) Seen(key string) bool {
	markedAt, ok := s.entries.Get(key)
	if !ok {
		return false
	}
	if s.clock.Now().Sub(markedAt) > s.ttl {
		s.entries.Remove(key)
		return false
	}
	return true
}

func (s *lruDedupStore) Mark(key string) {
	s.entries.Add(key, s.clock.Now())
}

// Dedup suppresses repeat deliveries of events sharing a key within the
// store's TTL window. UI layers commonly double-fire (route re-entry,
// focus churn); dedup keeps handlers idempotent without per-handler
// bookkeeping. A key is marked only after the handler succeeds, so a
// failed delivery can be retried by republishing.
//
// Example:
//
//	store := eventbus.NewDedupStore(1024, time.Minute)
//	bus.Subscribe(RouteOpened, handler, eventbus.WithMiddleware(
//	    eventbus.Dedup(store, func(ev eventbus.Event) string {
//	        return ev.(RouteEvent).Path
//	    })))
func Dedup(store DedupStore, key KeyFunc) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, ev Event) error {
			k := key(ev)
			if k == "" {
				return next(ctx, ev)
			}
			if store.Seen(k) {
				ContextLogger(ctx).Debug("skipping duplicate event",
					"event", ev.EventType(), "key", k)
				return nil
			}
			err := next(ctx, ev)
			if err == nil {
				store.Mark(k)
			}
			return err
		}
	}
}

// Throttle samples high-frequency events through a token bucket: events
// arriving above the configured rate are dropped for this subscription,
// not queued. Dropping is success from the publisher's point of view.
//
// Example:
//
//	// at most 10 repaints per second, bursts of 2
//	bus.Subscribe(StateChanged, handler, eventbus.WithMiddleware(
//	    eventbus.Throttle(rate.NewLimiter(10, 2))))
func Throttle(limiter *rate.Limiter) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, ev Event) error {
			if !limiter.Allow() {
				ContextLogger(ctx).Debug("throttled event",
					"event", ev.EventType(),
					"subscription", ContextSubscriptionID(ctx))
				return nil
			}
			return next(ctx, ev)
		}
	}
}
