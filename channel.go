package eventbus

import "slices"

// channel owns the registration-ordered subscription list for exactly one
// type key. All mutation happens under the owning bus mutex.
type channel struct {
	typ  Type
	subs []*Subscription
}

func (c *channel) append(sub *Subscription) {
	c.subs = append(c.subs, sub)
}

func (c *channel) remove(sub *Subscription) {
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// snapshot returns a stable copy of the handle list for one publish pass,
// so cancellation during iteration cannot skip or double-invoke neighbors.
func (c *channel) snapshot() []*Subscription {
	return slices.Clone(c.subs)
}

func (c *channel) activeCount() int {
	n := 0
	for _, s := range c.subs {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// typeRegistry maps a type key to its single delivery channel. Channels are
// created lazily on first publish or subscribe and stay allocated, possibly
// empty, until the bus is cleared. It never fails, it only allocates.
// All methods assume the bus mutex is held.
type typeRegistry struct {
	channels map[Type]*channel
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{channels: make(map[Type]*channel)}
}

func (r *typeRegistry) getOrCreate(t Type) *channel {
	if ch, ok := r.channels[t]; ok {
		return ch
	}
	ch := &channel{typ: t}
	r.channels[t] = ch
	return ch
}

func (r *typeRegistry) get(t Type) *channel {
	return r.channels[t]
}

func (r *typeRegistry) len() int {
	return len(r.channels)
}

func (r *typeRegistry) types() []Type {
	keys := make([]Type, 0, len(r.channels))
	for t := range r.channels {
		keys = append(keys, t)
	}
	slices.Sort(keys)
	return keys
}
