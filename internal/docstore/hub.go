package docstore

import "sync"

// subscriber wraps a snapshot callback. Deliveries are serialized per
// subscriber so snapshots never arrive out of order.
type subscriber struct {
	mu sync.Mutex
	fn SnapshotFunc
}

func (s *subscriber) deliver(docs []Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn(docs)
}

// hub fans change notifications out to collection listeners.
type hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[*subscriber]struct{})}
}

func (h *hub) add(collection string, fn SnapshotFunc) *subscriber {
	sub := &subscriber{fn: fn}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[*subscriber]struct{})
	}
	h.subs[collection][sub] = struct{}{}
	return sub
}

func (h *hub) remove(collection string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[collection], sub)
}

func (h *hub) subscribers(collection string) []*subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*subscriber, 0, len(h.subs[collection]))
	for sub := range h.subs[collection] {
		out = append(out, sub)
	}
	return out
}
