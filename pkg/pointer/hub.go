package pointer

import (
	"sort"
	"sync"
)

// Handler receives dispatched events.
type Handler func(Event)

// Hub fans window-wide pointer events out to subscribed handlers. A Hub is scoped to one
// window; handlers see every event of their kind regardless of which widget produced it.
type Hub struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[Kind]map[uint64]Handler
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[Kind]map[uint64]Handler)}
}

// On registers fn for events of the given kind. Cancel events are delivered to Up
// handlers, so subscribing to Cancel is the same as subscribing to Up.
func (h *Hub) On(kind Kind, fn Handler) *Subscription {
	if kind == Cancel {
		kind = Up
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.handlers[kind] == nil {
		h.handlers[kind] = make(map[uint64]Handler)
	}
	h.handlers[kind][id] = fn
	return &Subscription{hub: h, kind: kind, id: id}
}

// Dispatch delivers ev to every handler subscribed to its kind, in subscription order.
// Handlers may subscribe or unsubscribe while being dispatched to.
func (h *Hub) Dispatch(ev Event) {
	kind := ev.Kind
	if kind == Cancel {
		kind = Up
	}

	h.mu.Lock()
	ids := make([]uint64, 0, len(h.handlers[kind]))
	for id := range h.handlers[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Handler, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.handlers[kind][id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Listeners returns how many handlers are subscribed to the given kind.
func (h *Hub) Listeners(kind Kind) int {
	if kind == Cancel {
		kind = Up
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers[kind])
}

func (h *Hub) remove(kind Kind, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers[kind], id)
}

// Subscription is a registered handler. Close releases it.
type Subscription struct {
	hub  *Hub
	kind Kind
	id   uint64
	once sync.Once
}

// Close unregisters the handler. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.hub.remove(s.kind, s.id)
	})
}
