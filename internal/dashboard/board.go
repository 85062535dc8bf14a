package dashboard

import (
	"sort"
	"sync"
)

type slot[V any] struct {
	value  V
	ticket uint64
}

// Board holds the latest value per entity key.
//
// Every fetch takes a ticket before it is issued. Apply accepts a result only if its
// ticket is newer than the one that produced the current value, so a slow, older
// fetch can never overwrite a newer one.
type Board[V any] struct {
	mu     sync.Mutex
	issued uint64
	slots  map[string]slot[V]

	subMu  sync.Mutex
	subs   map[int]func(key string, v V)
	nextID int
}

func NewBoard[V any]() *Board[V] {
	return &Board[V]{
		slots: map[string]slot[V]{},
		subs:  map[int]func(string, V){},
	}
}

// Ticket returns a fresh, strictly increasing ticket.
func (b *Board[V]) Ticket() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	return b.issued
}

// Apply stores v under key if ticket is newer than the stored one and reports whether it did.
func (b *Board[V]) Apply(key string, ticket uint64, v V) bool {
	b.mu.Lock()
	if cur, ok := b.slots[key]; ok && cur.ticket >= ticket {
		b.mu.Unlock()
		return false
	}
	b.slots[key] = slot[V]{value: v, ticket: ticket}
	b.mu.Unlock()

	b.notify(key, v)
	return true
}

func (b *Board[V]) Get(key string) (V, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slots[key]
	return s.value, ok
}

// Delete forgets key. Results for key already in flight are still accepted afterwards,
// so callers cancel the fetch first.
func (b *Board[V]) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots, key)
}

// Keys returns the stored keys in sorted order.
func (b *Board[V]) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.slots))
	for k := range b.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Board[V]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}

// Subscribe registers fn to be called after every applied value.
func (b *Board[V]) Subscribe(fn func(key string, v V)) (cancel func()) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Board[V]) notify(key string, v V) {
	b.subMu.Lock()
	fns := make([]func(string, V), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()

	for _, fn := range fns {
		fn(key, v)
	}
}
