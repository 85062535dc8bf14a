package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/model"
	"MarketDashboard/internal/storage"
)

// Persistence keys of the two watchlists.
const (
	StockKey = "stock-watchlist"
	ForexKey = "forex-watchlist"
)

const saveTimeout = 5 * time.Second

// List is an ordered, duplicate-free watchlist that writes its full snapshot
// to a Store after every effective mutation.
type List[T comparable] struct {
	mu    sync.Mutex
	items []T
	key   string
	store storage.Store
	log   logrus.FieldLogger

	subMu  sync.Mutex
	subs   map[int]func([]T)
	nextID int
}

// Stocks is the equity watchlist.
type Stocks = List[string]

// Pairs is the currency-pair watchlist.
type Pairs = List[model.PairKey]

// Open loads the snapshot stored under key. A missing snapshot yields an empty list;
// an unreadable or corrupt one is logged and also yields an empty list.
func Open[T comparable](ctx context.Context, store storage.Store, key string, log logrus.FieldLogger) *List[T] {
	l := &List[T]{
		items: []T{},
		key:   key,
		store: store,
		log:   log.WithField("watchlist", key),
		subs:  map[int]func([]T){},
	}

	data, err := store.Load(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return l
	case err != nil:
		l.log.WithError(err).Error("failed to load watchlist, starting empty")
		return l
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		l.log.WithError(model.Fault(model.KindPersistence, "load watchlist", err)).Error("corrupt watchlist snapshot, starting empty")
		return l
	}
	for _, it := range items {
		if !contains(l.items, it) {
			l.items = append(l.items, it)
		}
	}
	return l
}

// OpenStocks opens the equity watchlist.
func OpenStocks(ctx context.Context, store storage.Store, log logrus.FieldLogger) *Stocks {
	return Open[string](ctx, store, StockKey, log)
}

// OpenPairs opens the currency-pair watchlist.
func OpenPairs(ctx context.Context, store storage.Store, log logrus.FieldLogger) *Pairs {
	return Open[model.PairKey](ctx, store, ForexKey, log)
}

func contains[T comparable](items []T, x T) bool {
	for _, it := range items {
		if it == x {
			return true
		}
	}
	return false
}

// Add appends x unless it is already present. It reports whether the list changed.
func (l *List[T]) Add(x T) bool {
	l.mu.Lock()
	if contains(l.items, x) {
		l.mu.Unlock()
		return false
	}
	l.items = append(l.items, x)
	snap := l.snapshot()
	l.save(snap)
	l.mu.Unlock()

	l.notify(snap)
	return true
}

// Remove deletes x. Removing an absent item is a no-op and reports false.
func (l *List[T]) Remove(x T) bool {
	l.mu.Lock()
	idx := -1
	for i, it := range l.items {
		if it == x {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	snap := l.snapshot()
	l.save(snap)
	l.mu.Unlock()

	l.notify(snap)
	return true
}

func (l *List[T]) Contains(x T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return contains(l.items, x)
}

// Items returns a copy of the entries in insertion order.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Subscribe registers fn to receive the new snapshot after each change.
// The returned function unregisters it.
func (l *List[T]) Subscribe(fn func([]T)) (cancel func()) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	return func() {
		l.subMu.Lock()
		defer l.subMu.Unlock()
		delete(l.subs, id)
	}
}

// snapshot must be called with mu held.
func (l *List[T]) snapshot() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// save is best-effort: failures are logged and the in-memory list stays authoritative.
func (l *List[T]) save(items []T) {
	data, err := json.Marshal(items)
	if err != nil {
		l.log.WithError(err).Error("failed to encode watchlist")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := l.store.Save(ctx, l.key, data); err != nil {
		l.log.WithError(err).Error("failed to persist watchlist")
	}
}

func (l *List[T]) notify(items []T) {
	l.subMu.Lock()
	fns := make([]func([]T), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.subMu.Unlock()

	for _, fn := range fns {
		fn(items)
	}
}
