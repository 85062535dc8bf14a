package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period a query must survive before it is searched.
const DefaultDebounce = 300 * time.Millisecond

// SearchFunc runs one search. It should honour ctx cancellation.
type SearchFunc[R any] func(ctx context.Context, query string) ([]R, error)

// SearchSession debounces queries and applies only the response of the latest one.
// Each Submit bumps a generation counter; a response from an older generation is dropped.
type SearchSession[R any] struct {
	debounce time.Duration
	search   SearchFunc[R]
	log      logrus.FieldLogger

	mu      sync.Mutex
	gen     uint64
	query   string
	results []R
	loading bool
	err     error
	timer   *time.Timer
	cancel  context.CancelFunc
}

func NewSearchSession[R any](debounce time.Duration, search SearchFunc[R], log logrus.FieldLogger) *SearchSession[R] {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &SearchSession[R]{debounce: debounce, search: search, log: log, results: []R{}}
}

// Submit records query and schedules a search after the debounce period,
// superseding any pending or in-flight search. A blank query clears the results.
func (s *SearchSession[R]) Submit(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersede()
	s.query = query
	s.err = nil
	if strings.TrimSpace(query) == "" {
		s.results = []R{}
		s.loading = false
		return
	}

	gen := s.gen
	s.loading = true
	s.timer = time.AfterFunc(s.debounce, func() { s.run(gen, query) })
}

// Clear resets the session and drops any pending search.
func (s *SearchSession[R]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersede()
	s.query = ""
	s.results = []R{}
	s.loading = false
	s.err = nil
}

// supersede invalidates earlier generations. Must be called with mu held.
func (s *SearchSession[R]) supersede() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *SearchSession[R]) run(gen uint64, query string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	results, err := s.search(ctx, query)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.WithField("query", query).Debug("discarding superseded search response")
		return
	}
	s.cancel = nil
	s.loading = false
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("search failed")
		s.err = err
		s.results = []R{}
		return
	}
	if results == nil {
		results = []R{}
	}
	s.results = results
}

// Query returns the last submitted query.
func (s *SearchSession[R]) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the results of the latest completed search.
func (s *SearchSession[R]) Results() []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]R, len(s.results))
	copy(out, s.results)
	return out
}

// Loading reports whether a search is pending or in flight.
func (s *SearchSession[R]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the failure of the latest search, if any.
func (s *SearchSession[R]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
