package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestScheduler(interval time.Duration) *Scheduler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewScheduler(interval, log)
}

func TestWatch_RegistersAndReplaces(t *testing.T) {
	s := newTestScheduler(time.Minute)

	var first, second int32
	if err := s.Watch("AAPL", func(context.Context) { atomic.AddInt32(&first, 1) }); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := s.Watch("AAPL", func(context.Context) { atomic.AddInt32(&second, 1) }); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if got := len(s.Cron.Entries()); got != 1 {
		t.Errorf("expected 1 cron entry after replace, got %d", got)
	}
	if !s.Trigger("AAPL") {
		t.Fatal("expected trigger to run")
	}
	if first != 0 || second != 1 {
		t.Errorf("expected only the replacement to run, got first=%d second=%d", first, second)
	}
}

func TestUnwatch_CancelsContext(t *testing.T) {
	s := newTestScheduler(time.Minute)

	var captured context.Context
	s.Watch("EUR/USD", func(ctx context.Context) { captured = ctx })
	s.Trigger("EUR/USD")
	if captured == nil || captured.Err() != nil {
		t.Fatal("expected a live context while watched")
	}

	if !s.Unwatch("EUR/USD") {
		t.Fatal("expected unwatch to report a removed key")
	}
	if captured.Err() == nil {
		t.Error("expected context to be cancelled after unwatch")
	}
	if s.Watching("EUR/USD") || s.Trigger("EUR/USD") {
		t.Error("expected key to be gone")
	}
	if s.Unwatch("EUR/USD") {
		t.Error("expected second unwatch to be a no-op")
	}
	if got := len(s.Cron.Entries()); got != 0 {
		t.Errorf("expected no cron entries, got %d", got)
	}
}

func TestKeys_Sorted(t *testing.T) {
	s := newTestScheduler(time.Minute)
	for _, k := range []string{"TSLA", "AAPL", "stock:MSFT"} {
		s.Watch(k, func(context.Context) {})
	}
	got := s.Keys()
	want := []string{"AAPL", "TSLA", "stock:MSFT"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestScheduler_FiresPeriodically(t *testing.T) {
	s := newTestScheduler(time.Second)
	var runs int32
	s.Watch("IBM", func(context.Context) { atomic.AddInt32(&runs, 1) })
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&runs) > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("expected the job to fire within 3s")
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := newTestScheduler(time.Second)
	var after int32
	s.Watch("BAD", func(context.Context) { panic("boom") })
	s.Watch("GOOD", func(context.Context) { atomic.AddInt32(&after, 1) })
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&after) > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("expected healthy job to keep running next to a panicking one")
}

func TestStop_CancelsAll(t *testing.T) {
	s := newTestScheduler(time.Minute)
	var ctxs []context.Context
	for _, k := range []string{"A", "B"} {
		s.Watch(k, func(ctx context.Context) { ctxs = append(ctxs, ctx) })
		s.Trigger(k)
	}
	s.Start()
	s.Stop()

	for i, ctx := range ctxs {
		if ctx.Err() == nil {
			t.Errorf("expected context %d to be cancelled", i)
		}
	}
	if len(s.Keys()) != 0 {
		t.Errorf("expected no keys after stop, got %v", s.Keys())
	}
}

func TestNewScheduler_DefaultInterval(t *testing.T) {
	if got := newTestScheduler(0).Interval; got != DefaultInterval {
		t.Errorf("expected %v, got %v", DefaultInterval, got)
	}
}
