package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the refresh period used when none is configured.
const DefaultInterval = 30 * time.Second

// Job refreshes one entity. ctx is cancelled when the entity is unwatched or the scheduler stops;
// jobs must discard their result once ctx is done.
type Job func(ctx context.Context)

type registration struct {
	id     cron.EntryID
	job    Job
	ctx    context.Context
	cancel context.CancelFunc
}

// Scheduler runs one periodic refresh per watched entity.
type Scheduler struct {
	Cron     *cron.Cron
	Interval time.Duration
	Log      logrus.FieldLogger

	mu      sync.Mutex
	entries map[string]*registration
}

// NewScheduler creates a scheduler that fires every interval.
// Panicking jobs are recovered and overlapping runs of the same job are skipped.
func NewScheduler(interval time.Duration, log logrus.FieldLogger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cron.PrintfLogger(log)
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Interval: interval,
		Log:      log,
		entries:  map[string]*registration{},
	}
}

// Watch registers job under key, replacing any job already registered for it.
func (s *Scheduler) Watch(key string, job Job) error {
	ctx, cancel := context.WithCancel(context.Background())
	reg := &registration{job: job, ctx: ctx, cancel: cancel}

	id, err := s.Cron.AddFunc(fmt.Sprintf("@every %s", s.Interval), func() {
		if ctx.Err() != nil {
			return
		}
		job(ctx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("register refresh for %s: %w", key, err)
	}
	reg.id = id

	s.mu.Lock()
	old := s.entries[key]
	s.entries[key] = reg
	s.mu.Unlock()

	if old != nil {
		s.drop(old)
	}
	s.Log.WithFields(logrus.Fields{"key": key, "interval": s.Interval}).Debug("refresh scheduled")
	return nil
}

// Unwatch removes the job for key and cancels its context. It reports whether key was watched.
func (s *Scheduler) Unwatch(key string) bool {
	s.mu.Lock()
	reg, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if !ok {
		return false
	}
	s.drop(reg)
	s.Log.WithField("key", key).Debug("refresh cancelled")
	return true
}

func (s *Scheduler) drop(reg *registration) {
	reg.cancel()
	s.Cron.Remove(reg.id)
}

// Watching reports whether key has a registered job.
func (s *Scheduler) Watching(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Keys returns the watched keys in sorted order.
func (s *Scheduler) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Trigger runs the job for key immediately on the calling goroutine.
func (s *Scheduler) Trigger(key string) bool {
	s.mu.Lock()
	reg, ok := s.entries[key]
	s.mu.Unlock()

	if !ok || reg.ctx.Err() != nil {
		return false
	}
	reg.job(reg.ctx)
	return true
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.WithField("interval", s.Interval).Info("refresh scheduler started")
}

// Stop cancels every job context, then waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	entries := s.entries
	s.entries = map[string]*registration{}
	s.mu.Unlock()

	for _, reg := range entries {
		s.drop(reg)
	}
	<-s.Cron.Stop().Done()
	s.Log.Info("refresh scheduler stopped")
}
