package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/catalog/internal/logger"
)

// DefaultProbeTimeout bounds a single scheduled ping.
const DefaultProbeTimeout = 5 * time.Second

// scheduleParser accepts five-field expressions and descriptors such as @hourly.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Pinger is anything that can report whether its backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Result is the outcome of one probe run.
type Result struct {
	CheckedAt time.Time
	Latency   time.Duration
	Err       error
}

// OK reports whether the probe reached the store.
func (r Result) OK() bool { return r.Err == nil }

// StoreProbe pings the document store on a cron schedule and keeps the
// last result for the health endpoint.
type StoreProbe struct {
	store    Pinger
	schedule string
	timeout  time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	resultMu sync.RWMutex
	last     *Result
}

// NewStoreProbe creates a probe. The schedule uses the five-field cron format
// or a descriptor.
func NewStoreProbe(store Pinger, schedule string) *StoreProbe {
	return &StoreProbe{
		store:    store,
		schedule: schedule,
		timeout:  DefaultProbeTimeout,
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// ValidateSchedule checks a five-field cron expression or descriptor.
func ValidateSchedule(schedule string) error {
	if _, err := scheduleParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// Start schedules the probe and runs it once immediately. The probe stops
// when ctx is cancelled or Stop is called.
func (p *StoreProbe) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return nil
	}

	if err := ValidateSchedule(p.schedule); err != nil {
		return err
	}

	var cancelCtx context.Context
	cancelCtx, p.cancelFunc = context.WithCancel(ctx)

	entryID, err := p.cron.AddFunc(p.schedule, func() {
		p.RunOnce(cancelCtx)
	})
	if err != nil {
		p.cancelFunc()
		return fmt.Errorf("failed to schedule store probe: %w", err)
	}
	p.entryID = entryID

	p.cron.Start()
	p.isRunning = true

	log := logger.Get()
	log.Info().Str("schedule", p.schedule).Msg("Store probe: started")

	go p.RunOnce(cancelCtx)
	go func() {
		<-cancelCtx.Done()
		p.Stop()
	}()

	return nil
}

// Stop waits for a running probe to finish and stops the schedule.
func (p *StoreProbe) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	ctx := p.cron.Stop()
	<-ctx.Done()
	p.cron.Remove(p.entryID)

	p.cancelFunc()
	p.cancelFunc = nil
	p.isRunning = false

	log := logger.Get()
	log.Info().Msg("Store probe: stopped")
}

// IsRunning returns whether the probe is scheduled.
func (p *StoreProbe) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// NextRun returns when the probe fires next, or nil when it is not running.
func (p *StoreProbe) NextRun() *time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.isRunning {
		return nil
	}
	for _, entry := range p.cron.Entries() {
		if entry.ID == p.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunOnce pings the store and records the result.
func (p *StoreProbe) RunOnce(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.store.Ping(ctx)
	result := Result{CheckedAt: start, Latency: time.Since(start), Err: err}

	log := logger.Get()
	if err != nil {
		log.Error().Err(err).Dur("latency", result.Latency).Msg("Store probe: ping failed")
	} else {
		log.Debug().Dur("latency", result.Latency).Msg("Store probe: ok")
	}

	p.resultMu.Lock()
	p.last = &result
	p.resultMu.Unlock()

	return result
}

// LastResult returns the most recent result. The boolean is false until
// the first run completes.
func (p *StoreProbe) LastResult() (Result, bool) {
	p.resultMu.RLock()
	defer p.resultMu.RUnlock()

	if p.last == nil {
		return Result{}, false
	}
	return *p.last, true
}
