package app

import (
	"context"
	"sync"
	"time"

	"github.com/five82/porch/internal/logs"
	"github.com/five82/porch/internal/state"
	"github.com/five82/porch/internal/timers"
)

const (
	// TriggerDebounce drops manual triggers that follow the previous one
	// too closely.
	TriggerDebounce = 2 * time.Second
	// DefaultGateEvery is the cadence of integration status checks.
	DefaultGateEvery = 5 * time.Minute
)

// FetchFunc retrieves a full replacement payload for one domain.
type FetchFunc func(ctx context.Context) (any, error)

// CheckFunc asks an integration whether it is connected. idle is the
// payload to show while it is not.
type CheckFunc func(ctx context.Context) (idle any, connected bool, err error)

// LostFunc inspects a failed gated fetch. lost reports that the error
// means the integration itself went away; idle then replaces the payload.
type LostFunc func(err error) (idle any, lost bool)

// GateSpec describes a poll that only runs while an integration is
// connected.
type GateSpec struct {
	Every    time.Duration // status check cadence
	Check    CheckFunc
	Interval time.Duration // data poll cadence while connected
	Fetch    FetchFunc
	Lost     LostFunc
}

type job struct {
	interval time.Duration
	fetch    FetchFunc
	gate     *GateSpec
}

// Poller runs one independent repeating fetch per domain and hands every
// result to the store. Runs are fire-and-forget goroutines; overlapping
// runs are ordered by the store's timestamp check.
type Poller struct {
	ctx    context.Context
	store  *state.Store
	timers *timers.Scheduler
	now    func() time.Time

	mu          sync.Mutex
	jobs        map[state.Domain]*job
	lastTrigger map[state.Domain]time.Time
	inflight    sync.WaitGroup
}

// NewPoller returns a poller whose runs use ctx.
func NewPoller(ctx context.Context, store *state.Store, sched *timers.Scheduler) *Poller {
	return &Poller{
		ctx:         ctx,
		store:       store,
		timers:      sched,
		now:         time.Now,
		jobs:        make(map[state.Domain]*job),
		lastTrigger: make(map[state.Domain]time.Time),
	}
}

func pollTimer(d state.Domain) string { return "poll:" + string(d) }
func gateTimer(d state.Domain) string { return "gate:" + string(d) }

// Schedule fetches d now and then every interval, replacing any earlier
// job for d.
func (p *Poller) Schedule(d state.Domain, interval time.Duration, fetch FetchFunc) {
	if fetch == nil || interval <= 0 {
		return
	}
	p.mu.Lock()
	p.jobs[d] = &job{interval: interval, fetch: fetch}
	p.mu.Unlock()
	p.timers.Cancel(gateTimer(d))
	p.startPoll(d, interval, fetch)
}

// Gate checks the integration behind d now and then every spec.Every. The
// data poll for d exists only while the last check reported connected.
func (p *Poller) Gate(d state.Domain, spec GateSpec) {
	if spec.Check == nil || spec.Fetch == nil || spec.Interval <= 0 {
		return
	}
	if spec.Every <= 0 {
		spec.Every = DefaultGateEvery
	}
	p.mu.Lock()
	p.jobs[d] = &job{interval: spec.Interval, fetch: spec.Fetch, gate: &spec}
	p.mu.Unlock()
	p.timers.Cancel(pollTimer(d))
	p.timers.Every(gateTimer(d), spec.Every, func() { p.spawn(func() { p.check(d, spec, false) }) })
	p.spawn(func() { p.check(d, spec, false) })
}

// Unschedule removes every timer for d. Runs already in flight complete.
func (p *Poller) Unschedule(d state.Domain) {
	p.mu.Lock()
	delete(p.jobs, d)
	p.mu.Unlock()
	p.timers.Cancel(pollTimer(d))
	p.timers.Cancel(gateTimer(d))
}

// Trigger runs d's job now and restarts its interval. It reports false when
// d has no job or was triggered within TriggerDebounce.
func (p *Poller) Trigger(d state.Domain) bool {
	p.mu.Lock()
	j, ok := p.jobs[d]
	if !ok || !p.admit(d) {
		p.mu.Unlock()
		return false
	}
	p.mu.Unlock()

	if j.gate != nil {
		spec := *j.gate
		p.timers.Every(gateTimer(d), spec.Every, func() { p.spawn(func() { p.check(d, spec, false) }) })
		p.spawn(func() { p.check(d, spec, true) })
		return true
	}
	p.startPoll(d, j.interval, j.fetch)
	return true
}

// TriggerAll triggers every scheduled domain and reports how many ran.
func (p *Poller) TriggerAll() int {
	n := 0
	for _, d := range p.Domains() {
		if p.Trigger(d) {
			n++
		}
	}
	if n > 0 {
		logs.Debug("manual refresh", "domains", n)
	}
	return n
}

// Run performs a single fetch for d through the same path as scheduled
// runs without touching its timers.
func (p *Poller) Run(d state.Domain, fetch FetchFunc) {
	if fetch == nil {
		return
	}
	p.spawn(func() { p.run(d, fetch, nil) })
}

// Domains returns the domains with a job, in display order.
func (p *Poller) Domains() []state.Domain {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]state.Domain, 0, len(p.jobs))
	for _, d := range state.Domains {
		if _, ok := p.jobs[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Wait blocks until every in-flight run has returned.
func (p *Poller) Wait() {
	p.inflight.Wait()
}

// admit records a trigger for d unless one happened within the debounce
// window. Callers hold p.mu.
func (p *Poller) admit(d state.Domain) bool {
	now := p.now()
	if last, ok := p.lastTrigger[d]; ok && now.Sub(last) < TriggerDebounce {
		return false
	}
	p.lastTrigger[d] = now
	return true
}

func (p *Poller) startPoll(d state.Domain, interval time.Duration, fetch FetchFunc) {
	p.timers.Every(pollTimer(d), interval, func() { p.spawn(func() { p.run(d, fetch, nil) }) })
	p.spawn(func() { p.run(d, fetch, nil) })
}

func (p *Poller) spawn(fn func()) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		fn()
	}()
}

func (p *Poller) run(d state.Domain, fetch FetchFunc, lost LostFunc) {
	if p.ctx.Err() != nil {
		return
	}
	issuedAt := p.now()
	payload, err := fetch(p.ctx)
	if err != nil {
		if p.ctx.Err() != nil {
			return
		}
		if lost != nil {
			if idle, gone := lost(err); gone {
				p.timers.Cancel(pollTimer(d))
				logs.Info("integration disconnected; polling stopped", "domain", d, "reason", err.Error())
				p.store.Update(d, idle, issuedAt)
				return
			}
		}
		logs.Error("poll failed", err, "domain", d)
		p.store.Fail(d, err)
		return
	}
	if !p.store.Update(d, payload, issuedAt) {
		logs.Debug("stale poll result dropped", "domain", d)
	}
}

// check runs one gate status check. force re-runs the data fetch even
// when the poll is already active.
func (p *Poller) check(d state.Domain, spec GateSpec, force bool) {
	if p.ctx.Err() != nil {
		return
	}
	issuedAt := p.now()
	idle, connected, err := spec.Check(p.ctx)
	if err != nil {
		if p.ctx.Err() != nil {
			return
		}
		logs.Error("status check failed", err, "domain", d)
		p.store.Fail(d, err)
		return
	}
	if !connected {
		if p.timers.Cancel(pollTimer(d)) {
			logs.Info("integration disconnected; polling stopped", "domain", d)
		}
		p.store.Update(d, idle, issuedAt)
		return
	}
	if p.timers.Active(pollTimer(d)) && !force {
		return
	}
	if !p.timers.Active(pollTimer(d)) {
		logs.Info("integration connected; polling started", "domain", d, "interval", spec.Interval)
		p.store.Update(d, idle, issuedAt)
	}
	p.timers.Every(pollTimer(d), spec.Interval, func() { p.spawn(func() { p.run(d, spec.Fetch, spec.Lost) }) })
	p.run(d, spec.Fetch, spec.Lost)
}
