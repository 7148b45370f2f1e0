package commands

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/beacon/internal/core/config"
	"github.com/colonyops/beacon/internal/core/notify"
	"github.com/colonyops/beacon/internal/core/validate"
	"github.com/colonyops/beacon/internal/overlay"
)

// Scenario is the JSON input for `beacon simulate -f`.
type Scenario struct {
	Step          config.Duration `json:"step"`
	Steps         int             `json:"steps"`
	MaxToasts     int             `json:"max_toasts"`
	UnloadAtStep  int             `json:"unload_at_step"`
	UnloadPattern string          `json:"unload_pattern"`
	Notifications []ScenarioEntry `json:"notifications"`
}

// Validate reports every invalid field in the scenario at once.
func (s Scenario) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if s.Step <= 0 {
		errs = errs.Append("step", fmt.Errorf("must be greater than zero"))
	}
	if s.UnloadPattern != "" && s.UnloadAtStep < 1 {
		errs = errs.Append("unload_at_step", fmt.Errorf("must be at least 1 when unload_pattern is set"))
	}

	checks := []error{errs.ToError()}
	if s.UnloadPattern != "" {
		checks = append(checks, validate.OwnerPatternField("unload_pattern", s.UnloadPattern))
	}
	for i, e := range s.Notifications {
		checks = append(checks, validate.NotificationTypeField(fmt.Sprintf("notifications[%d].type", i), e.Type))
	}
	return criterio.ValidateStruct(checks...)
}

// ScenarioEntry describes one notification created by the simulation.
type ScenarioEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Owner   string `json:"owner"`

	// Hard is "" for the overlay default, "never", or a duration from creation.
	Hard       string          `json:"hard"`
	Initial    config.Duration `json:"initial"`
	Persistent bool            `json:"persistent"`
	Extend     config.Duration `json:"extend"`
	Clicks     int             `json:"clicks"`
}

// SimResult is what a simulation run produced.
type SimResult struct {
	Dismissed []notify.Record
	Live      int
	Clicks    int64
	Unloaded  int
	Elapsed   time.Duration
}

// ByReason counts dismissals per reason.
func (r SimResult) ByReason() map[notify.DismissReason]int {
	out := make(map[notify.DismissReason]int)
	for _, rec := range r.Dismissed {
		out[rec.Reason]++
	}
	return out
}

// simClock is a manually advanced clock shared by every notification in a run.
type simClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *simClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *simClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// recordingStore collects dismissals and forwards them to an optional inner store.
type recordingStore struct {
	inner notify.Store

	mu      sync.Mutex
	records []notify.Record
}

func (s *recordingStore) Save(ctx context.Context, r notify.Record) error {
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()

	if s.inner == nil {
		return nil
	}
	return s.inner.Save(ctx, r)
}

func (s *recordingStore) List(ctx context.Context) ([]notify.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Record, len(s.records))
	for i, r := range s.records {
		out[len(s.records)-1-i] = r
	}
	return out, nil
}

func (s *recordingStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}

func (s *recordingStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

func (s *recordingStore) snapshot() []notify.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Record, len(s.records))
	copy(out, s.records)
	return out
}

// DefaultScenario builds count notifications spread across three plugins.
// Every fifth one is persistent and every third one is extended once.
func DefaultScenario(count int, step time.Duration, steps int) Scenario {
	types := []string{"info", "success", "warning", "error"}

	sc := Scenario{
		Step:  config.Duration(step),
		Steps: steps,
	}
	for i := range count {
		e := ScenarioEntry{
			Title:   fmt.Sprintf("notification %d", i+1),
			Content: "simulated",
			Type:    types[i%len(types)],
			Owner:   fmt.Sprintf("plugin-%d", i%3),
			Clicks:  i % 2,
		}
		if i%5 == 4 {
			e.Persistent = true
		}
		if i%3 == 2 {
			e.Extend = config.Duration(2 * time.Second)
		}
		sc.Notifications = append(sc.Notifications, e)
	}
	return sc
}

// Simulate creates every scenario notification concurrently with at most
// workers goroutines, then advances a simulated clock by sc.Step until the
// stack is empty or sc.Steps is reached.
func Simulate(ctx context.Context, sc Scenario, opts overlay.Options, workers int, store notify.Store, logger zerolog.Logger) (SimResult, error) {
	if err := sc.Validate(); err != nil {
		return SimResult{}, fmt.Errorf("invalid scenario: %w", err)
	}
	if sc.MaxToasts > 0 {
		opts.MaxToasts = sc.MaxToasts
	}

	// Seeded from the wall clock so each run's records are distinct in history.
	start := time.Now()
	clock := &simClock{now: start}
	opts.Clock = clock.Now

	rec := &recordingStore{inner: store}
	mgr := overlay.NewManager(opts, rec, logger)

	entries := make([]parsedEntry, len(sc.Notifications))
	for i, e := range sc.Notifications {
		p, err := parseEntry(e)
		if err != nil {
			return SimResult{}, fmt.Errorf("notification %d: %w", i, err)
		}
		entries[i] = p
	}

	var clicks atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return addEntry(mgr, clock, e, &clicks)
		})
	}
	if err := g.Wait(); err != nil {
		return SimResult{}, fmt.Errorf("create notifications: %w", err)
	}

	var unloaded int
	for step := 1; step <= sc.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return SimResult{}, err
		}

		mgr.Tick(clock.Advance(sc.Step.Std()))

		if sc.UnloadPattern != "" && step == sc.UnloadAtStep {
			n, err := mgr.Unload(sc.UnloadPattern)
			if err != nil {
				return SimResult{}, err
			}
			unloaded = n
		}

		if len(mgr.Live()) == 0 && step >= sc.UnloadAtStep {
			break
		}
	}

	return SimResult{
		Dismissed: rec.snapshot(),
		Live:      len(mgr.Live()),
		Clicks:    clicks.Load(),
		Unloaded:  unloaded,
		Elapsed:   clock.Now().Sub(start),
	}, nil
}

type parsedEntry struct {
	base   notify.Notification
	hard   time.Duration
	never  bool
	useDef bool
	extend time.Duration
	clicks int
}

func parseEntry(e ScenarioEntry) (parsedEntry, error) {
	p := parsedEntry{
		base: notify.Notification{
			Title:           e.Title,
			Content:         e.Content,
			Type:            parseType(e.Type),
			Owner:           e.Owner,
			InitialDuration: e.Initial.Std(),
			NoAutoExpiry:    e.Persistent,
			UserDismissable: true,
		},
		extend: e.Extend.Std(),
		clicks: e.Clicks,
	}

	switch e.Hard {
	case "":
		p.useDef = true
	case "never":
		p.never = true
	default:
		d, err := config.ParseDurationField("hard", e.Hard)
		if err != nil {
			return parsedEntry{}, err
		}
		p.hard = d
	}

	return p, nil
}

func parseType(s string) notify.Type {
	if s == "" {
		return notify.TypeInfo
	}
	return notify.Type(s)
}

func addEntry(mgr *overlay.Manager, clock *simClock, e parsedEntry, clicks *atomic.Int64) error {
	var n *notify.Active
	switch {
	case e.useDef:
		n = mgr.Add(e.base)
	case e.never:
		n = mgr.AddWithExpiry(e.base, notify.Never)
	default:
		n = mgr.AddWithExpiry(e.base, clock.Now().Add(e.hard))
	}

	n.OnClick(e.base.Owner, func(notify.ClickArgs) { clicks.Add(1) })

	if e.extend > 0 {
		if err := n.ExtendBy(e.extend); err != nil {
			return err
		}
	}
	for range e.clicks {
		n.Click()
	}
	return nil
}
