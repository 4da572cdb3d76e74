package router

import (
	"context"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-errors/errors"
	"github.com/xlnfinance/xln-sub004/rdb"
)

type PreflightState int

const (
	PreflightIdle PreflightState = iota
	PreflightRequesting
	PreflightWaiting
	PreflightRechecking
	PreflightResolved
	PreflightExhausted
)

func (s PreflightState) String() string {
	switch s {
	case PreflightIdle:
		return "idle"
	case PreflightRequesting:
		return "requesting"
	case PreflightWaiting:
		return "waiting"
	case PreflightRechecking:
		return "rechecking"
	case PreflightResolved:
		return "resolved"
	case PreflightExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Timer is the part of *time.Timer the preflight loop needs.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

type Clock interface {
	NewTimer(d time.Duration) Timer
}

type systemClock struct{}

type systemTimer struct {
	t *time.Timer
}

func (systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{t: time.NewTimer(d)}
}

func (t systemTimer) C() <-chan time.Time {
	return t.t.C
}

func (t systemTimer) Stop() bool {
	return t.t.Stop()
}

// KeyDirectory resolves routing keys, local state first and gossip second.
type KeyDirectory struct {
	local  map[rdb.EntityId]string
	gossip map[rdb.EntityId]string
}

func NewKeyDirectory(local *rdb.LocalState, profiles []*rdb.Profile) *KeyDirectory {
	d := &KeyDirectory{
		local:  make(map[rdb.EntityId]string),
		gossip: make(map[rdb.EntityId]string),
	}

	if local != nil {
		for _, entity := range local.Entities {
			if entity.RoutingKey != "" {
				d.local[rdb.Canonical(entity.Entity)] = entity.RoutingKey
			}
		}
	}

	for _, profile := range profiles {
		if profile != nil && profile.RoutingKey != "" {
			d.gossip[rdb.Canonical(profile.Entity)] = profile.RoutingKey
		}
	}

	return d
}

func (d *KeyDirectory) Resolve(id rdb.EntityId) (string, bool) {
	if key, ok := d.local[id]; ok {
		return key, true
	}
	key, ok := d.gossip[id]
	return key, ok
}

func (d *KeyDirectory) missing(ids []rdb.EntityId) []rdb.EntityId {
	var missing []rdb.EntityId
	for _, id := range ids {
		if _, ok := d.Resolve(id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Preflight makes sure a routing key is known for the recipient and every
// intermediary of the candidate routes. Missing keys trigger metadata
// refreshes with backoff until they show up or the attempts run out.
type Preflight struct {
	source    Source
	refresher Refresher
	clock     Clock
	logger    Logger
	config    PreflightConfig
	observe   func(state PreflightState, attempt int)
}

func newPreflight(config *Config, logger Logger) *Preflight {
	p := &Preflight{
		source:    config.Source,
		refresher: config.Refresher,
		clock:     config.Clock,
		logger:    logger,
		config:    config.Preflight,
		observe:   config.PreflightObserver,
	}

	if p.clock == nil {
		p.clock = systemClock{}
	}
	if p.config == (PreflightConfig{}) {
		p.config = DefaultPreflightConfig()
	}
	if p.config.Multiplier < 1 {
		p.config.Multiplier = 1
	}

	return p
}

func (p *Preflight) transition(state PreflightState, attempt int) {
	p.logger.Debugf("Preflight %v (attempt %v/%v)", state, attempt, p.config.Attempts)
	if p.observe != nil {
		p.observe(state, attempt)
	}
}

func (p *Preflight) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.InitialBackoff
	b.MaxInterval = p.config.MaxBackoff
	b.Multiplier = p.config.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Validate returns the routes whose keys are all resolvable. It fails with
// rdb.MissingKeysError when the recipient stays unresolved or no route is
// left after the attempts are exhausted.
func (p *Preflight) Validate(ctx context.Context, directory *KeyDirectory, routes []*rdb.Route) ([]*rdb.Route, error) {
	p.transition(PreflightIdle, 0)

	missing := directory.missing(requiredKeys(routes))
	if len(missing) == 0 {
		p.transition(PreflightResolved, 0)
		return routes, nil
	}

	b := p.newBackOff()
	attempt := 0

	for attempt < p.config.Attempts {
		attempt++

		p.transition(PreflightRequesting, attempt)
		if p.refresher != nil {
			if err := p.refresher.RequestRefresh(ctx, missing); err != nil {
				p.logger.Warnf("Could not request refresh for %v entities: %v", len(missing), err)
			}
		}

		p.transition(PreflightWaiting, attempt)
		if err := p.wait(ctx, b.NextBackOff()); err != nil {
			return nil, err
		}

		p.transition(PreflightRechecking, attempt)
		refreshed, err := p.reload()
		if err != nil {
			p.logger.Warnf("Could not reload keys: %v", err)
		} else {
			directory = refreshed
		}

		missing = directory.missing(missing)
		if len(missing) == 0 {
			p.transition(PreflightResolved, attempt)
			return routes, nil
		}
	}

	p.transition(PreflightExhausted, attempt)

	unresolved := make(map[rdb.EntityId]bool, len(missing))
	for _, id := range missing {
		unresolved[id] = true
	}

	var covered []*rdb.Route
	for _, route := range routes {
		if routeCovered(route, unresolved) {
			covered = append(covered, route)
		}
	}

	if len(covered) == 0 {
		return nil, rdb.MissingKeysError{Entities: missing, Attempts: attempt}
	}

	p.logger.Infof("Dropped %v routes through entities without routing keys", len(routes)-len(covered))

	return covered, nil
}

func (p *Preflight) reload() (*KeyDirectory, error) {
	if p.source == nil {
		return nil, errors.New("No source to reload keys from")
	}
	local, err := p.source.LocalState()
	if err != nil {
		return nil, err
	}
	profiles, err := p.source.Profiles()
	if err != nil {
		return nil, err
	}
	return NewKeyDirectory(local, profiles), nil
}

func (p *Preflight) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

// requiredKeys lists the recipient and every intermediary, sorted.
func requiredKeys(routes []*rdb.Route) []rdb.EntityId {
	set := make(map[rdb.EntityId]struct{})
	for _, route := range routes {
		for _, id := range keyedEntities(route) {
			set[id] = struct{}{}
		}
	}

	ids := make([]rdb.EntityId, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func keyedEntities(route *rdb.Route) []rdb.EntityId {
	ids := append([]rdb.EntityId(nil), route.Path.Intermediaries()...)
	// We don't need our own key to pay ourselves.
	if !route.SelfPayment() {
		ids = append(ids, route.Destination())
	}
	return ids
}

func routeCovered(route *rdb.Route, unresolved map[rdb.EntityId]bool) bool {
	for _, id := range keyedEntities(route) {
		if unresolved[id] {
			return false
		}
	}
	return true
}
