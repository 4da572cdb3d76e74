package router

import (
	"context"
	"sync"
	"time"

	"github.com/xlnfinance/xln-sub004/rdb"
)

const testToken = rdb.TokenId(1)

func amt(n uint64) rdb.Amount {
	return rdb.NewAmount(n)
}

func account(counterparty string, out, in uint64) *rdb.Account {
	return &rdb.Account{
		Counterparty: counterparty,
		Tokens: map[rdb.TokenId]rdb.Capacity{
			testToken: {Out: amt(out), In: amt(in)},
		},
	}
}

func profile(entity string, policy *rdb.FeePolicy, accounts ...*rdb.Account) *rdb.Profile {
	return &rdb.Profile{
		Entity:     entity,
		RoutingKey: "key-" + entity,
		Policy:     policy,
		Accounts:   accounts,
	}
}

func policy(base uint64, ppm uint32) *rdb.FeePolicy {
	return &rdb.FeePolicy{BaseFee: amt(base), FeePPM: ppm}
}

// symmetric reports every edge from both sides with the same capacity.
func symmetric(capacity uint64, edges ...[2]string) []*rdb.Profile {
	byEntity := make(map[string]*rdb.Profile)
	var order []string

	get := func(entity string) *rdb.Profile {
		if p, ok := byEntity[entity]; ok {
			return p
		}
		p := profile(entity, nil)
		byEntity[entity] = p
		order = append(order, entity)
		return p
	}

	for _, edge := range edges {
		a, b := get(edge[0]), get(edge[1])
		a.Accounts = append(a.Accounts, account(edge[1], capacity, capacity))
		b.Accounts = append(b.Accounts, account(edge[0], capacity, capacity))
	}

	profiles := make([]*rdb.Profile, len(order))
	for i, entity := range order {
		profiles[i] = byEntity[entity]
	}
	return profiles
}

func testPolicyConfig() PolicyConfig {
	return PolicyConfig{UnknownFeePPM: 1000}
}

type memorySource struct {
	mu       sync.Mutex
	local    *rdb.LocalState
	profiles []*rdb.Profile
}

func (s *memorySource) LocalState() (*rdb.LocalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local, nil
}

func (s *memorySource) Profiles() ([]*rdb.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles, nil
}

func (s *memorySource) setProfiles(profiles []*rdb.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = profiles
}

type fakeRefresher struct {
	calls     [][]rdb.EntityId
	onRefresh func(call int)
}

func (r *fakeRefresher) RequestRefresh(ctx context.Context, entities []rdb.EntityId) error {
	r.calls = append(r.calls, append([]rdb.EntityId(nil), entities...))
	if r.onRefresh != nil {
		r.onRefresh(len(r.calls))
	}
	return nil
}

// fakeClock hands out timers that fire immediately unless blocked is set.
type fakeClock struct {
	blocked bool
	waits   []time.Duration
	timers  []*fakeTimer
}

type fakeTimer struct {
	c       chan time.Time
	stopped bool
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	c.waits = append(c.waits, d)
	t := &fakeTimer{c: make(chan time.Time, 1)}
	if !c.blocked {
		t.c <- time.Time{}
	}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) C() <-chan time.Time {
	return t.c
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type recordingSubmitter struct {
	submitted []*rdb.PaymentInstruction
}

func (s *recordingSubmitter) SubmitPayment(ctx context.Context, instruction *rdb.PaymentInstruction) error {
	s.submitted = append(s.submitted, instruction)
	return nil
}
