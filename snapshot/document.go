package snapshot

import (
	"time"

	"github.com/pkg/errors"
	"github.com/xlnfinance/xln-sub004/rdb"
)

// document is the on-disk YAML layout of a network snapshot.
type document struct {
	Local    []localDoc   `yaml:"local"`
	Profiles []profileDoc `yaml:"profiles"`
}

type localDoc struct {
	Entity     string       `yaml:"entity"`
	RoutingKey string       `yaml:"routing_key"`
	Accounts   []accountDoc `yaml:"accounts"`
}

type profileDoc struct {
	Entity       string                `yaml:"entity"`
	Name         string                `yaml:"name"`
	RoutingKey   string                `yaml:"routing_key"`
	Policy       *policyDoc            `yaml:"policy"`
	PeerPolicies map[string]*policyDoc `yaml:"peer_policies"`
	Accounts     []accountDoc          `yaml:"accounts"`
	UpdatedAt    time.Time             `yaml:"updated_at"`
}

type accountDoc struct {
	Counterparty string                 `yaml:"counterparty"`
	Tokens       map[uint32]capacityDoc `yaml:"tokens"`
}

type capacityDoc struct {
	Out string `yaml:"out"`
	In  string `yaml:"in"`
}

type policyDoc struct {
	BaseFee     string    `yaml:"base_fee"`
	FeePPM      uint32    `yaml:"fee_ppm"`
	Utilization *curveDoc `yaml:"utilization"`
}

type curveDoc struct {
	StepBps uint32 `yaml:"step_bps"`
	StepPct uint32 `yaml:"step_pct"`
	MaxPct  uint32 `yaml:"max_pct"`
}

// state is the validated form of a document. It is never mutated.
type state struct {
	local    *rdb.LocalState
	profiles []*rdb.Profile
	loadedAt time.Time
}

func (d *document) validate() (*state, error) {
	s := &state{local: &rdb.LocalState{}}

	for i, l := range d.Local {
		if rdb.Canonical(l.Entity) == "" {
			return nil, errors.Errorf("local entity #%v has no id", i)
		}
		accounts, err := convertAccounts(l.Accounts)
		if err != nil {
			return nil, errors.Wrapf(err, "local entity %v", l.Entity)
		}
		s.local.Entities = append(s.local.Entities, &rdb.LocalEntity{
			Entity:     l.Entity,
			RoutingKey: l.RoutingKey,
			Accounts:   accounts,
		})
	}

	for i, p := range d.Profiles {
		if rdb.Canonical(p.Entity) == "" {
			return nil, errors.Errorf("profile #%v has no entity", i)
		}
		profile, err := p.convert()
		if err != nil {
			return nil, errors.Wrapf(err, "profile %v", p.Entity)
		}
		s.profiles = append(s.profiles, profile)
	}

	return s, nil
}

func (p *profileDoc) convert() (*rdb.Profile, error) {
	accounts, err := convertAccounts(p.Accounts)
	if err != nil {
		return nil, err
	}

	profile := &rdb.Profile{
		Entity:     p.Entity,
		Name:       p.Name,
		RoutingKey: p.RoutingKey,
		Accounts:   accounts,
		UpdatedAt:  p.UpdatedAt,
	}

	if p.Policy != nil {
		if profile.Policy, err = p.Policy.convert(); err != nil {
			return nil, errors.Wrap(err, "policy")
		}
	}

	if len(p.PeerPolicies) > 0 {
		profile.PeerPolicies = make(map[string]*rdb.FeePolicy, len(p.PeerPolicies))
		for peer, doc := range p.PeerPolicies {
			if doc == nil {
				continue
			}
			policy, err := doc.convert()
			if err != nil {
				return nil, errors.Wrapf(err, "policy towards %v", peer)
			}
			profile.PeerPolicies[peer] = policy
		}
	}

	return profile, nil
}

func (p *policyDoc) convert() (*rdb.FeePolicy, error) {
	base, err := parseAmount(p.BaseFee)
	if err != nil {
		return nil, errors.Wrap(err, "base_fee")
	}

	policy := &rdb.FeePolicy{BaseFee: base, FeePPM: p.FeePPM}
	if c := p.Utilization; c != nil {
		policy.Utilization = &rdb.UtilizationCurve{
			StepBps:          c.StepBps,
			StepPct:          c.StepPct,
			MaxMultiplierPct: c.MaxPct,
		}
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return policy, nil
}

func convertAccounts(docs []accountDoc) ([]*rdb.Account, error) {
	accounts := make([]*rdb.Account, 0, len(docs))

	for _, doc := range docs {
		if rdb.Canonical(doc.Counterparty) == "" {
			return nil, errors.New("account without counterparty")
		}

		account := &rdb.Account{
			Counterparty: doc.Counterparty,
			Tokens:       make(map[rdb.TokenId]rdb.Capacity, len(doc.Tokens)),
		}

		for token, c := range doc.Tokens {
			out, err := parseAmount(c.Out)
			if err != nil {
				return nil, errors.Wrapf(err, "token %v out towards %v", token, doc.Counterparty)
			}
			in, err := parseAmount(c.In)
			if err != nil {
				return nil, errors.Wrapf(err, "token %v in from %v", token, doc.Counterparty)
			}
			account.Tokens[rdb.TokenId(token)] = rdb.Capacity{Out: out, In: in}
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

func parseAmount(str string) (rdb.Amount, error) {
	if str == "" {
		return rdb.Amount{}, nil
	}
	return rdb.ParseAmount(str)
}
