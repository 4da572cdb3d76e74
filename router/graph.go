package router

import (
	"sort"

	"github.com/xlnfinance/xln-sub004/rdb"
)

// Graph is the undirected adjacency view of the network for one token.
// It is immutable once built.
type Graph struct {
	token     rdb.TokenId
	adjacency map[rdb.EntityId]map[rdb.EntityId]struct{}
	display   map[rdb.EntityId]string
	accounts  map[rdb.AccountKey]struct{}
}

// BuildGraph merges locally replicated accounts and gossiped profiles into
// one adjacency structure. Every reported account is added in both
// directions, whether or not the counterparty confirms it. Accounts with no
// capacity for token on the reporting side are left out.
func BuildGraph(token rdb.TokenId, local *rdb.LocalState, profiles []*rdb.Profile) *Graph {
	g := &Graph{
		token:     token,
		adjacency: make(map[rdb.EntityId]map[rdb.EntityId]struct{}),
		display:   make(map[rdb.EntityId]string),
		accounts:  make(map[rdb.AccountKey]struct{}),
	}

	if local != nil {
		for _, entity := range local.Entities {
			g.addReported(entity.Entity, entity.Accounts)
		}
	}

	for _, profile := range profiles {
		if profile == nil {
			continue
		}
		g.addReported(profile.Entity, profile.Accounts)
	}

	return g
}

func (g *Graph) addReported(rawOwner string, accounts []*rdb.Account) {
	owner := g.remember(rawOwner)
	if owner == "" {
		return
	}

	for _, account := range accounts {
		if account == nil {
			continue
		}
		capacity, ok := account.Tokens[g.token]
		if !ok || capacity.Empty() {
			continue
		}

		counterparty := g.remember(account.Counterparty)
		if counterparty == "" || counterparty == owner {
			continue
		}

		g.link(owner, counterparty)
		g.link(counterparty, owner)
		g.accounts[rdb.NewAccountKey(owner, counterparty)] = struct{}{}
	}
}

// remember canonicalizes raw and keeps the first display form seen for it.
func (g *Graph) remember(raw string) rdb.EntityId {
	id := rdb.Canonical(raw)
	if id == "" {
		return ""
	}
	if _, ok := g.display[id]; !ok {
		g.display[id] = raw
	}
	return id
}

func (g *Graph) link(from, to rdb.EntityId) {
	neighbors, ok := g.adjacency[from]
	if !ok {
		neighbors = make(map[rdb.EntityId]struct{})
		g.adjacency[from] = neighbors
	}
	neighbors[to] = struct{}{}
}

func (g *Graph) Token() rdb.TokenId {
	return g.token
}

func (g *Graph) HasEntity(id rdb.EntityId) bool {
	_, ok := g.adjacency[id]
	return ok
}

// Neighbors returns the sorted neighbors of id.
func (g *Graph) Neighbors(id rdb.EntityId) []rdb.EntityId {
	neighbors := make([]rdb.EntityId, 0, len(g.adjacency[id]))
	for neighbor := range g.adjacency[id] {
		neighbors = append(neighbors, neighbor)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	return neighbors
}

// Display returns id as it was first written in the reports.
func (g *Graph) Display(id rdb.EntityId) string {
	if raw, ok := g.display[id]; ok {
		return raw
	}
	return string(id)
}

func (g *Graph) EntityCount() int {
	return len(g.adjacency)
}

func (g *Graph) AccountCount() int {
	return len(g.accounts)
}
