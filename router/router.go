package router

import (
	"context"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/xlnfinance/xln-sub004/rdb"
)

// Source provides read-only views of the network. Implementations must not
// mutate what they returned earlier.
type Source interface {
	LocalState() (*rdb.LocalState, error)
	Profiles() ([]*rdb.Profile, error)
}

// Refresher asks the gossip transport for fresh metadata of some entities.
// It must not block until the data arrives.
type Refresher interface {
	RequestRefresh(ctx context.Context, entities []rdb.EntityId) error
}

type Router struct {
	logger                Logger
	source                Source
	submitter             Submitter
	preflight             *Preflight
	maxHops               int
	maxCandidates         int
	minLoopIntermediaries int
	policy                PolicyConfig
}

type Config struct {
	Logger    Logger
	Source    Source
	Refresher Refresher
	Submitter Submitter
	Clock     Clock

	MaxHops               int
	MaxCandidates         int
	MinLoopIntermediaries int

	Policy    PolicyConfig
	Preflight PreflightConfig

	// PreflightObserver is called on every preflight state transition.
	PreflightObserver func(state PreflightState, attempt int)
}

func NewRouter(config *Config) (*Router, error) {
	if config.Source == nil {
		return nil, errors.New("Router needs a source")
	}

	router := &Router{
		source:                config.Source,
		submitter:             config.Submitter,
		maxHops:               config.MaxHops,
		maxCandidates:         config.MaxCandidates,
		minLoopIntermediaries: config.MinLoopIntermediaries,
		policy:                config.Policy,
	}

	if config.Logger != nil {
		router.logger = config.Logger
	} else {
		router.logger = noopLogger{}
	}

	if router.maxHops <= 0 {
		router.maxHops = DefaultMaxHops
	}
	if router.maxCandidates <= 0 {
		router.maxCandidates = DefaultMaxCandidates
	}
	if router.minLoopIntermediaries <= 0 {
		router.minLoopIntermediaries = DefaultMinLoopIntermediaries
	}
	if router.policy == (PolicyConfig{}) {
		router.policy = DefaultPolicyConfig()
	}
	if router.policy.UnknownPolicy().Validate() != nil {
		return nil, errors.Errorf("Unknown hop fee rate %v ppm is out of range", router.policy.UnknownFeePPM)
	}

	router.preflight = newPreflight(config, router.logger)

	return router, nil
}

type QuoteRequest struct {
	Source        string
	Destination   string
	Token         rdb.TokenId
	Amount        rdb.Amount
	MaxHops       int
	MaxCandidates int
	Rank          RankMode
}

// Snapshot is an immutable view of both data sources taken at one point.
type Snapshot struct {
	Local    *rdb.LocalState
	Profiles []*rdb.Profile
}

func (r *Router) Snapshot() (*Snapshot, error) {
	local, err := r.source.LocalState()
	if err != nil {
		return nil, errors.Errorf("Could not get local state: %v", err)
	}

	profiles, err := r.source.Profiles()
	if err != nil {
		return nil, errors.Errorf("Could not get profiles: %v", err)
	}

	return &Snapshot{Local: local, Profiles: profiles}, nil
}

// QuoteRoutes returns priced, capacity checked and key covered routes for
// req, best first.
func (r *Router) QuoteRoutes(ctx context.Context, req *QuoteRequest) ([]*rdb.Route, error) {
	snapshot, err := r.Snapshot()
	if err != nil {
		return nil, err
	}

	routes, err := r.Quote(snapshot, req)
	if err != nil {
		return nil, err
	}

	return r.preflight.Validate(ctx, NewKeyDirectory(snapshot.Local, snapshot.Profiles), routes)
}

// Quote computes ranked routes from snapshot without any I/O.
func (r *Router) Quote(snapshot *Snapshot, req *QuoteRequest) ([]*rdb.Route, error) {
	source, destination, bounds, rank, err := r.normalize(req)
	if err != nil {
		return nil, err
	}

	graph := BuildGraph(req.Token, snapshot.Local, snapshot.Profiles)
	capacity := NewCapacityResolver(snapshot.Local, snapshot.Profiles)
	quoter := NewFeeQuoter(&r.policy, capacity, snapshot.Profiles)

	r.logger.Debugf("We've got %v entities and %v accounts for token %v",
		graph.EntityCount(), graph.AccountCount(), req.Token)

	paths := findPaths(graph, source, destination, bounds)

	r.logger.Infof("Found %v paths from %v to %v", len(paths), source.Short(), destination.Short())

	if len(paths) == 0 {
		return nil, rdb.NoRouteError{
			Source:            source,
			Destination:       destination,
			SelfPayment:       source == destination,
			MinIntermediaries: bounds.MinIntermediaries,
		}
	}

	var routes []*rdb.Route
	for i, path := range paths {
		route, err := AssembleRoute(graph, quoter, path, req.Amount)
		if err != nil {
			r.logger.Debugf("Skipping path %v/%v %v: %v", i+1, len(paths), path.Signature(), err)
			continue
		}
		routes = append(routes, route)
	}

	if len(routes) == 0 {
		return nil, rdb.NoCapacityError{Amount: req.Amount, Candidates: len(paths)}
	}

	RankRoutes(routes, rank)

	return routes, nil
}

func (r *Router) normalize(req *QuoteRequest) (rdb.EntityId, rdb.EntityId, PathBounds, RankMode, error) {
	var bounds PathBounds

	source := rdb.Canonical(req.Source)
	if source == "" {
		return "", "", bounds, "", rdb.InvalidRequestError{Field: "source", Reason: "must not be empty"}
	}

	destination := rdb.Canonical(req.Destination)
	if destination == "" {
		return "", "", bounds, "", rdb.InvalidRequestError{Field: "destination", Reason: "must not be empty"}
	}

	if req.Amount.IsZero() {
		return "", "", bounds, "", rdb.InvalidRequestError{Field: "amount", Reason: "must be positive"}
	}

	if req.MaxHops < 0 || req.MaxCandidates < 0 {
		return "", "", bounds, "", rdb.InvalidRequestError{Field: "bounds", Reason: "must not be negative"}
	}

	rank, err := ParseRankMode(string(req.Rank))
	if err != nil {
		return "", "", bounds, "", err
	}

	bounds = PathBounds{
		MaxHops:           r.maxHops,
		MaxCandidates:     r.maxCandidates,
		MinIntermediaries: r.minLoopIntermediaries,
	}
	if req.MaxHops > 0 {
		bounds.MaxHops = req.MaxHops
	}
	if req.MaxCandidates > 0 {
		bounds.MaxCandidates = req.MaxCandidates
	}

	return source, destination, bounds, rank, nil
}

// Pay quotes req, takes the route at index and hands it to the submitter.
func (r *Router) Pay(ctx context.Context, req *QuoteRequest, index int, mode rdb.PaymentMode) (*rdb.PaymentInstruction, error) {
	if r.submitter == nil {
		return nil, errors.New("Router has no payment submitter")
	}

	routes, err := r.QuoteRoutes(ctx, req)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(routes) {
		return nil, rdb.InvalidRequestError{Field: "route", Reason: "index out of range"}
	}

	route := routes[index]

	instruction, err := BuildPayment(route, mode)
	if err != nil {
		return nil, err
	}

	r.logger.Infof("Submitting %v payment %v of %v through %v hops (fee %v)",
		instruction.Mode, instruction.Id, route.RecipientAmount, route.Path.HopCount(), route.TotalFee)

	if err := r.submitter.SubmitPayment(ctx, instruction); err != nil {
		return nil, errors.Errorf("Could not submit payment: %v", err)
	}

	return instruction, nil
}

// RequestId tags one quote request in log lines.
func RequestId() string {
	return uuid.NewString()
}
