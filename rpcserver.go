package main

import (
	"context"
	"errors"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xlnfinance/xln-sub004/rdb"
	"github.com/xlnfinance/xln-sub004/router"
	"github.com/xlnfinance/xln-sub004/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// snapshotInfo is the part of the snapshot client the RPC server reports on.
type snapshotInfo interface {
	LoadedAt() time.Time
}

type rpcServerConfig struct {
	router  *router.Router
	client  snapshotInfo
	version string
	commit  string
}

type rpcServer struct {
	router  *router.Router
	client  snapshotInfo
	version string
	commit  string
}

// A compile time check to ensure that rpcServer fully implements the Router gRPC service.
var _ rpc.RouterServer = (*rpcServer)(nil)

func newRPCServer(config *rpcServerConfig) *rpcServer {
	return &rpcServer{
		router:  config.router,
		client:  config.client,
		version: config.version,
		commit:  config.commit,
	}
}

func (s *rpcServer) GetInfo(ctx context.Context, req *rpc.GetInfoRequest) (*rpc.GetInfoResponse, error) {
	snapshot, err := s.router.Snapshot()
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "Could not read snapshot: %v", err)
	}

	res := &rpc.GetInfoResponse{
		Version:  s.version,
		Commit:   s.commit,
		Profiles: uint32(len(snapshot.Profiles)),
	}

	if snapshot.Local != nil {
		res.Entities = uint32(len(snapshot.Local.Entities))
	}

	if s.client != nil && !s.client.LoadedAt().IsZero() {
		res.LoadedAt = s.client.LoadedAt().Unix()
	}

	return res, nil
}

func (s *rpcServer) QuoteRoutes(ctx context.Context, req *rpc.QuoteRequest) (*rpc.QuoteResponse, error) {
	quote, err := quoteRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	logger := log.WithField("request", router.RequestId())
	logger.Debugf("Quoting %v from %v to %v", quote.Amount, quote.Source, quote.Destination)

	routes, err := s.router.QuoteRoutes(ctx, quote)
	if err != nil {
		logger.WithError(err).Info("Quote failed")
		return nil, toStatus(err)
	}

	logger.Infof("Quoted %v routes from %v to %v", len(routes), quote.Source, quote.Destination)

	res := &rpc.QuoteResponse{Routes: make([]*rpc.Route, 0, len(routes))}
	for _, route := range routes {
		res.Routes = append(res.Routes, marshalRoute(route))
	}

	return res, nil
}

func (s *rpcServer) Pay(ctx context.Context, req *rpc.PayRequest) (*rpc.PayResponse, error) {
	quote, err := quoteRequest(req.Quote)
	if err != nil {
		return nil, toStatus(err)
	}

	mode := rdb.PaymentSimple
	if req.Atomic {
		mode = rdb.PaymentAtomic
	}

	logger := log.WithField("request", router.RequestId())

	instruction, err := s.router.Pay(ctx, quote, int(req.RouteIndex), mode)
	if err != nil {
		logger.WithError(err).Info("Payment failed")
		return nil, toStatus(err)
	}

	logger.Infof("Submitted payment %v", instruction.Id)

	return &rpc.PayResponse{
		PaymentId: instruction.Id,
		HashLock:  instruction.HashLock,
		Route:     marshalRoute(instruction.Route),
	}, nil
}

func (s *rpcServer) ListProfiles(ctx context.Context, req *rpc.ListProfilesRequest) (*rpc.ListProfilesResponse, error) {
	snapshot, err := s.router.Snapshot()
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "Could not read snapshot: %v", err)
	}

	graph := router.BuildGraph(rdb.TokenId(req.Token), snapshot.Local, snapshot.Profiles)

	res := &rpc.ListProfilesResponse{Profiles: make([]*rpc.Profile, 0, len(snapshot.Profiles))}
	for _, profile := range snapshot.Profiles {
		id := rdb.Canonical(profile.Entity)
		if id == "" {
			continue
		}

		p := &rpc.Profile{
			Entity:     graph.Display(id),
			Name:       profile.Name,
			HasKey:     profile.RoutingKey != "",
			Accounts:   uint32(len(profile.Accounts)),
			Neighbours: uint32(len(graph.Neighbors(id))),
		}

		if profile.Policy != nil {
			p.BaseFee = profile.Policy.BaseFee.String()
			p.FeePpm = profile.Policy.FeePPM
		}

		if !profile.UpdatedAt.IsZero() {
			p.UpdatedAt = profile.UpdatedAt.Unix()
		}

		res.Profiles = append(res.Profiles, p)
	}

	sort.SliceStable(res.Profiles, func(i, j int) bool {
		return rdb.Canonical(res.Profiles[i].Entity) < rdb.Canonical(res.Profiles[j].Entity)
	})

	return res, nil
}

func quoteRequest(req *rpc.QuoteRequest) (*router.QuoteRequest, error) {
	if req == nil {
		return nil, rdb.InvalidRequestError{Field: "quote", Reason: "missing"}
	}

	amount, err := rdb.ParseAmount(req.Amount)
	if err != nil {
		return nil, rdb.InvalidRequestError{Field: "amount", Reason: err.Error()}
	}

	return &router.QuoteRequest{
		Source:        req.Source,
		Destination:   req.Destination,
		Token:         rdb.TokenId(req.Token),
		Amount:        amount,
		MaxHops:       int(req.MaxHops),
		MaxCandidates: int(req.MaxCandidates),
		Rank:          router.RankMode(req.RankBy),
	}, nil
}

func marshalRoute(route *rdb.Route) *rpc.Route {
	res := &rpc.Route{
		Path:            append([]string(nil), route.Display...),
		Hops:            make([]*rpc.Hop, 0, len(route.Hops)),
		TotalFee:        route.TotalFee.String(),
		SenderAmount:    route.SenderAmount.String(),
		RecipientAmount: route.RecipientAmount.String(),
	}

	if len(res.Path) == 0 {
		for _, id := range route.Path {
			res.Path = append(res.Path, string(id))
		}
	}

	for _, hop := range route.Hops {
		res.Hops = append(res.Hops, &rpc.Hop{
			From:        string(hop.From),
			To:          string(hop.To),
			Amount:      hop.Amount.String(),
			Fee:         hop.Fee.String(),
			BaseFee:     hop.BaseFee.String(),
			FeePpm:      hop.FeePPM,
			OutCapacity: hop.OutCapacity.String(),
			InCapacity:  hop.InCapacity.String(),
		})
	}

	return res
}

// toStatus maps routing failures to gRPC codes so clients can tell a bad
// request from a network that simply has no way through.
func toStatus(err error) error {
	var invalid rdb.InvalidRequestError
	var noRoute rdb.NoRouteError
	var noCapacity rdb.NoCapacityError
	var missingKeys rdb.MissingKeysError

	switch {
	case errors.As(err, &invalid):
		return status.Error(codes.InvalidArgument, invalid.Error())
	case errors.As(err, &noRoute):
		return status.Error(codes.NotFound, noRoute.Error())
	case errors.As(err, &noCapacity):
		return status.Error(codes.FailedPrecondition, noCapacity.Error())
	case errors.As(err, &missingKeys):
		return status.Error(codes.Unavailable, missingKeys.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
