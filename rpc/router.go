package rpc

import (
	"context"

	"google.golang.org/grpc"
)

type GetInfoRequest struct{}

type GetInfoResponse struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Entities uint32 `json:"entities"`
	Profiles uint32 `json:"profiles"`
	LoadedAt int64  `json:"loaded_at"`
}

type QuoteRequest struct {
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	Token         uint32 `json:"token"`
	Amount        string `json:"amount"`
	MaxHops       uint32 `json:"max_hops,omitempty"`
	MaxCandidates uint32 `json:"max_candidates,omitempty"`
	RankBy        string `json:"rank_by,omitempty"`
}

type Hop struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      string `json:"amount"`
	Fee         string `json:"fee"`
	BaseFee     string `json:"base_fee"`
	FeePpm      uint32 `json:"fee_ppm"`
	OutCapacity string `json:"out_capacity"`
	InCapacity  string `json:"in_capacity"`
}

type Route struct {
	Path            []string `json:"path"`
	Hops            []*Hop   `json:"hops"`
	TotalFee        string   `json:"total_fee"`
	SenderAmount    string   `json:"sender_amount"`
	RecipientAmount string   `json:"recipient_amount"`
}

type QuoteResponse struct {
	Routes []*Route `json:"routes"`
}

type PayRequest struct {
	Quote      *QuoteRequest `json:"quote"`
	RouteIndex uint32        `json:"route_index"`
	Atomic     bool          `json:"atomic"`
}

type PayResponse struct {
	PaymentId string `json:"payment_id"`
	HashLock  string `json:"hash_lock,omitempty"`
	Route     *Route `json:"route"`
}

type ListProfilesRequest struct {
	Token uint32 `json:"token"`
}

type Profile struct {
	Entity     string `json:"entity"`
	Name       string `json:"name,omitempty"`
	HasKey     bool   `json:"has_key"`
	BaseFee    string `json:"base_fee,omitempty"`
	FeePpm     uint32 `json:"fee_ppm,omitempty"`
	Accounts   uint32 `json:"accounts"`
	UpdatedAt  int64  `json:"updated_at,omitempty"`
	Neighbours uint32 `json:"neighbours"`
}

type ListProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
}

// RouterServer is the server API for the Router service.
type RouterServer interface {
	GetInfo(context.Context, *GetInfoRequest) (*GetInfoResponse, error)
	QuoteRoutes(context.Context, *QuoteRequest) (*QuoteResponse, error)
	Pay(context.Context, *PayRequest) (*PayResponse, error)
	ListProfiles(context.Context, *ListProfilesRequest) (*ListProfilesResponse, error)
}

// RouterClient is the client API for the Router service.
type RouterClient interface {
	GetInfo(ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption) (*GetInfoResponse, error)
	QuoteRoutes(ctx context.Context, in *QuoteRequest, opts ...grpc.CallOption) (*QuoteResponse, error)
	Pay(ctx context.Context, in *PayRequest, opts ...grpc.CallOption) (*PayResponse, error)
	ListProfiles(ctx context.Context, in *ListProfilesRequest, opts ...grpc.CallOption) (*ListProfilesResponse, error)
}

const serviceName = "routed.Router"

type routerClient struct {
	cc grpc.ClientConnInterface
}

func NewRouterClient(cc grpc.ClientConnInterface) RouterClient {
	return &routerClient{cc}
}

func (c *routerClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *routerClient) GetInfo(ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption) (*GetInfoResponse, error) {
	out := new(GetInfoResponse)
	if err := c.invoke(ctx, "GetInfo", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routerClient) QuoteRoutes(ctx context.Context, in *QuoteRequest, opts ...grpc.CallOption) (*QuoteResponse, error) {
	out := new(QuoteResponse)
	if err := c.invoke(ctx, "QuoteRoutes", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routerClient) Pay(ctx context.Context, in *PayRequest, opts ...grpc.CallOption) (*PayResponse, error) {
	out := new(PayResponse)
	if err := c.invoke(ctx, "Pay", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routerClient) ListProfiles(ctx context.Context, in *ListProfilesRequest, opts ...grpc.CallOption) (*ListProfilesResponse, error) {
	out := new(ListProfilesResponse)
	if err := c.invoke(ctx, "ListProfiles", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterRouterServer(s grpc.ServiceRegistrar, srv RouterServer) {
	s.RegisterService(&routerServiceDesc, srv)
}

// unaryHandler adapts one typed RouterServer method to a grpc.MethodDesc.
func unaryHandler[Req any, Res any](method string, call func(RouterServer, context.Context, *Req) (*Res, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RouterServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(RouterServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var routerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RouterServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetInfo", RouterServer.GetInfo),
		unaryHandler("QuoteRoutes", RouterServer.QuoteRoutes),
		unaryHandler("Pay", RouterServer.Pay),
		unaryHandler("ListProfiles", RouterServer.ListProfiles),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "routed/router.json",
}
