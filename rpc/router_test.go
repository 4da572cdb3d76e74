package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type echoServer struct {
	lastQuote *QuoteRequest
}

func (s *echoServer) GetInfo(ctx context.Context, req *GetInfoRequest) (*GetInfoResponse, error) {
	return &GetInfoResponse{Version: "test", Entities: 3}, nil
}

func (s *echoServer) QuoteRoutes(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	s.lastQuote = req
	return &QuoteResponse{Routes: []*Route{{
		Path:            []string{req.Source, req.Destination},
		TotalFee:        "0",
		SenderAmount:    req.Amount,
		RecipientAmount: req.Amount,
	}}}, nil
}

func (s *echoServer) Pay(ctx context.Context, req *PayRequest) (*PayResponse, error) {
	return nil, status.Error(codes.FailedPrecondition, "no capacity")
}

func (s *echoServer) ListProfiles(ctx context.Context, req *ListProfilesRequest) (*ListProfilesResponse, error) {
	return &ListProfilesResponse{}, nil
}

func dialServer(t *testing.T, srv RouterServer) RouterClient {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	RegisterRouterServer(server, srv)
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewRouterClient(conn)
}

func TestRouterServiceRoundTrip(t *testing.T) {
	srv := &echoServer{}
	client := dialServer(t, srv)
	ctx := context.Background()

	info, err := client.GetInfo(ctx, &GetInfoRequest{})
	require.NoError(t, err)
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, uint32(3), info.Entities)

	res, err := client.QuoteRoutes(ctx, &QuoteRequest{
		Source:      "Alice",
		Destination: "Bob",
		Token:       1,
		Amount:      "340282366920938463463374607431768211456",
		RankBy:      "hops",
	})
	require.NoError(t, err)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, res.Routes[0].Path)
	assert.Equal(t, "340282366920938463463374607431768211456", res.Routes[0].SenderAmount)
	assert.Equal(t, "hops", srv.lastQuote.RankBy)

	_, err = client.Pay(ctx, &PayRequest{Quote: &QuoteRequest{}})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}
