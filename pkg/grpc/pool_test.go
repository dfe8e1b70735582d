package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/account-ledger/api/ledgerpb"
)

type stubLedgerServer struct {
	ledgerpb.UnimplementedLedgerServiceServer
}

func (stubLedgerServer) GetAccount(_ context.Context, in *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if in.GetValue() != 1 {
		return nil, status.Error(codes.NotFound, "missing")
	}
	return structpb.NewStruct(map[string]any{"id": 1})
}

func startBufServer(t *testing.T) grpc.DialOption {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	ledgerpb.RegisterLedgerServiceServer(srv, stubLedgerServer{})
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestPool_ReusesConnection(t *testing.T) {
	dialer := startBufServer(t)
	pool := NewPool()

	first, err := pool.GetConnection("passthrough:///bufnet", dialer)
	require.NoError(t, err)
	second, err := pool.GetConnection("passthrough:///bufnet", dialer)
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, pool.Close())
	assert.Equal(t, connectivity.Shutdown, first.GetState())

	third, err := pool.GetConnection("passthrough:///bufnet", dialer)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	require.NoError(t, pool.Close())
}

func TestPool_ClientLoggingInterceptor(t *testing.T) {
	dialer := startBufServer(t)
	observed, logs := observer.New(zapcore.DebugLevel)
	pool := NewPool(WithInterceptor(UnaryClientLoggingInterceptor(zap.New(observed))))
	t.Cleanup(func() { _ = pool.Close() })

	conn, err := pool.GetConnection("passthrough:///bufnet", dialer)
	require.NoError(t, err)
	client := ledgerpb.NewLedgerServiceClient(conn)

	_, err = client.GetAccount(context.Background(), wrapperspb.Int64(1))
	require.NoError(t, err)
	_, err = client.GetAccount(context.Background(), wrapperspb.Int64(2))
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = client.ListAccounts(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, ledgerpb.GetAccountFullMethodName, entries[0].ContextMap()["method"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "NotFound", entries[1].ContextMap()["code"])
	assert.Equal(t, "Unimplemented", entries[2].ContextMap()["code"])
}
