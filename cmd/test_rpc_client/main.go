package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/account-ledger/api/ledgerpb"
	grpcpool "github.com/JoeShih716/account-ledger/pkg/grpc"
	"github.com/JoeShih716/account-ledger/pkg/logger"
)

// test_rpc_client 建立兩個帳戶後同時送出方向相反的轉帳，最後檢查總額不變
func main() {
	target := flag.String("target", "localhost:50051", "ledger grpc address")
	total := flag.Int("n", 10000, "number of transfers")
	concurrency := flag.Int("c", 100, "concurrent requests")
	amount := flag.String("amount", "1.25", "amount per transfer")
	flag.Parse()

	log, _, err := logger.New(logger.Config{Level: "info", Environment: logger.EnvironmentLocal})
	if err != nil {
		fmt.Fprintf(os.Stderr, "test_rpc_client: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	pool := grpcpool.NewPool(grpcpool.WithInterceptor(grpcpool.UnaryClientLoggingInterceptor(log)))
	defer pool.Close()

	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Fatal("did not connect", zap.Error(err))
	}
	c := ledgerpb.NewLedgerServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	const initial = "1000000"
	a := createAccount(ctx, c, log, "load-a", initial)
	b := createAccount(ctx, c, log, "load-b", initial)

	var wg sync.WaitGroup
	var failed atomic.Int64
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)

		src, dst := a, b
		if i%2 == 1 {
			src, dst = b, a
		}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			req, _ := structpb.NewStruct(map[string]any{
				"sourceAccountId":      float64(src),
				"destinationAccountId": float64(dst),
				"transferAmount":       *amount,
				"currency":             "USD",
			})
			if _, err := c.Transfer(ctx, req); err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	sum := balanceOf(ctx, c, log, a).Add(balanceOf(ctx, c, log, b))
	expected := decimal.RequireFromString(initial).Mul(decimal.NewFromInt(2))

	fmt.Printf("Completed %d requests in %v (%d failed)\n", *total, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	if !sum.Equal(expected) {
		log.Error("total balance not conserved", zap.String("expected", expected.String()), zap.String("actual", sum.String()))
		_ = log.Sync()
		os.Exit(1)
	}
	fmt.Printf("Total balance conserved: %s\n", sum)
}

func createAccount(ctx context.Context, c ledgerpb.LedgerServiceClient, log *zap.Logger, holder, balance string) int64 {
	req, err := structpb.NewStruct(map[string]any{
		"accountHolderName": holder,
		"currency":          "USD",
		"balance":           balance,
	})
	if err != nil {
		log.Fatal("failed to build request", zap.Error(err))
	}
	resp, err := c.CreateAccount(ctx, req)
	if err != nil {
		log.Fatal("failed to create account", zap.String("holder", holder), zap.Error(err))
	}
	return int64(resp.GetFields()["id"].GetNumberValue())
}

func balanceOf(ctx context.Context, c ledgerpb.LedgerServiceClient, log *zap.Logger, id int64) decimal.Decimal {
	resp, err := c.GetAccount(ctx, wrapperspb.Int64(id))
	if err != nil {
		log.Fatal("failed to get account", zap.Int64("account_id", id), zap.Error(err))
	}
	balance, err := decimal.NewFromString(resp.GetFields()["balance"].GetStringValue())
	if err != nil {
		log.Fatal("malformed balance", zap.Int64("account_id", id), zap.Error(err))
	}
	return balance
}
