package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/JoeShih716/account-ledger/api/ledgerpb"
	grpc_adapter "github.com/JoeShih716/account-ledger/internal/app/core/adapter/in/grpc"
	http_adapter "github.com/JoeShih716/account-ledger/internal/app/core/adapter/in/http"
	journal_adapter "github.com/JoeShih716/account-ledger/internal/app/core/adapter/out/journal"
	memory_adapter "github.com/JoeShih716/account-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/account-ledger/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/account-ledger/internal/config"
	"github.com/JoeShih716/account-ledger/pkg/logger"
	"github.com/JoeShih716/account-ledger/pkg/mysql"
	"github.com/JoeShih716/account-ledger/pkg/wal"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. 載入設定
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// 2. 初始化 logger
	log, _, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 3. 初始帳戶 (可選，從 MySQL 載入)
	seed, err := loadSeed(cfg.MySQL, log)
	if err != nil {
		return err
	}

	// 4. 初始化記憶體帳本
	ledger, err := memory_adapter.NewMutexLedger(seed)
	if err != nil {
		return fmt.Errorf("failed to init ledger: %w", err)
	}
	log.Info("ledger ready", zap.Int("accounts", len(seed)))

	// 5. 補償意圖紀錄
	walFile, err := wal.Open(cfg.Ledger.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open compensation journal: %w", err)
	}
	defer walFile.Close()

	// 6. 初始化 UseCase
	coreUseCase := usecase.NewCoreUseCase(
		usecase.NewAccountManager(ledger),
		usecase.NewTransferCoordinator(ledger,
			usecase.WithJournal(journal_adapter.NewWALJournal(walFile)),
			usecase.WithLogger(log),
			usecase.WithLockTimeout(cfg.Ledger.LockTimeout),
		),
	)

	// 7. gRPC
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPC.Addr, err)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc_adapter.UnaryLoggingInterceptor(log)))
	ledgerpb.RegisterLedgerServiceServer(grpcServer, grpc_adapter.NewGrpcServer(coreUseCase, log))

	// 8. HTTP
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	http_adapter.NewAccountHandler(coreUseCase, log).Register(app)

	serveErr := make(chan error, 2)
	go func() {
		log.Info("starting grpc server", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		log.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case err := <-serveErr:
		log.Error("server failed, shutting down", zap.Error(err))
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	log.Info("server exited")
	return nil
}

const seedTimeout = 2 * time.Minute

// loadSeed mysql.enabled 時從 accounts 表載入初始帳戶
func loadSeed(cfg mysql.Config, log *zap.Logger) ([]*domain.Account, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	dbClient, err := mysql.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}
	defer dbClient.Close()

	accounts, err := mysql_adapter.NewAccountSource(dbClient).LoadAllAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	log.Info("loaded seed accounts from mysql", zap.Int("count", len(accounts)))
	return accounts, nil
}
