package grpc

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/account-ledger/api/ledgerpb"
	"github.com/JoeShih716/account-ledger/internal/app/core/adapter/in/dto"
	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/account-ledger/internal/app/core/usecase"
)

type GrpcServer struct {
	ledgerpb.UnimplementedLedgerServiceServer
	core   *usecase.CoreUseCase
	logger *zap.Logger
}

func NewGrpcServer(core *usecase.CoreUseCase, logger *zap.Logger) *GrpcServer {
	return &GrpcServer{
		core:   core,
		logger: logger.With(zap.String("component", "grpc_server")),
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// 1. Struct -> DTO
	var in dto.AccountDTO
	if err := decodeStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// 2. 輸入驗證
	if err := dto.ValidateAccount(in); err != nil {
		return nil, toStatus(err)
	}

	// 3. 建立帳戶
	account, err := s.core.CreateAccount(ctx, in.AccountHolderName, in.Currency, *in.Balance)
	if err != nil {
		return nil, toStatus(err)
	}

	return encodeStruct(dto.FromAccount(account))
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	account, err := s.core.GetAccount(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeStruct(dto.FromAccount(account))
}

func (s *GrpcServer) ListAccounts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	accounts, err := s.core.ListAccounts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	values := make([]*structpb.Value, 0, len(accounts))
	for _, account := range dto.FromAccounts(accounts) {
		st, err := encodeStruct(account)
		if err != nil {
			return nil, err
		}
		values = append(values, structpb.NewStructValue(st))
	}
	return &structpb.ListValue{Values: values}, nil
}

func (s *GrpcServer) Transfer(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var in dto.TransferDTO
	if err := decodeStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := dto.ValidateTransfer(in); err != nil {
		return nil, toStatus(err)
	}

	if err := s.core.Transfer(ctx, in.ToTransferRequest()); err != nil {
		if errors.Is(err, domain.ErrFatalInconsistency) {
			s.logger.Error("transfer left ledger inconsistent", zap.Error(err))
		}
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// toStatus 將 domain 錯誤對應到 gRPC status code
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrRequiredParameter),
		errors.Is(err, domain.ErrInvalidParameter):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
