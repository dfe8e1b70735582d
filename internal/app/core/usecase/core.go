package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層，供 gRPC / HTTP adapter 使用
type CoreUseCase struct {
	accounts  *AccountManager
	transfers *TransferCoordinator
}

func NewCoreUseCase(accounts *AccountManager, transfers *TransferCoordinator) *CoreUseCase {
	return &CoreUseCase{
		accounts:  accounts,
		transfers: transfers,
	}
}

// CreateAccount 建立帳戶
func (c *CoreUseCase) CreateAccount(ctx context.Context, holderName string, currency string, balance decimal.Decimal) (*domain.Account, error) {
	return c.accounts.CreateAccount(ctx, holderName, currency, balance)
}

// GetAccount 取得帳戶
func (c *CoreUseCase) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	return c.accounts.GetAccount(ctx, accountID)
}

// ListAccounts 取得所有帳戶
func (c *CoreUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return c.accounts.ListAccounts(ctx)
}

// Transfer 轉帳
func (c *CoreUseCase) Transfer(ctx context.Context, req *domain.TransferRequest) error {
	return c.transfers.Transfer(ctx, req)
}
