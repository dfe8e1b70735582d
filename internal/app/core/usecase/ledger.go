package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
)

// Ledger 是帳務系統的介面 (Ledger Store)
// 帳戶餘額只能經由 Debit/Credit 變動
type Ledger interface {
	// CreateAccount 分配新 ID 並存入帳戶，回傳存入後的快照
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// GetAccount 取得帳戶快照
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	// ListAccounts 取得所有帳戶快照，順序不保證
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	// Debit 原子地檢查餘額並扣款
	Debit(ctx context.Context, accountID int64, amount decimal.Decimal) error
	// Credit 原子地入帳
	Credit(ctx context.Context, accountID int64, amount decimal.Decimal) error
	// LockAccounts 依 ID 由小到大取得帳戶的獨佔權，回傳釋放函式
	LockAccounts(ctx context.Context, accountIDs ...int64) (unlock func(), err error)
}

// Journal 記錄補償意圖
type Journal interface {
	Record(intent domain.CompensationIntent) error
}

type nopJournal struct{}

func (nopJournal) Record(domain.CompensationIntent) error { return nil }
