package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
)

// AccountManager 帳戶生命週期
// 只負責蓋上建立時間，其餘交給 Ledger
type AccountManager struct {
	ledger Ledger
	now    func() time.Time
}

// AccountManagerOption 設定 AccountManager
type AccountManagerOption func(*AccountManager)

// WithClock 替換時間來源
func WithClock(now func() time.Time) AccountManagerOption {
	return func(m *AccountManager) {
		m.now = now
	}
}

func NewAccountManager(ledger Ledger, opts ...AccountManagerOption) *AccountManager {
	m := &AccountManager{
		ledger: ledger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateAccount 建立帳戶
//
// 參數:
//
//	ctx: 上下文
//	holderName: 帳戶持有人
//	currency: ISO-4217 幣別代碼
//	balance: 初始餘額
//
// 回傳:
//
//	*domain.Account: 已分配 ID 的帳戶
//	error: 建立錯誤
func (m *AccountManager) CreateAccount(ctx context.Context, holderName string, currency string, balance decimal.Decimal) (*domain.Account, error) {
	account := domain.NewAccount(holderName, currency, balance)
	account.CreatedAt = m.now()
	return m.ledger.CreateAccount(ctx, account)
}

func (m *AccountManager) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	return m.ledger.GetAccount(ctx, accountID)
}

func (m *AccountManager) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return m.ledger.ListAccounts(ctx)
}
