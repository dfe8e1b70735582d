package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account 帳戶
//
// ID 由 Ledger Store 建立時分配，之後不可變。
// Currency 為 ISO-4217 代碼，建立後不可變。
// Balance 只能經由 Ledger Store 的 Debit/Credit 變動，不會被整筆替換。
type Account struct {
	ID         int64
	HolderName string
	Currency   string
	Balance    decimal.Decimal
	CreatedAt  time.Time
}

// NewAccount 建立尚未分配 ID 的帳戶
func NewAccount(holderName string, currency string, balance decimal.Decimal) *Account {
	return &Account{
		HolderName: holderName,
		Currency:   currency,
		Balance:    balance,
	}
}

// Clone 回傳值拷貝，避免外部持有內部指標
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}

// CanDebit 餘額是否足以扣款
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
