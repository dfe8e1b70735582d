package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrRequiredParameter 必填欄位缺失
	ErrRequiredParameter = errors.New("required parameter")

	// ErrInvalidParameter 參數值不合法
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrCurrencyMismatch 轉帳幣別與帳戶幣別不一致
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrFatalInconsistency 補償失敗，帳本不再可信
	ErrFatalInconsistency = errors.New("fatal ledger inconsistency")

	// ErrLockTimeout 等待帳戶鎖逾時
	ErrLockTimeout = errors.New("timed out acquiring account lock")
)

// AccountNotFoundError 帶有找不到的帳戶 ID
type AccountNotFoundError struct {
	ID int64
}

func NewAccountNotFoundError(id int64) error {
	return &AccountNotFoundError{ID: id}
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account with ID %d not found", e.ID)
}

func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// NewInsufficientFundsError 回傳指名帳戶的餘額不足錯誤
func NewInsufficientFundsError(id int64) error {
	return fmt.Errorf("%w: account %d has insufficient funds to perform this transaction", ErrInsufficientFunds, id)
}

// FatalInconsistencyError 轉帳入帳失敗後，反向入帳也失敗
//
// 這是唯一一種被拒絕的轉帳仍會留下部分變動的情況：
// Source 已被扣款 Amount，Destination 未入帳。
type FatalInconsistencyError struct {
	TransferID  uuid.UUID
	Source      int64
	Destination int64
	Amount      decimal.Decimal
	// Cause 入帳失敗原因
	Cause error
	// RollbackErr 反向入帳失敗原因
	RollbackErr error
}

func (e *FatalInconsistencyError) Error() string {
	return fmt.Sprintf("%s: transfer %s debited account %d by %s but credit to account %d failed (%v) and rollback failed (%v)",
		ErrFatalInconsistency, e.TransferID, e.Source, e.Amount, e.Destination, e.Cause, e.RollbackErr)
}

func (e *FatalInconsistencyError) Is(target error) bool {
	return target == ErrFatalInconsistency
}

func (e *FatalInconsistencyError) Unwrap() []error {
	return []error{e.Cause, e.RollbackErr}
}
