package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransferRequest 轉帳請求 (只存在於單次轉帳呼叫期間，不保存)
type TransferRequest struct {
	SourceAccountID      int64
	DestinationAccountID int64
	Amount               decimal.Decimal
	CurrencyCode         string
}

// Validate 檢查不需要帳戶狀態即可判斷的規則
//
// 回傳:
//
//	error: ErrRequiredParameter / ErrInvalidParameter
func (r *TransferRequest) Validate() error {
	if r.CurrencyCode == "" {
		return fmt.Errorf("%w: currency is a required parameter", ErrRequiredParameter)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", ErrInvalidParameter)
	}
	if r.SourceAccountID == r.DestinationAccountID {
		return fmt.Errorf("%w: source and destination accounts must not have same ID", ErrInvalidParameter)
	}
	return nil
}

// GetLockIDs 回傳需要鎖定的帳號 ID，並確保順序 (小 ID 先) 以避免死鎖
func (r *TransferRequest) GetLockIDs() []int64 {
	ids := make([]int64, 0, 2)
	if r.SourceAccountID < r.DestinationAccountID {
		ids = append(ids, r.SourceAccountID, r.DestinationAccountID)
	} else {
		ids = append(ids, r.DestinationAccountID, r.SourceAccountID)
	}
	return ids
}
