// Package dto 是 transport 與 domain 之間的轉換層：
// 線上格式 (JSON / protobuf Struct) 的 AccountDTO、TransferDTO，以及它們的輸入驗證。
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
)

// DateFormat createdDate 的輸出格式
const DateFormat = "2006-01-02 15:04:05 MST"

// AccountDTO 帳戶的線上格式
type AccountDTO struct {
	ID                *int64           `json:"id,omitempty"`
	AccountHolderName string           `json:"accountHolderName" validate:"notblank"`
	Currency          string           `json:"currency" validate:"notblank"`
	Balance           *decimal.Decimal `json:"balance" validate:"required"`
	CreatedDate       string           `json:"createdDate,omitempty"`
}

// TransferDTO 轉帳請求的線上格式
type TransferDTO struct {
	SourceAccountID      *int64           `json:"sourceAccountId" validate:"required"`
	DestinationAccountID *int64           `json:"destinationAccountId" validate:"required"`
	TransferAmount       *decimal.Decimal `json:"transferAmount" validate:"required"`
	Currency             string           `json:"currency" validate:"notblank"`
}

// FromAccount domain -> DTO
func FromAccount(account *domain.Account) AccountDTO {
	id := account.ID
	balance := account.Balance
	return AccountDTO{
		ID:                &id,
		AccountHolderName: account.HolderName,
		Currency:          account.Currency,
		Balance:           &balance,
		CreatedDate:       formatDate(account.CreatedAt),
	}
}

// FromAccounts domain -> DTO (批次)
func FromAccounts(accounts []*domain.Account) []AccountDTO {
	out := make([]AccountDTO, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, FromAccount(account))
	}
	return out
}

// ToAccount DTO -> domain，呼叫前須先通過 ValidateAccount
// ID 與 createdDate 由核心決定，這裡不帶入
func (d AccountDTO) ToAccount() *domain.Account {
	return domain.NewAccount(d.AccountHolderName, d.Currency, *d.Balance)
}

// ToTransferRequest DTO -> domain，呼叫前須先通過 ValidateTransfer
func (d TransferDTO) ToTransferRequest() *domain.TransferRequest {
	return &domain.TransferRequest{
		SourceAccountID:      *d.SourceAccountID,
		DestinationAccountID: *d.DestinationAccountID,
		Amount:               *d.TransferAmount,
		CurrencyCode:         d.Currency,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}
