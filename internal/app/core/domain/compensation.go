package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompensationStage 補償意圖的狀態
type CompensationStage string

const (
	// 即將執行反向入帳
	CompensationPending CompensationStage = "pending"
	// 反向入帳成功
	CompensationCompensated CompensationStage = "compensated"
	// 反向入帳失敗，帳本不一致
	CompensationFailed CompensationStage = "failed"
)

// CompensationIntent 補償意圖紀錄
// 在發出反向入帳之前寫入 Journal，讓外部對帳工具事後可以比對
type CompensationIntent struct {
	IntentID             uuid.UUID         `json:"intent_id"`
	TransferID           uuid.UUID         `json:"transfer_id"`
	Stage                CompensationStage `json:"stage"`
	SourceAccountID      int64             `json:"source_account_id"`
	DestinationAccountID int64             `json:"destination_account_id"`
	Amount               decimal.Decimal   `json:"amount"`
	CurrencyCode         string            `json:"currency"`
	Reason               string            `json:"reason,omitempty"`
	RecordedAt           time.Time         `json:"recorded_at"`
}

// WithStage 回傳同一意圖在新狀態下的紀錄
func (c CompensationIntent) WithStage(stage CompensationStage, reason string, at time.Time) CompensationIntent {
	c.Stage = stage
	c.Reason = reason
	c.RecordedAt = at
	return c
}
