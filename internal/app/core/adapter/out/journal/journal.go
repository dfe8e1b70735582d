package journal

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/account-ledger/pkg/wal"
)

// WALJournal 把補償意圖寫進 WAL
type WALJournal struct {
	wal *wal.WAL
}

func NewWALJournal(w *wal.WAL) *WALJournal {
	return &WALJournal{wal: w}
}

// Record 追加一筆意圖紀錄 (已 fsync)
func (j *WALJournal) Record(intent domain.CompensationIntent) error {
	if err := j.wal.Append(intent); err != nil {
		return fmt.Errorf("record compensation intent %s: %w", intent.IntentID, err)
	}
	return nil
}

// Unresolved 重放 WAL，回傳沒有 compensated 紀錄的意圖
//
// 回傳:
//
//	[]domain.CompensationIntent: 每個意圖的最後一筆紀錄，依第一次出現的順序
//	error: 讀取或解析錯誤
func (j *WALJournal) Unresolved() ([]domain.CompensationIntent, error) {
	latest := make(map[uuid.UUID]domain.CompensationIntent)
	order := make([]uuid.UUID, 0)

	err := j.wal.ReadAll(func(jsonRaw []byte) error {
		var intent domain.CompensationIntent
		if err := json.Unmarshal(jsonRaw, &intent); err != nil {
			return err
		}
		if _, ok := latest[intent.IntentID]; !ok {
			order = append(order, intent.IntentID)
		}
		latest[intent.IntentID] = intent
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.CompensationIntent, 0)
	for _, id := range order {
		if intent := latest[id]; intent.Stage != domain.CompensationCompensated {
			out = append(out, intent)
		}
	}
	return out, nil
}

var _ usecase.Journal = (*WALJournal)(nil)
