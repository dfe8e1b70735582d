package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/account-ledger/pkg/wal"
)

func newIntent(src, dst int64) domain.CompensationIntent {
	return domain.CompensationIntent{
		IntentID:             uuid.New(),
		TransferID:           uuid.New(),
		Stage:                domain.CompensationPending,
		SourceAccountID:      src,
		DestinationAccountID: dst,
		Amount:               decimal.RequireFromString("30.25"),
		CurrencyCode:         "GBP",
		RecordedAt:           time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestWALJournal_Unresolved(t *testing.T) {
	t.Parallel()
	w, err := wal.Open(filepath.Join(t.TempDir(), "compensation.wal"))
	require.NoError(t, err)
	defer w.Close()
	j := NewWALJournal(w)

	resolved := newIntent(1, 2)
	failed := newIntent(3, 4)
	pending := newIntent(5, 6)
	at := time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC)

	require.NoError(t, j.Record(resolved))
	require.NoError(t, j.Record(failed))
	require.NoError(t, j.Record(resolved.WithStage(domain.CompensationCompensated, "", at)))
	require.NoError(t, j.Record(failed.WithStage(domain.CompensationFailed, "rollback exploded", at)))
	require.NoError(t, j.Record(pending))

	got, err := j.Unresolved()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, failed.IntentID, got[0].IntentID)
	assert.Equal(t, domain.CompensationFailed, got[0].Stage)
	assert.Equal(t, "rollback exploded", got[0].Reason)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("30.25")))

	assert.Equal(t, pending.IntentID, got[1].IntentID)
	assert.Equal(t, domain.CompensationPending, got[1].Stage)
	assert.Equal(t, int64(5), got[1].SourceAccountID)
}

func TestWALJournal_UnresolvedEmpty(t *testing.T) {
	t.Parallel()
	w, err := wal.Open(filepath.Join(t.TempDir(), "compensation.wal"))
	require.NoError(t, err)
	defer w.Close()

	got, err := NewWALJournal(w).Unresolved()
	require.NoError(t, err)
	assert.Empty(t, got)
}
