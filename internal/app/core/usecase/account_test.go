package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/account-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/account-ledger/internal/app/core/usecase"
)

func TestAccountManager_StampsCreatedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger, err := memory.NewMutexLedger(nil)
	require.NoError(t, err)

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := usecase.NewAccountManager(ledger, usecase.WithClock(func() time.Time { return fixed }))

	created, err := manager.CreateAccount(ctx, "Alice", "GBP", dec("100.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, fixed, created.CreatedAt)

	got, err := manager.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = manager.CreateAccount(ctx, "Bob", "USD", dec("1"))
	require.NoError(t, err)

	all, err := manager.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAccountManager_DefaultClock(t *testing.T) {
	t.Parallel()
	ledger, err := memory.NewMutexLedger(nil)
	require.NoError(t, err)
	manager := usecase.NewAccountManager(ledger)

	before := time.Now()
	created, err := manager.CreateAccount(context.Background(), "Alice", "GBP", dec("1"))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.Before(before))
}
