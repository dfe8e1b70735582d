package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newLedger(t *testing.T) *MutexLedger {
	t.Helper()
	ledger, err := NewMutexLedger(nil)
	require.NoError(t, err)
	return ledger
}

func TestMutexLedger_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newLedger(t)

	created, err := ledger.CreateAccount(ctx, domain.NewAccount("Alice", "GBP", dec("100.00")))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	second, err := ledger.CreateAccount(ctx, domain.NewAccount("Bob", "GBP", dec("50.00")))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	got, err := ledger.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.HolderName)
	assert.Equal(t, "GBP", got.Currency)
	assert.True(t, got.Balance.Equal(dec("100.00")))

	again, err := ledger.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestMutexLedger_CreateRejectsNegativeBalance(t *testing.T) {
	t.Parallel()
	ledger := newLedger(t)

	_, err := ledger.CreateAccount(context.Background(), domain.NewAccount("Alice", "GBP", dec("-1")))
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestMutexLedger_SnapshotsAreDetached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newLedger(t)

	created, err := ledger.CreateAccount(ctx, domain.NewAccount("Alice", "GBP", dec("100")))
	require.NoError(t, err)
	created.Balance = dec("1000000")

	got, err := ledger.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("100")))
}

func TestMutexLedger_GetMissing(t *testing.T) {
	t.Parallel()
	ledger := newLedger(t)

	_, err := ledger.GetAccount(context.Background(), 999)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	var nf *domain.AccountNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(999), nf.ID)
}

func TestMutexLedger_ConcurrentCreateAssignsUniqueIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newLedger(t)

	const n = 500
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			acc, err := ledger.CreateAccount(ctx, domain.NewAccount("holder", "EUR", decimal.Zero))
			if assert.NoError(t, err) {
				ids <- acc.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, n)
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)

	all, err := ledger.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestMutexLedger_DebitCredit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newLedger(t)
	acc, err := ledger.CreateAccount(ctx, domain.NewAccount("Alice", "GBP", dec("100.00")))
	require.NoError(t, err)

	require.NoError(t, ledger.Debit(ctx, acc.ID, dec("30.00")))
	require.NoError(t, ledger.Credit(ctx, acc.ID, dec("0.50")))

	got, err := ledger.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("70.50")), got.Balance.String())

	err = ledger.Debit(ctx, acc.ID, dec("70.51"))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	got, err = ledger.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("70.50")))

	require.NoError(t, ledger.Debit(ctx, acc.ID, dec("70.50")))
	got, err = ledger.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())

	assert.ErrorIs(t, ledger.Debit(ctx, 42, dec("1")), domain.ErrAccountNotFound)
	assert.ErrorIs(t, ledger.Credit(ctx, 42, dec("1")), domain.ErrAccountNotFound)
	assert.ErrorIs(t, ledger.Credit(ctx, acc.ID, dec("-1")), domain.ErrInvalidParameter)
}

func TestMutexLedger_ConcurrentDebitNeverOverdraws(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newLedger(t)
	acc, err := ledger.CreateAccount(ctx, domain.NewAccount("Alice", "GBP", dec("100")))
	require.NoError(t, err)

	const n = 300
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if ledger.Debit(ctx, acc.ID, dec("1")) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, succeeded)
	got, err := ledger.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestMutexLedger_LockAccountsOrdersAndReleases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newLedger(t)
	for i := 0; i < 2; i++ {
		_, err := ledger.CreateAccount(ctx, domain.NewAccount("holder", "GBP", dec("10")))
		require.NoError(t, err)
	}

	unlock, err := ledger.LockAccounts(ctx, 2, 1)
	require.NoError(t, err)

	// 持有期間另一方無法取得
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = ledger.LockAccounts(waitCtx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()

	again, err := ledger.LockAccounts(ctx, 1, 2)
	require.NoError(t, err)
	again()
}

func TestMutexLedger_LockAccountsTimeoutReleasesPartialLocks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newLedger(t)
	for i := 0; i < 2; i++ {
		_, err := ledger.CreateAccount(ctx, domain.NewAccount("holder", "GBP", dec("10")))
		require.NoError(t, err)
	}

	hold2, err := ledger.LockAccounts(ctx, 2)
	require.NoError(t, err)

	// 1 先取得，等 2 逾時後必須釋放 1
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = ledger.LockAccounts(waitCtx, 1, 2)
	require.ErrorIs(t, err, domain.ErrLockTimeout)

	hold1, err := ledger.LockAccounts(ctx, 1)
	require.NoError(t, err)
	hold1()
	hold2()
}

func TestMutexLedger_LockAccountsMissing(t *testing.T) {
	t.Parallel()
	ledger := newLedger(t)

	_, err := ledger.LockAccounts(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestNewMutexLedger_Seed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ledger, err := NewMutexLedger([]*domain.Account{
		{ID: 3, HolderName: "Carol", Currency: "USD", Balance: dec("5")},
		{ID: 7, HolderName: "Dave", Currency: "USD", Balance: dec("6")},
	})
	require.NoError(t, err)

	created, err := ledger.CreateAccount(ctx, domain.NewAccount("Eve", "USD", decimal.Zero))
	require.NoError(t, err)
	assert.Equal(t, int64(8), created.ID)

	all, err := ledger.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 7, 8}, []int64{all[0].ID, all[1].ID, all[2].ID})

	tests := []struct {
		name string
		seed []*domain.Account
	}{
		{name: "zero id", seed: []*domain.Account{{ID: 0}}},
		{name: "duplicate id", seed: []*domain.Account{{ID: 1}, {ID: 1}}},
		{name: "negative balance", seed: []*domain.Account{{ID: 1, Balance: dec("-0.01")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMutexLedger(tt.seed)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
		})
	}
}
