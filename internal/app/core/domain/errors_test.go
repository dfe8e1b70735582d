package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewAccountNotFoundError(999)

	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Contains(t, err.Error(), "999")

	var nf *AccountNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(999), nf.ID)
}

func TestInsufficientFundsError(t *testing.T) {
	t.Parallel()

	err := NewInsufficientFundsError(1)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "account 1")
}

func TestFatalInconsistencyError(t *testing.T) {
	t.Parallel()

	cause := errors.New("credit exploded")
	rollback := errors.New("rollback exploded")
	err := error(&FatalInconsistencyError{
		TransferID:  uuid.New(),
		Source:      1,
		Destination: 2,
		Amount:      decimal.RequireFromString("30.00"),
		Cause:       cause,
		RollbackErr: rollback,
	})

	assert.ErrorIs(t, err, ErrFatalInconsistency)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, rollback)
	assert.NotErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "account 1")
	assert.Contains(t, err.Error(), "account 2")
}

func TestAccount_CloneAndCanDebit(t *testing.T) {
	t.Parallel()

	a := NewAccount("Alice", "GBP", decimal.RequireFromString("100.00"))
	cp := a.Clone()
	cp.Balance = decimal.Zero

	assert.True(t, a.Balance.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, a.CanDebit(decimal.RequireFromString("100")))
	assert.False(t, a.CanDebit(decimal.RequireFromString("100.01")))
}
