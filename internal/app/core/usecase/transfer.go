package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
)

// TransferCoordinator 負責轉帳流程
//
// 流程: 驗證 -> 查帳戶 -> 檢查幣別 -> 依 ID 順序鎖兩個帳戶 -> 重新檢查餘額 -> 扣款 -> 入帳
// 入帳失敗時以反向入帳補償；補償也失敗時回傳 FatalInconsistencyError。
type TransferCoordinator struct {
	ledger      Ledger
	journal     Journal
	logger      *zap.Logger
	lockTimeout time.Duration
	now         func() time.Time
}

// TransferOption 設定 TransferCoordinator
type TransferOption func(*TransferCoordinator)

// WithJournal 設定補償意圖紀錄
func WithJournal(journal Journal) TransferOption {
	return func(c *TransferCoordinator) {
		c.journal = journal
	}
}

// WithLogger 設定 logger
func WithLogger(logger *zap.Logger) TransferOption {
	return func(c *TransferCoordinator) {
		c.logger = logger
	}
}

// WithLockTimeout 限制等待帳戶鎖的時間，0 代表只受 ctx 控制
func WithLockTimeout(d time.Duration) TransferOption {
	return func(c *TransferCoordinator) {
		c.lockTimeout = d
	}
}

func NewTransferCoordinator(ledger Ledger, opts ...TransferOption) *TransferCoordinator {
	c := &TransferCoordinator{
		ledger:  ledger,
		journal: nopJournal{},
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "transfer_coordinator"))
	return c
}

// Transfer 執行一次轉帳
//
// 參數:
//
//	ctx: 上下文 (只影響等待帳戶鎖，取得鎖之後轉帳一定會跑完)
//	req: 轉帳請求
//
// 回傳:
//
//	error: nil 代表成功；除 ErrFatalInconsistency 以外的錯誤都保證兩個帳戶餘額不變
func (c *TransferCoordinator) Transfer(ctx context.Context, req *domain.TransferRequest) error {
	transferID := uuid.New()
	logger := c.logger.With(
		zap.String("transfer_id", transferID.String()),
		zap.Int64("source", req.SourceAccountID),
		zap.Int64("destination", req.DestinationAccountID),
		zap.String("amount", req.Amount.String()),
		zap.String("currency", req.CurrencyCode),
	)

	err := c.transfer(ctx, transferID, req, logger)
	if err != nil && !errors.Is(err, domain.ErrFatalInconsistency) {
		logger.Debug("transfer rejected", zap.Error(err))
	}
	return err
}

func (c *TransferCoordinator) transfer(ctx context.Context, transferID uuid.UUID, req *domain.TransferRequest, logger *zap.Logger) error {
	// 1. 不需要帳戶狀態的檢查 (含來源等於目的)
	if err := req.Validate(); err != nil {
		return err
	}

	// 2. 兩個帳戶都要存在
	source, err := c.ledger.GetAccount(ctx, req.SourceAccountID)
	if err != nil {
		return err
	}
	destination, err := c.ledger.GetAccount(ctx, req.DestinationAccountID)
	if err != nil {
		return err
	}

	// 3. 不做匯率轉換
	if source.Currency != req.CurrencyCode || destination.Currency != req.CurrencyCode {
		return fmt.Errorf("%w: transfer currency %s must be the same as the currency of accounts involved in transaction (%s, %s)",
			domain.ErrCurrencyMismatch, req.CurrencyCode, source.Currency, destination.Currency)
	}

	// 4. 依 ID 順序取得兩個帳戶的獨佔權
	unlock, err := c.lockAccounts(ctx, req.GetLockIDs())
	if err != nil {
		return err
	}
	defer unlock()

	// 5. 持有鎖之後重新檢查餘額
	source, err = c.ledger.GetAccount(ctx, req.SourceAccountID)
	if err != nil {
		return err
	}
	if !source.CanDebit(req.Amount) {
		return domain.NewInsufficientFundsError(req.SourceAccountID)
	}

	// 6. 扣款失敗時尚未有任何變動
	if err := c.ledger.Debit(ctx, req.SourceAccountID, req.Amount); err != nil {
		return fmt.Errorf("debit account %d: %w", req.SourceAccountID, err)
	}

	// 7. 入帳失敗時需要補償
	if err := c.ledger.Credit(ctx, req.DestinationAccountID, req.Amount); err != nil {
		return c.compensate(ctx, transferID, req, err, logger)
	}

	logger.Debug("transfer completed")
	return nil
}

func (c *TransferCoordinator) lockAccounts(ctx context.Context, ids []int64) (func(), error) {
	if c.lockTimeout <= 0 {
		return c.ledger.LockAccounts(ctx, ids...)
	}
	lockCtx, cancel := context.WithTimeout(ctx, c.lockTimeout)
	defer cancel()
	return c.ledger.LockAccounts(lockCtx, ids...)
}

// compensate 反向入帳來源帳戶
//
// 先寫入 pending 意圖再執行反向入帳，結束後寫入 compensated 或 failed。
// Journal 寫入失敗只記 log，不阻擋補償本身。
func (c *TransferCoordinator) compensate(ctx context.Context, transferID uuid.UUID, req *domain.TransferRequest, cause error, logger *zap.Logger) error {
	intent := domain.CompensationIntent{
		IntentID:             uuid.New(),
		TransferID:           transferID,
		Stage:                domain.CompensationPending,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		CurrencyCode:         req.CurrencyCode,
		Reason:               cause.Error(),
		RecordedAt:           c.now(),
	}
	c.record(intent, logger)

	rollbackErr := c.ledger.Credit(context.WithoutCancel(ctx), req.SourceAccountID, req.Amount)
	if rollbackErr != nil {
		c.record(intent.WithStage(domain.CompensationFailed, rollbackErr.Error(), c.now()), logger)

		fatal := &domain.FatalInconsistencyError{
			TransferID:  transferID,
			Source:      req.SourceAccountID,
			Destination: req.DestinationAccountID,
			Amount:      req.Amount,
			Cause:       cause,
			RollbackErr: rollbackErr,
		}
		logger.Error("transfer rollback failed, ledger is inconsistent",
			zap.String("intent_id", intent.IntentID.String()),
			zap.NamedError("cause", cause),
			zap.NamedError("rollback_error", rollbackErr),
		)
		return fatal
	}

	c.record(intent.WithStage(domain.CompensationCompensated, "", c.now()), logger)
	logger.Warn("transfer credit failed, debit rolled back",
		zap.String("intent_id", intent.IntentID.String()),
		zap.Error(cause),
	)
	return fmt.Errorf("credit account %d: %w", req.DestinationAccountID, cause)
}

func (c *TransferCoordinator) record(intent domain.CompensationIntent, logger *zap.Logger) {
	if err := c.journal.Record(intent); err != nil {
		logger.Error("failed to record compensation intent",
			zap.String("intent_id", intent.IntentID.String()),
			zap.String("stage", string(intent.Stage)),
			zap.Error(err),
		)
	}
}
