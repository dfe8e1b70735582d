package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/account-ledger/internal/app/core/usecase"
)

// accountSlot 單一帳戶在 arena 中的格子
//
// 結構:
//
//	lease: 容量 1 的 channel，持有代表取得轉帳層級的獨佔權 (可配合 ctx 放棄等待)
//	mu: 保護 account，Debit/Credit 的檢查與變更在同一個臨界區內完成
type accountSlot struct {
	lease   chan struct{}
	mu      sync.Mutex
	account domain.Account
}

func newAccountSlot(account domain.Account) *accountSlot {
	return &accountSlot{
		lease:   make(chan struct{}, 1),
		account: account,
	}
}

func (s *accountSlot) snapshot() *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Clone()
}

// MutexLedger 是一個以帳戶為單位上鎖的記憶體帳本
//
// 結構:
//
//	accounts: 帳戶 ID 對應 slot，只會新增不會刪除
//	mu: 只保護 accounts map 本身，不會序列化不相關帳戶的餘額變動
//	lastID: 最後分配的帳戶 ID (atomic 遞增，不重複使用)
type MutexLedger struct {
	accounts map[int64]*accountSlot
	mu       sync.RWMutex
	lastID   atomic.Int64
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	seed: 初始帳戶 (例如從 MySQL 載入)，ID 必須為正且不重複
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
//	error: 初始資料錯誤
func NewMutexLedger(seed []*domain.Account) (*MutexLedger, error) {
	ledger := &MutexLedger{
		accounts: make(map[int64]*accountSlot, len(seed)),
	}
	var maxID int64
	for _, account := range seed {
		if account.ID <= 0 {
			return nil, fmt.Errorf("%w: seed account id %d must be positive", domain.ErrInvalidParameter, account.ID)
		}
		if _, ok := ledger.accounts[account.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate seed account id %d", domain.ErrInvalidParameter, account.ID)
		}
		if account.Balance.IsNegative() {
			return nil, fmt.Errorf("%w: seed account %d has negative balance", domain.ErrInvalidParameter, account.ID)
		}
		ledger.accounts[account.ID] = newAccountSlot(*account)
		maxID = max(maxID, account.ID)
	}
	ledger.lastID.Store(maxID)
	return ledger, nil
}

func (m *MutexLedger) slot(accountID int64) (*accountSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.accounts[accountID]
	if !ok {
		return nil, domain.NewAccountNotFoundError(accountID)
	}
	return s, nil
}

// CreateAccount 分配下一個 ID 並存入帳戶
func (m *MutexLedger) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if account.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", domain.ErrInvalidParameter)
	}
	stored := *account
	stored.ID = m.lastID.Add(1)

	m.mu.Lock()
	m.accounts[stored.ID] = newAccountSlot(stored)
	m.mu.Unlock()

	return stored.Clone(), nil
}

// GetAccount 取得指定帳戶的當前快照
//
// 回傳:
//
//	*domain.Account: 帳戶快照
//	error: 查詢錯誤 (如帳戶不存在)
func (m *MutexLedger) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	s, err := m.slot(accountID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// ListAccounts 回傳所有帳戶快照，依 ID 排序
func (m *MutexLedger) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	m.mu.RLock()
	slots := make([]*accountSlot, 0, len(m.accounts))
	for _, s := range m.accounts {
		slots = append(slots, s)
	}
	m.mu.RUnlock()

	out := make([]*domain.Account, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.snapshot())
	}
	slices.SortFunc(out, func(a, b *domain.Account) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Debit 扣款，檢查餘額與扣款在同一個臨界區
func (m *MutexLedger) Debit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: debit amount cannot be negative", domain.ErrInvalidParameter)
	}
	s, err := m.slot(accountID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.account.CanDebit(amount) {
		return domain.NewInsufficientFundsError(accountID)
	}
	s.account.Balance = s.account.Balance.Sub(amount)
	return nil
}

// Credit 入帳
func (m *MutexLedger) Credit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: credit amount cannot be negative", domain.ErrInvalidParameter)
	}
	s, err := m.slot(accountID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account.Balance = s.account.Balance.Add(amount)
	return nil
}

// LockAccounts 依 ID 由小到大取得帳戶獨佔權
//
// 不論呼叫端傳入的順序為何都會排序，兩筆方向相反的轉帳不會互相等待成死結。
// ctx 結束時放棄等待，已取得的部分會釋放並回傳 ErrLockTimeout。
//
// 回傳:
//
//	unlock: 釋放所有已取得的獨佔權，可重複呼叫
//	error: 帳戶不存在或等待逾時
func (m *MutexLedger) LockAccounts(ctx context.Context, accountIDs ...int64) (func(), error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	slots := make([]*accountSlot, 0, len(ids))
	for _, id := range ids {
		s, err := m.slot(id)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}

	held := make([]*accountSlot, 0, len(slots))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].lease
		}
		held = held[:0]
	}

	for i, s := range slots {
		select {
		case s.lease <- struct{}{}:
			held = append(held, s)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("%w: account %d: %w", domain.ErrLockTimeout, ids[i], ctx.Err())
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

var _ usecase.Ledger = (*MutexLedger)(nil)
