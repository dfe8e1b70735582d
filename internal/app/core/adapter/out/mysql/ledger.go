package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/account-ledger/pkg/mysql"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID         int64           `gorm:"primaryKey"`
	HolderName string          `gorm:"column:holder_name"`
	Currency   string          `gorm:"column:currency;type:char(3)"`
	Balance    decimal.Decimal `gorm:"column:balance;type:decimal(38,8)"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

func (a *sqlAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:         a.ID,
		HolderName: a.HolderName,
		Currency:   a.Currency,
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
	}
}

// AccountSource 啟動時從 MySQL 載入帳戶 (唯讀)
// 帳本本身只存在記憶體，這裡不會寫回任何變動
type AccountSource struct {
	client *mysql.Client
}

func NewAccountSource(client *mysql.Client) *AccountSource {
	return &AccountSource{
		client: client,
	}
}

// LoadAllAccounts 載入所有帳戶，依 ID 排序
func (s *AccountSource) LoadAllAccounts(ctx context.Context) ([]*domain.Account, error) {
	var rows []sqlAccount
	if err := s.client.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toDomain())
	}
	return accounts, nil
}
