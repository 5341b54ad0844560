package usecase

import (
	"context"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// AccountStore 帳戶儲存
// 只允許透過 CompareAndSwap 修改餘額，不提供盲寫
type AccountStore interface {
	// Get 取得帳戶最新已提交的狀態，不存在回傳 domain.ErrAccountNotFound
	Get(ctx context.Context, accountID int64) (*domain.Account, error)
	// CompareAndSwap 版本相符才寫入新餘額並將版本 +1，回傳寫入後的帳戶
	// 版本不符回傳 domain.ErrVersionConflict
	CompareAndSwap(ctx context.Context, accountID int64, expectedVersion int64, newBalance domain.Amount) (*domain.Account, error)
	// Open 開戶 (外部流程使用)，帳戶已存在時不做任何事
	Open(ctx context.Context, account domain.Account) error
}

// LedgerLog 只能追加的帳本
type LedgerLog interface {
	// Append 寫入一筆紀錄並分配 Sequence，只會因儲存層故障而失敗
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	// Lookup 以交易 ID 查詢，不存在回傳 domain.ErrEntryNotFound
	Lookup(ctx context.Context, transactionID string) (*domain.LedgerEntry, error)
	// ListByAccount 依新到舊列出帳戶相關紀錄
	ListByAccount(ctx context.Context, accountID int64, page domain.Page) (domain.HistoryPage, error)
}

// TxManager 讓同一個 fn 內的 CompareAndSwap 與 Append 一起提交或一起放棄
type TxManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Controller 帳戶層級的並行控制
type Controller interface {
	// Lock 取得所有帳戶的獨佔存取權，release 必須被呼叫
	Lock(ctx context.Context, accountIDs ...int64) (release func(), err error)
}

// EventPublisher 交易確定後的事件發布
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}
