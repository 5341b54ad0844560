package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// MaxTransactionIDLength 冪等鍵的最大長度
const MaxTransactionIDLength = 64

// TransactionKind 交易類型
type TransactionKind uint8

const (
	// 存款
	TransactionKindDeposit TransactionKind = 1
	// 提款
	TransactionKindWithdraw TransactionKind = 2
	// 轉帳
	TransactionKindTransfer TransactionKind = 3
)

func (k TransactionKind) String() string {
	switch k {
	case TransactionKindDeposit:
		return "deposit"
	case TransactionKindWithdraw:
		return "withdraw"
	case TransactionKindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// TransactionStatus 交易狀態
type TransactionStatus uint8

const (
	TransactionStatusPending  TransactionStatus = 0
	TransactionStatusApplied  TransactionStatus = 1
	TransactionStatusRejected TransactionStatus = 2
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusPending:
		return "pending"
	case TransactionStatusApplied:
		return "applied"
	case TransactionStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Transaction 一筆資金異動
type Transaction struct {
	// ID: 冪等鍵 (clientTxnId)，由呼叫端提供或由服務產生
	ID     string          `json:"id"`
	Kind   TransactionKind `json:"kind"`
	Amount Amount          `json:"amount"`
	// Source: 提款/轉帳的扣款帳戶
	Source int64 `json:"source,omitempty"`
	// Destination: 存款/轉帳的入帳帳戶
	Destination int64             `json:"destination,omitempty"`
	Status      TransactionStatus `json:"status"`
	// Reason: 只有 Rejected 才有值
	Reason RejectReason `json:"reason,omitempty"`
	// Initiator: 呼叫者身分，只做稽核用途
	Initiator string    `json:"initiator,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	AppliedAt time.Time `json:"applied_at,omitempty"`
}

// NewTransactionID 產生服務端的冪等鍵
func NewTransactionID() string {
	return uuid.NewString()
}

// ValidateTransactionID 檢查冪等鍵是否可用
func ValidateTransactionID(id string) error {
	if id == "" || len(id) > MaxTransactionIDLength {
		return ErrInvalidTransactionID
	}
	return nil
}

// AccountIDs 回傳交易涉及的帳號 ID (由小到大、去重)
// 同時也是取得帳戶鎖的順序，固定順序以避免死鎖
func (t *Transaction) AccountIDs() []int64 {
	ids := make([]int64, 0, 2)
	switch t.Kind {
	case TransactionKindTransfer:
		ids = append(ids, t.Source, t.Destination)
	case TransactionKindDeposit:
		ids = append(ids, t.Destination)
	case TransactionKindWithdraw:
		ids = append(ids, t.Source)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// SameRequest 判斷兩筆交易是否為同一個請求 (冪等重送比對用)
func (t *Transaction) SameRequest(other *Transaction) bool {
	return t.ID == other.ID &&
		t.Kind == other.Kind &&
		t.Amount == other.Amount &&
		t.Source == other.Source &&
		t.Destination == other.Destination
}

type initiatorKey struct{}

// WithInitiator 將呼叫者身分放入 context
func WithInitiator(ctx context.Context, initiator string) context.Context {
	return context.WithValue(ctx, initiatorKey{}, initiator)
}

// InitiatorFrom 取出呼叫者身分，沒有則回傳空字串
func InitiatorFrom(ctx context.Context) string {
	v, _ := ctx.Value(initiatorKey{}).(string)
	return v
}
