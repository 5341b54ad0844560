package domain

import "time"

// 事件的 routing key
const (
	EventTransactionApplied  = "transaction.applied"
	EventTransactionRejected = "transaction.rejected"
)

// LedgerEvent 交易確定後對外發布的事件
type LedgerEvent struct {
	Type          string          `json:"type"`
	TransactionID string          `json:"transaction_id"`
	Kind          string          `json:"kind"`
	Status        string          `json:"status"`
	Amount        string          `json:"amount"`
	Source        int64           `json:"source,omitempty"`
	Destination   int64           `json:"destination,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Initiator     string          `json:"initiator,omitempty"`
	Sequence      uint64          `json:"sequence"`
	Changes       []BalanceChange `json:"changes"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewLedgerEvent 由帳本紀錄建立事件
func NewLedgerEvent(entry *LedgerEntry) LedgerEvent {
	txn := entry.Transaction
	typ := EventTransactionApplied
	if txn.Status == TransactionStatusRejected {
		typ = EventTransactionRejected
	}
	return LedgerEvent{
		Type:          typ,
		TransactionID: txn.ID,
		Kind:          txn.Kind.String(),
		Status:        txn.Status.String(),
		Amount:        txn.Amount.String(),
		Source:        txn.Source,
		Destination:   txn.Destination,
		Reason:        string(txn.Reason),
		Initiator:     txn.Initiator,
		Sequence:      entry.Sequence,
		Changes:       entry.Changes,
		OccurredAt:    entry.RecordedAt,
	}
}
