package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount 金額必須為正數 (且精度不超過 4 位)
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrSameAccount 轉帳來源與目的相同
	ErrSameAccount = errors.New("source and destination account are the same")

	// ErrCurrencyMismatch 轉帳雙方幣別不同
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidTransactionID 冪等鍵為空或過長
	ErrInvalidTransactionID = errors.New("invalid transaction id")

	// ErrIdempotencyKeyReuse 同一個冪等鍵被用在不同的請求
	ErrIdempotencyKeyReuse = errors.New("transaction id already used by a different request")

	// ErrVersionConflict 提交時發現帳戶已被其他操作修改
	ErrVersionConflict = errors.New("version conflict")

	// ErrStorageUnavailable 儲存層無法使用
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrLockTimeout 取得帳戶鎖逾時
	ErrLockTimeout = errors.New("account lock timeout")

	// ErrEntryNotFound 帳本查無此交易
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrTransient 暫時性失敗，呼叫端可重試整個請求
	ErrTransient = errors.New("transient failure")

	// ErrFatal 本次請求失敗，核心不會自行重試
	ErrFatal = errors.New("fatal failure")
)

// RejectReason 交易被拒絕的原因，會寫入帳本
type RejectReason string

const (
	ReasonInvalidAmount     RejectReason = "invalid_amount"
	ReasonSameAccount       RejectReason = "same_account"
	ReasonAccountNotFound   RejectReason = "account_not_found"
	ReasonCurrencyMismatch  RejectReason = "currency_mismatch"
	ReasonInsufficientFunds RejectReason = "insufficient_funds"
)

// Err 轉換為對應的 sentinel error
func (r RejectReason) Err() error {
	switch r {
	case ReasonInvalidAmount:
		return ErrInvalidAmount
	case ReasonSameAccount:
		return ErrSameAccount
	case ReasonAccountNotFound:
		return ErrAccountNotFound
	case ReasonCurrencyMismatch:
		return ErrCurrencyMismatch
	case ReasonInsufficientFunds:
		return ErrInsufficientFunds
	default:
		return fmt.Errorf("rejected: %s", string(r))
	}
}

// RejectionError 交易已被拒絕並記錄在帳本
type RejectionError struct {
	Entry    LedgerEntry
	Replayed bool
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("transaction %s rejected: %v", e.Entry.Transaction.ID, e.Entry.Transaction.Reason.Err())
}

func (e *RejectionError) Unwrap() error {
	return e.Entry.Transaction.Reason.Err()
}

// ErrorKind 對外的錯誤分類
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindInvalidAmount
	KindInsufficientFunds
	KindInvalidRequest
	KindConflict
	KindTransient
	KindFatal
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindInvalidRequest:
		return "invalid_request"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// KindOf 將任意錯誤歸類
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrSameAccount),
		errors.Is(err, ErrCurrencyMismatch),
		errors.Is(err, ErrInvalidTransactionID):
		return KindInvalidRequest
	case errors.Is(err, ErrIdempotencyKeyReuse):
		return KindConflict
	case errors.Is(err, ErrTransient),
		errors.Is(err, ErrVersionConflict),
		errors.Is(err, ErrLockTimeout):
		return KindTransient
	case errors.Is(err, ErrFatal),
		errors.Is(err, ErrStorageUnavailable):
		return KindFatal
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}

// Retryable 呼叫端是否可以重送整個請求
func Retryable(err error) bool {
	return KindOf(err) == KindTransient
}
