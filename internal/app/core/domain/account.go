package domain

import (
	"fmt"
	"math"
)

// Account 帳戶
//
// 結構:
//
//	ID: 帳戶 ID (建立後不可變)
//	OwnerID: 客戶 ID (不可變)
//	Balance: 餘額，已提交狀態下永遠 >= 0
//	Currency: 幣別，每個帳戶固定
//	Version: 每次提交的變更 +1，用於樂觀鎖 (Compare-And-Swap)
type Account struct {
	ID       int64  `json:"id"`
	OwnerID  string `json:"owner_id"`
	Balance  Amount `json:"balance"`
	Currency string `json:"currency"`
	Version  int64  `json:"version"`
}

// Credit 計算存入後的新餘額，不修改帳戶本身
// 新餘額超出可表示範圍時回傳 ErrInvalidAmount
func (a *Account) Credit(amount Amount) (Amount, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	if amount > math.MaxInt64-a.Balance {
		return 0, fmt.Errorf("%w: balance overflow", ErrInvalidAmount)
	}
	return a.Balance + amount, nil
}

// Debit 計算扣款後的新餘額，不修改帳戶本身
// 不允許透支：餘額不足回傳 ErrInsufficientFunds
func (a *Account) Debit(amount Amount) (Amount, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	if a.Balance < amount {
		return 0, ErrInsufficientFunds
	}
	return a.Balance - amount, nil
}
