package domain

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// BalanceChange 單一帳戶在一筆交易前後的餘額
type BalanceChange struct {
	AccountID int64  `json:"account_id"`
	Before    Amount `json:"before"`
	After     Amount `json:"after"`
	// Version: 交易後的帳戶版本 (Rejected 時為讀取當下的版本)
	Version int64 `json:"version"`
}

// LedgerEntry 帳本紀錄，寫入後不可修改
type LedgerEntry struct {
	// Sequence: 帳本分配的遞增序號，也是分頁游標
	Sequence    uint64          `json:"sequence"`
	Transaction Transaction     `json:"transaction"`
	Changes     []BalanceChange `json:"changes"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// Change 取得指定帳戶的餘額變化
func (e *LedgerEntry) Change(accountID int64) (BalanceChange, bool) {
	for _, c := range e.Changes {
		if c.AccountID == accountID {
			return c, true
		}
	}
	return BalanceChange{}, false
}

// Touches 該筆紀錄是否與帳戶有關 (來源或目的)
func (e *LedgerEntry) Touches(accountID int64) bool {
	for _, id := range e.Transaction.AccountIDs() {
		if id == accountID {
			return true
		}
	}
	return false
}

// Page 歷史查詢的分頁條件
// Before 為 0 表示從最新一筆開始；否則只回傳 Sequence < Before 的紀錄
type Page struct {
	Limit  int
	Before uint64
}

// Normalize 套用預設值與上限
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// HistoryPage 一頁歷史紀錄 (新到舊)
// NextBefore 為下一頁的游標，0 表示沒有更多資料
type HistoryPage struct {
	Entries    []LedgerEntry
	NextBefore uint64
}

// NewHistoryPage 由「多取一筆」的查詢結果組出分頁
func NewHistoryPage(entries []LedgerEntry, limit int) HistoryPage {
	if len(entries) <= limit {
		return HistoryPage{Entries: entries}
	}
	entries = entries[:limit]
	return HistoryPage{Entries: entries, NextBefore: entries[len(entries)-1].Sequence}
}
