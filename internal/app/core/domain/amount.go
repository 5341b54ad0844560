package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// amount 使用 int64，並定義精度：小數點後 4 位
const (
	CurrencyScale    = 10000
	currencyExponent = 4
)

// Amount 以最小單位 (1/10000) 表示的定點數金額，禁止使用浮點數
type Amount int64

// ParseAmount 將十進位字串 (如 "12.5") 精確轉換為 Amount
//
// 參數:
//
//	s: 十進位字串，小數位數不得超過 4 位
//
// 回傳:
//
//	Amount: 定點數金額
//	error: 格式錯誤、精度超出或溢位時回傳 ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	scaled := d.Shift(currencyExponent)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, currencyExponent)
	}
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || scaled.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return Amount(scaled.IntPart()), nil
}

// MustParseAmount 同 ParseAmount，失敗時 panic (僅供測試與常數使用)
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Units 以整數單位建立金額 (例: Units(100) == "100.0000")
func Units(n int64) Amount {
	return Amount(n * CurrencyScale)
}

// Decimal 轉換為 decimal.Decimal，不經過浮點數
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -currencyExponent)
}

// String 以固定 4 位小數輸出
func (a Amount) String() string {
	return a.Decimal().StringFixed(currencyExponent)
}

// IsPositive 金額是否大於零
func (a Amount) IsPositive() bool {
	return a > 0
}
