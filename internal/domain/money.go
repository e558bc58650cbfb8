package domain

import "github.com/shopspring/decimal"

func init() {
	// 前端按 number 读取金额
	decimal.MarshalJSONWithoutQuotes = true
}

// MinQuantity 允许散装 0.1kg
var MinQuantity = decimal.RequireFromString("0.1")

func Money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
