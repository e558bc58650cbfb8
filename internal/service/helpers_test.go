package service

import (
	"github.com/shopspring/decimal"

	"seafood-shop/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func kindOf(err error) domain.ErrKind { return domain.KindOf(err) }
