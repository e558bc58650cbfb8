package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"seafood-shop/internal/domain"
)

// wrapDup 唯一键冲突转成 Conflict，其它原样返回
func wrapDup(err error) error {
	if err == nil {
		return nil
	}
	if isDupKey(err) {
		return domain.Conflict("duplicate value")
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 未开启 TranslateError 时按驱动报错文本兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
