package domain

import (
	"errors"
	"fmt"
)

// ErrKind 业务错误分类，由 transport 层统一映射成响应码
type ErrKind int

const (
	KindInternal ErrKind = iota
	KindInvalidArgument
	KindInvalidState
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindConflict
)

type Error struct {
	Kind ErrKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func E(kind ErrKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error { return E(KindInvalidArgument, format, args...) }
func InvalidState(format string, args ...any) error    { return E(KindInvalidState, format, args...) }
func NotFound(format string, args ...any) error        { return E(KindNotFound, format, args...) }
func Forbidden(format string, args ...any) error       { return E(KindForbidden, format, args...) }
func Unauthenticated(format string, args ...any) error { return E(KindUnauthenticated, format, args...) }
func Conflict(format string, args ...any) error        { return E(KindConflict, format, args...) }

// KindOf 非 *Error 一律视为内部错误
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrKind) bool { return err != nil && KindOf(err) == kind }
