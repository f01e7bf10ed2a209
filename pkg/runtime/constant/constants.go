package constant

import "errors"

var (
	ErrConfigNotFound     = errors.New("config not found")
	ErrParse              = errors.New("parse error")
	ErrAddressingMismatch = errors.New("addressing mismatch")
	ErrWriteFailure       = errors.New("write failure")
	ErrEmptyInput         = errors.New("empty input")
	ErrUnknownDialect     = errors.New("unknown dialect")
	ErrInvalidConfig      = errors.New("invalid generation config")
)
