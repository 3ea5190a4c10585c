package model

import "fmt"

// ShapeError means an input had the wrong rank or dimensions.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string {
	return "shape error: " + e.Msg
}

func NewShapeError(format string, args ...any) error {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigError means an option was out of range, e.g. a BPM of zero.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Msg
}

func NewConfigError(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// ArithmeticError means a computation hit a degenerate denominator.
type ArithmeticError struct {
	Msg string
}

func (e *ArithmeticError) Error() string {
	return "arithmetic error: " + e.Msg
}

func NewArithmeticError(format string, args ...any) error {
	return &ArithmeticError{Msg: fmt.Sprintf(format, args...)}
}
