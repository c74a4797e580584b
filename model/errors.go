package model

import "errors"

// 错误类别，见各组件契约
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidConfig          = errors.New("invalid config")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)
