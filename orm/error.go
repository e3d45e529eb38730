package orm

import (
	"github.com/startdusk/entityoh/orm/internal/errs"
)

// 通过桥接的方式将内部错误导出外部
var (
	ErrConfiguration = errs.ErrConfiguration
	ErrConnectivity  = errs.ErrConnectivity
	ErrExecution     = errs.ErrExecution

	ErrNoRows        = errs.ErrNoRows
	ErrGuardDisposed = errs.ErrGuardDisposed
	ErrReaderOpen    = errs.ErrReaderOpen
)
