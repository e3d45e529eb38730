package valuer

import (
	"reflect"

	"github.com/startdusk/entityoh/orm/internal/errs"
	"github.com/startdusk/entityoh/orm/model"
)

type reflectValue struct {
	model *model.Model

	// val 是实体的指针
	val reflect.Value
}

// 确保类型变更 我们能得到通知
var _ Creator = NewReflectValue

func NewReflectValue(model *model.Model, val any) Value {
	return &reflectValue{
		model: model,
		val:   reflect.ValueOf(val),
	}
}

func (r reflectValue) Field(col string) (any, error) {
	if r.val.Kind() != reflect.Pointer || r.val.IsNil() || r.val.Elem().Kind() != reflect.Struct {
		return nil, errs.ErrPointerOnly
	}
	fd, ok := r.model.ColumnMap[col]
	if !ok {
		return nil, errs.NewErrUnknownColumn(col)
	}
	// 手动构造的元数据可能没有 GoName, 或者实体和元数据不匹配
	if fd.GoName == "" {
		return nil, errs.NewErrUnknownField(col)
	}
	fv := r.val.Elem().FieldByName(fd.GoName)
	if !fv.IsValid() {
		return nil, errs.NewErrUnknownField(fd.GoName)
	}
	return fv.Interface(), nil
}
