package valuer

import (
	"github.com/startdusk/entityoh/orm/model"
)

// Value 是对实体实例的内部抽象, 用于按列取值绑定参数
type Value interface {
	// Field 返回列对应字段的值
	Field(col string) (any, error)
}

type Creator func(model *model.Model, entity any) Value
