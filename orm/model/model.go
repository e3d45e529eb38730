package model

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/startdusk/entityoh/orm/internal/errs"
)

const (
	tagName     = "orm"
	tagColumn   = "column"
	tagPrimary  = "primary"
	tagIdentity = "identity"
)

// Model 是一个实体类型的持久化元数据
type Model struct {
	TableName string

	// Fields 保持结构体字段的声明顺序, 生成的 SQL 依赖这个顺序
	Fields []*Field

	// GoName => Field
	FieldMap map[string]*Field
	// ColName => Field
	ColumnMap map[string]*Field
}

// Identity 返回自增列, 没有则返回 nil
func (m *Model) Identity() *Field {
	for _, fd := range m.Fields {
		if fd.Identity {
			return fd
		}
	}
	return nil
}

// Primaries 按声明顺序返回所有主键字段
func (m *Model) Primaries() []*Field {
	var res []*Field
	for _, fd := range m.Fields {
		if fd.Primary {
			res = append(res, fd)
		}
	}
	return res
}

type Field struct {
	// 列名
	ColName string
	GoName  string
	Type    reflect.Type

	// Primary 参与 SELECT/UPDATE/DELETE 的 WHERE 条件
	Primary bool
	// Identity 由数据库生成, 不出现在 INSERT 的列和 UPDATE 的 SET 里面
	Identity bool
}

type ModelOption func(m *Model) error

// TableName 用户实现这个接口来自定义表名
type TableName interface {
	TableName() string
}

// Registry 代表元数据的注册中心
type Registry interface {
	Get(entity any) (*Model, error)
	Register(entity any, opts ...ModelOption) (*Model, error)
}

type registry struct {
	// reflect.Type 作为 key, 可以区分不同包下的同名结构体
	models map[reflect.Type]*Model

	// 使用严格的读写锁, 采用 double check 写法
	lock sync.RWMutex
}

func NewRegistry() Registry {
	return newRegistry()
}

func newRegistry() *registry {
	return &registry{
		// 一个项目如果超过64张表, 说明需要拆分了
		models: make(map[reflect.Type]*Model, 64),
	}
}

func (r *registry) Get(entity any) (*Model, error) {
	typ := reflect.TypeOf(entity)
	r.lock.RLock()
	m, ok := r.models[typ]
	r.lock.RUnlock()
	if ok {
		return m, nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	m, ok = r.models[typ]
	if ok {
		return m, nil
	}

	m, err := r.parseModel(entity)
	if err != nil {
		return nil, err
	}
	r.models[typ] = m
	return m, nil
}

// Register 在启动阶段显式注册实体, 覆盖已有的元数据
func (r *registry) Register(entity any, opts ...ModelOption) (*Model, error) {
	m, err := r.parseModel(entity)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	r.lock.Lock()
	r.models[reflect.TypeOf(entity)] = m
	r.lock.Unlock()
	return m, nil
}

// 只支持输入指针类型的结构体
func (r *registry) parseModel(entity any) (*Model, error) {
	typ := reflect.TypeOf(entity)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return nil, errs.ErrPointerOnly
	}
	elem := typ.Elem()
	numField := elem.NumField()
	fields := make([]*Field, 0, numField)
	for i := 0; i < numField; i++ {
		fd := elem.Field(i)
		if !fd.IsExported() {
			continue
		}
		pair, err := r.parseTag(fd.Tag)
		if err != nil {
			return nil, err
		}
		colName := pair[tagColumn]
		if colName == "" {
			colName = underscoreName(fd.Name)
		}
		primary, err := parseBool(pair, tagPrimary)
		if err != nil {
			return nil, err
		}
		identity, err := parseBool(pair, tagIdentity)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &Field{
			ColName:  colName,
			GoName:   fd.Name,
			Type:     fd.Type,
			Primary:  primary,
			Identity: identity,
		})
	}

	var tableName string
	if tbl, ok := entity.(TableName); ok {
		tableName = tbl.TableName()
	}
	if tableName == "" {
		tableName = underscoreName(elem.Name())
	}

	m := &Model{
		TableName: tableName,
		Fields:    fields,
	}
	m.index()
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseTag 解析 `orm:"column=user_id,primary=true"`, key 只能是 column, primary 或 identity
func (r *registry) parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag, ok := tag.Lookup(tagName)
	if !ok {
		return nil, nil
	}
	pairs := strings.Split(ormTag, ",")
	tags := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		segs := strings.Split(pair, "=")
		if len(segs) != 2 {
			return nil, errs.NewErrIinvalidTagContent(pair)
		}
		key, val := strings.TrimSpace(segs[0]), strings.TrimSpace(segs[1])
		// 拼错的 key 会让主键被静默忽略, 直接报错
		switch key {
		case tagColumn, tagPrimary, tagIdentity:
		default:
			return nil, errs.NewErrIinvalidTagContent(pair)
		}
		tags[key] = val
	}
	return tags, nil
}

func parseBool(pair map[string]string, key string) (bool, error) {
	val, ok := pair[key]
	if !ok || val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errs.NewErrIinvalidTagContent(key + "=" + val)
	}
	return b, nil
}

// New 直接用外部提供的元数据构造 Model, 不经过反射
func New(tableName string, fields ...*Field) (*Model, error) {
	m := &Model{
		TableName: tableName,
		Fields:    fields,
	}
	m.index()
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) index() {
	m.FieldMap = make(map[string]*Field, len(m.Fields))
	m.ColumnMap = make(map[string]*Field, len(m.Fields))
	for _, fd := range m.Fields {
		if fd.GoName != "" {
			m.FieldMap[fd.GoName] = fd
		}
		m.ColumnMap[fd.ColName] = fd
	}
}

// validate 在注册阶段拦截构造语句时才会暴露的问题
func (m *Model) validate() error {
	if m.TableName == "" {
		return errs.NewErrEmptyTableName()
	}
	var identity *Field
	seen := make(map[string]struct{}, len(m.Fields))
	for _, fd := range m.Fields {
		if _, ok := seen[fd.ColName]; ok {
			return errs.NewErrDuplicateColumn(m.TableName, fd.ColName)
		}
		seen[fd.ColName] = struct{}{}
		if !fd.Identity {
			continue
		}
		if identity != nil {
			return errs.NewErrMultipleIdentity(m.TableName, identity.ColName, fd.ColName)
		}
		identity = fd
	}
	return nil
}

func ModelWithTableName(tableName string) ModelOption {
	return func(m *Model) error {
		m.TableName = tableName
		return nil
	}
}

func ModelWithColumnName(field string, colName string) ModelOption {
	return func(m *Model) error {
		fd, ok := m.FieldMap[field]
		if !ok {
			return errs.NewErrUnknownField(field)
		}
		delete(m.ColumnMap, fd.ColName)
		fd.ColName = colName
		m.ColumnMap[colName] = fd
		return nil
	}
}

// ModelWithPrimary 把字段标记为主键
func ModelWithPrimary(fields ...string) ModelOption {
	return func(m *Model) error {
		for _, name := range fields {
			fd, ok := m.FieldMap[name]
			if !ok {
				return errs.NewErrUnknownField(name)
			}
			fd.Primary = true
		}
		return nil
	}
}

// ModelWithIdentity 把字段标记为自增列
func ModelWithIdentity(field string) ModelOption {
	return func(m *Model) error {
		fd, ok := m.FieldMap[field]
		if !ok {
			return errs.NewErrUnknownField(field)
		}
		fd.Identity = true
		return nil
	}
}

// 驼峰名字符串转下划线命名
func underscoreName(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, v := range runes {
		if unicode.IsUpper(v) {
			// 前一个是小写, 或者是连续大写的最后一个
			if i != 0 && (!unicode.IsUpper(runes[i-1]) ||
				i < len(runes)-1 && !unicode.IsUpper(runes[i+1])) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(v))
		} else {
			sb.WriteRune(v)
		}
	}
	return sb.String()
}
