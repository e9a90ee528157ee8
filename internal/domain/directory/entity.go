package directory

import (
	"strings"
	"unicode/utf8"
)

// Kind 字典类型
// 设计说明:
// 1. 部门、设备类型、工作类型、分类、优先级都是"按标题唯一"的简单字典
// 2. 它们在接口上以标题（slug）被引用，存储上各自一张表
// 3. 用Kind区分,共享同一套领域规则(标题非空、唯一、长度上限)
type Kind string

const (
	KindDepartment Kind = "department"
	KindDevType    Kind = "devtype"
	KindWorkType   Kind = "worktype"
	KindCategory   Kind = "category"
	KindPriority   Kind = "priority"
)

// Kinds 所有字典类型
var Kinds = []Kind{KindDepartment, KindDevType, KindWorkType, KindCategory, KindPriority}

// Valid 是否为已知类型
func (k Kind) Valid() bool {
	for _, kk := range Kinds {
		if kk == k {
			return true
		}
	}
	return false
}

// Label 中文名称(用于错误提示)
func (k Kind) Label() string {
	switch k {
	case KindDepartment:
		return "部门"
	case KindDevType:
		return "设备类型"
	case KindWorkType:
		return "工作类型"
	case KindCategory:
		return "分类"
	case KindPriority:
		return "优先级"
	default:
		return string(k)
	}
}

// MaxTitleLen 标题长度上限(字符数)
func (k Kind) MaxTitleLen() int {
	switch k {
	case KindDevType:
		return 50
	case KindCategory, KindPriority:
		return 100
	default:
		return 200
	}
}

// Entry 字典项
// Number仅对优先级有意义(排序用的序号)
type Entry struct {
	ID     uint
	Kind   Kind
	Title  string
	Number uint
}

// NewEntry 创建字典项(工厂方法)
func NewEntry(kind Kind, title string, number uint) (*Entry, error) {
	e := &Entry{Kind: kind, Number: number}
	if err := e.Rename(title); err != nil {
		return nil, err
	}
	return e, nil
}

// Rename 修改标题(领域行为)
// 业务规则:标题去掉首尾空白后非空,且不超过该类型的长度上限
func (e *Entry) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > e.Kind.MaxTitleLen() {
		return ErrTitleTooLong.Withf("标题不能超过%d个字符", e.Kind.MaxTitleLen())
	}
	e.Title = title
	return nil
}
