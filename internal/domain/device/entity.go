package device

import (
	"strings"
	"unicode/utf8"
)

// Device 设备实体
// 设计说明:
// 1. InvNum(库存/序列号)是业务唯一标识,工单写入时用它引用设备
// 2. 部门和类型在接口上以标题表示,存储上是外键(DepartmentID/TypeID)
type Device struct {
	ID           uint
	InvNum       string // 库存/序列号
	Title        string // 设备名称
	DepartmentID uint
	Department   string // 部门标题
	TypeID       uint
	Type         string // 设备类型标题
}

// 字段长度上限
const (
	MaxInvNumLen = 30
	MaxTitleLen  = 50
)

// NewDevice 创建设备(工厂方法)
// 部门/类型的ID和标题由调用方解析后传入
func NewDevice(invNum, title string) (*Device, error) {
	d := &Device{}
	if err := d.UpdateInfo(invNum, title); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateInfo 修改编号和名称(领域行为)
func (d *Device) UpdateInfo(invNum, title string) error {
	invNum = strings.TrimSpace(invNum)
	title = strings.TrimSpace(title)

	if invNum == "" || utf8.RuneCountInString(invNum) > MaxInvNumLen {
		return ErrInvalidInvNum
	}
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLen {
		return ErrInvalidTitle
	}

	d.InvNum = invNum
	d.Title = title
	return nil
}

// MoveTo 修改所属部门
func (d *Device) MoveTo(departmentID uint, department string) {
	d.DepartmentID = departmentID
	d.Department = department
}

// Retype 修改设备类型
func (d *Device) Retype(typeID uint, typ string) {
	d.TypeID = typeID
	d.Type = typ
}
