package stock

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLen 库存位置名称长度上限
const MaxTitleLen = 100

// Position 库存位置(仓库中的一种备件)
// 业务规则:Quantity是现存数量,任何消耗写入都不能把它扣成负数
type Position struct {
	ID       uint
	Title    string
	Quantity int
}

// NewPosition 创建库存位置(工厂方法)
func NewPosition(title string, quantity int) (*Position, error) {
	p := &Position{}
	if err := p.Rename(title); err != nil {
		return nil, err
	}
	if err := p.SetQuantity(quantity); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename 修改名称
func (p *Position) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLen {
		return ErrInvalidTitle
	}
	p.Title = title
	return nil
}

// SetQuantity 盘点:直接设置现存数量
func (p *Position) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	p.Quantity = quantity
	return nil
}

// CanSupply 现存数量是否足够本次消耗
func (p *Position) CanSupply(quantity int) bool {
	return quantity <= p.Quantity
}

// Expenditure 消耗记录(库存台账的变更单位)
// 创建时从Position扣减Quantity,删除时归还Quantity
type Expenditure struct {
	ID         uint
	PositionID uint
	Position   string // 库存位置名称
	Quantity   int
	TicketID   *uint // 所属工单(可为空:直接领用)
}
