package stock

import (
	"net/url"

	"github.com/xiebiao/helpdesk/internal/domain/query"
)

// 允许排序的字段
const (
	SortID       = "id"
	SortTitle    = "title"
	SortQuantity = "quantity"
)

// SortFields 排序白名单
var SortFields = []string{SortID, SortTitle, SortQuantity}

// PositionFilter 库存位置列表查询条件
type PositionFilter struct {
	TitleContains string // contains:名称包含(不区分大小写)
	Sort          *query.Sort
	Page          *query.Page
}

// ParsePositionFilter 从查询参数构造PositionFilter
func ParsePositionFilter(values url.Values) (PositionFilter, error) {
	f := PositionFilter{TitleContains: values.Get("contains")}

	sort, err := query.ParseSort(values.Get("sort"), values.Get("order"), SortFields)
	if err != nil {
		return PositionFilter{}, err
	}
	f.Sort = sort

	page, err := query.ParsePage(values.Get("start"), values.Get("end"))
	if err != nil {
		return PositionFilter{}, err
	}
	f.Page = page

	return f, nil
}
