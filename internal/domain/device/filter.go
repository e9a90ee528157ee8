package device

import (
	"net/url"

	"github.com/xiebiao/helpdesk/internal/domain/query"
)

// 哨兵值:前端下拉框"任意"选项,表示不限制(与不传参数等价)
const (
	AnyDepartment = "Любая"
	AnyType       = "Любой"
)

// 允许排序的字段
const (
	SortID         = "id"
	SortInvNum     = "inv_num"
	SortTitle      = "title"
	SortDepartment = "department"
	SortType       = "type"
)

// SortFields 排序白名单
var SortFields = []string{SortID, SortInvNum, SortTitle, SortDepartment, SortType}

// Filter 设备列表查询条件
// 组合顺序:过滤 → 排序 → 切片
type Filter struct {
	InvNumPrefix  string // inventory_like:编号前缀
	TitleContains string // title_like:名称包含(不区分大小写)
	Department    string // department:部门标题精确匹配
	Type          string // type:设备类型标题精确匹配
	Sort          *query.Sort
	Page          *query.Page
}

// ParseFilter 从查询参数构造Filter
// 未识别的参数忽略;排序字段/方向非法、切片参数非法时返回错误(由调用方决定降级)
func ParseFilter(values url.Values) (Filter, error) {
	f := Filter{
		InvNumPrefix:  values.Get("inventory_like"),
		TitleContains: values.Get("title_like"),
	}

	if dep := values.Get("department"); dep != AnyDepartment {
		f.Department = dep
	}
	if typ := values.Get("type"); typ != AnyType {
		f.Type = typ
	}

	sort, err := query.ParseSort(values.Get("sort"), values.Get("order"), SortFields)
	if err != nil {
		return Filter{}, err
	}
	f.Sort = sort

	page, err := query.ParsePage(values.Get("start"), values.Get("end"))
	if err != nil {
		return Filter{}, err
	}
	f.Page = page

	return f, nil
}
