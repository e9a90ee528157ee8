package ticket

import (
	"net/url"
	"time"

	"github.com/xiebiao/helpdesk/internal/domain/query"
)

// AnyDepartment 部门哨兵值:表示不限制部门
const AnyDepartment = "Любая"

// 允许排序的字段
const (
	SortID          = "id"
	SortCreated     = "created"
	SortClosed      = "closed"
	SortDescription = "description"
	SortStatus      = "status"
	SortOwner       = "owner"
	SortDevice      = "device"
	SortPriority    = "priority"
	SortCategory    = "category"
)

// SortFields 排序白名单
var SortFields = []string{
	SortID, SortCreated, SortClosed, SortDescription, SortStatus,
	SortOwner, SortDevice, SortPriority, SortCategory,
}

// Filter 工单列表查询条件
// 组合顺序:过滤 → 排序 → 切片
type Filter struct {
	InvNumPrefix        string     // inventory_like:设备编号前缀
	DescriptionContains string     // description_like:描述包含(不区分大小写)
	Status              *bool      // status:"1"/"0"
	Department          string     // department:设备所属部门标题
	CreatedFrom         *time.Time // date_gte:创建日期下界(含)
	CreatedTo           *time.Time // date_lte:创建日期上界(含)
	Sort                *query.Sort
	Page                *query.Page
}

// ParseFilter 从查询参数构造Filter
// 未识别的参数忽略;日期/排序/切片参数非法时返回错误(由调用方决定降级)
func ParseFilter(values url.Values) (Filter, error) {
	f := Filter{
		InvNumPrefix:        values.Get("inventory_like"),
		DescriptionContains: values.Get("description_like"),
		Status:              query.ParseStatus(values.Get("status")),
	}

	if dep := values.Get("department"); dep != AnyDepartment {
		f.Department = dep
	}

	var err error
	if f.CreatedFrom, err = query.ParseTimestamp(values.Get("date_gte")); err != nil {
		return Filter{}, err
	}
	if f.CreatedTo, err = query.ParseTimestamp(values.Get("date_lte")); err != nil {
		return Filter{}, err
	}

	if f.Sort, err = query.ParseSort(values.Get("sort"), values.Get("order"), SortFields); err != nil {
		return Filter{}, err
	}
	if f.Page, err = query.ParsePage(values.Get("start"), values.Get("end")); err != nil {
		return Filter{}, err
	}

	return f, nil
}

// DateRange 统计接口的查询条件
type DateRange struct {
	From   time.Time
	To     time.Time
	Status *bool
}

// ParseDateRange 解析统计接口参数:date_gte/date_lte必填
func ParseDateRange(values url.Values) (DateRange, error) {
	from, err := query.ParseTimestamp(values.Get("date_gte"))
	if err != nil || from == nil {
		return DateRange{}, ErrDateRangeRequired
	}
	to, err := query.ParseTimestamp(values.Get("date_lte"))
	if err != nil || to == nil {
		return DateRange{}, ErrDateRangeRequired
	}

	return DateRange{
		From:   *from,
		To:     *to,
		Status: query.ParseStatus(values.Get("status")),
	}, nil
}
