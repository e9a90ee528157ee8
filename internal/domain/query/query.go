// Package query 列表接口通用的排序、切片、时间参数解析
//
// 每个资源在自己的domain包里定义枚举化的Filter结构体，
// 本包只负责几个跨资源共享的参数：sort/order、start/end、date_gte/date_lte。
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 排序方向
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TimestampLayout 查询参数中的时间格式（小数秒及之后的内容在解析前截掉）
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout 日期的序列化格式
const DateLayout = "2006-01-02"

var (
	ErrUnknownSortField = errors.New("未知的排序字段")
	ErrUnknownOrder     = errors.New("未知的排序方向")
	ErrInvalidRange     = errors.New("无效的切片范围")
	ErrInvalidTimestamp = errors.New("无效的时间参数")
)

// Sort 排序条件
type Sort struct {
	Field string
	Desc  bool
}

// Page 半开区间切片 [Start, End)
type Page struct {
	Start int
	End   int
}

// Limit 切片长度（End<=Start时为0，即空结果）
func (p Page) Limit() int {
	if p.End <= p.Start {
		return 0
	}
	return p.End - p.Start
}

// ParseSort 解析sort+order
// 规则：
//   - 两者都非空才生效，否则返回nil（不排序）
//   - order只接受asc/desc
//   - field必须在allowed白名单中
func ParseSort(field, order string, allowed []string) (*Sort, error) {
	if field == "" || order == "" {
		return nil, nil
	}

	var desc bool
	switch order {
	case OrderAsc:
	case OrderDesc:
		desc = true
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, order)
	}

	for _, f := range allowed {
		if f == field {
			return &Sort{Field: field, Desc: desc}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSortField, field)
}

// ParsePage 解析start+end
// 两者都非空才生效；必须是非负整数
func ParsePage(start, end string) (*Page, error) {
	if start == "" || end == "" {
		return nil, nil
	}

	s, err := strconv.Atoi(start)
	if err != nil {
		return nil, fmt.Errorf("%w: start=%q", ErrInvalidRange, start)
	}
	e, err := strconv.Atoi(end)
	if err != nil {
		return nil, fmt.Errorf("%w: end=%q", ErrInvalidRange, end)
	}
	if s < 0 || e < 0 {
		return nil, fmt.Errorf("%w: 不支持负数下标", ErrInvalidRange)
	}

	return &Page{Start: s, End: e}, nil
}

// ParseTimestamp 解析date_gte/date_lte
//   - 空串和"undefined"视为未提供，返回nil
//   - 第一个'.'及之后的内容被截掉（前端传来的毫秒、时区后缀）
//   - 结果截断为日期（created是日期字段）
func ParseTimestamp(raw string) (*time.Time, error) {
	raw = strings.SplitN(raw, ".", 2)[0]
	if raw == "" || raw == "undefined" {
		return nil, nil
	}

	t, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
	}
	d := DateOf(t)
	return &d, nil
}

// DateOf 截断为UTC零点
// 所有日期字段统一用UTC零点存储和比较
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析YYYY-MM-DD
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FormatDate 序列化日期，nil返回nil
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ParseStatus 解析status参数：只有"0"/"1"生效，其余值视为未提供
func ParseStatus(raw string) *bool {
	switch raw {
	case "1":
		v := true
		return &v
	case "0":
		v := false
		return &v
	default:
		return nil
	}
}
