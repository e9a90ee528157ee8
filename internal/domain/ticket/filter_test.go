package ticket

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/helpdesk/internal/domain/query"
)

func TestParseFilter(t *testing.T) {
	t.Run("完整参数", func(t *testing.T) {
		f, err := ParseFilter(url.Values{
			"inventory_like":   {"INV"},
			"description_like": {"принтер"},
			"status":           {"0"},
			"department":       {"IT"},
			"date_gte":         {"2022-02-20T10:30:00.000Z"},
			"date_lte":         {"2022-02-28T00:00:00"},
			"sort":             {"owner"},
			"order":            {"desc"},
			"start":            {"10"},
			"end":              {"20"},
		})
		require.NoError(t, err)

		assert.Equal(t, "INV", f.InvNumPrefix)
		assert.Equal(t, "принтер", f.DescriptionContains)
		require.NotNil(t, f.Status)
		assert.False(t, *f.Status)
		assert.Equal(t, "IT", f.Department)
		assert.Equal(t, time.Date(2022, 2, 20, 0, 0, 0, 0, time.UTC), *f.CreatedFrom, "时间部分被截掉")
		assert.Equal(t, time.Date(2022, 2, 28, 0, 0, 0, 0, time.UTC), *f.CreatedTo)
		assert.Equal(t, &query.Sort{Field: SortOwner, Desc: true}, f.Sort)
		assert.Equal(t, &query.Page{Start: 10, End: 20}, f.Page)
	})

	t.Run("哨兵值和未定义日期视为未提供", func(t *testing.T) {
		f, err := ParseFilter(url.Values{
			"department": {AnyDepartment},
			"date_gte":   {"undefined"},
			"status":     {"yes"},
		})
		require.NoError(t, err)
		assert.Equal(t, Filter{}, f)
	})

	t.Run("非法参数", func(t *testing.T) {
		for _, v := range []url.Values{
			{"date_gte": {"20.02.2022"}},
			{"sort": {"password"}, "order": {"asc"}},
			{"sort": {"id"}, "order": {"sideways"}},
			{"start": {"a"}, "end": {"5"}},
		} {
			_, err := ParseFilter(v)
			assert.Error(t, err, v.Encode())
		}
	})
}

func TestParseDateRange(t *testing.T) {
	dr, err := ParseDateRange(url.Values{
		"date_gte": {"2022-02-20T00:00:00"},
		"date_lte": {"2022-02-22T23:59:59"},
		"status":   {"1"},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 2, 22, 0, 0, 0, 0, time.UTC), dr.To)
	require.NotNil(t, dr.Status)
	assert.True(t, *dr.Status)

	for _, v := range []url.Values{
		{},
		{"date_gte": {"2022-02-20T00:00:00"}},
		{"date_gte": {"2022-02-20T00:00:00"}, "date_lte": {"undefined"}},
		{"date_gte": {"bad"}, "date_lte": {"2022-02-22T00:00:00"}},
	} {
		_, err := ParseDateRange(v)
		assert.ErrorIs(t, err, ErrDateRangeRequired, v.Encode())
	}
}

func TestTicket(t *testing.T) {
	_, err := NewTicket("   ")
	assert.ErrorIs(t, err, ErrDescriptionRequired)

	tk, err := NewTicket("Не печатает принтер")
	require.NoError(t, err)
	assert.True(t, tk.Status, "新工单默认处理中")

	local := time.Date(2022, 2, 20, 23, 30, 0, 0, time.FixedZone("MSK", 3*3600))
	tk.SetCreated(&local)
	assert.Equal(t, time.Date(2022, 2, 20, 0, 0, 0, 0, time.UTC), *tk.Created, "按日历日期截断")

	tk.SetClosed(nil)
	assert.Nil(t, tk.Closed)
}
