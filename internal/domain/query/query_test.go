package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	allowed := []string{"id", "title"}

	tests := []struct {
		name    string
		field   string
		order   string
		want    *Sort
		wantErr error
	}{
		{"升序", "id", "asc", &Sort{Field: "id"}, nil},
		{"降序", "title", "desc", &Sort{Field: "title", Desc: true}, nil},
		{"缺少order不排序", "id", "", nil, nil},
		{"缺少sort不排序", "", "desc", nil, nil},
		{"未知方向", "id", "up", nil, ErrUnknownOrder},
		{"未知字段", "password", "asc", nil, ErrUnknownSortField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSort(tt.field, tt.order, allowed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePage(t *testing.T) {
	t.Run("两者都提供", func(t *testing.T) {
		p, err := ParsePage("5", "15")
		require.NoError(t, err)
		assert.Equal(t, &Page{Start: 5, End: 15}, p)
		assert.Equal(t, 10, p.Limit())
	})

	t.Run("只提供一个不切片", func(t *testing.T) {
		p, err := ParsePage("5", "")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("end小于start得到空切片", func(t *testing.T) {
		p, err := ParsePage("10", "3")
		require.NoError(t, err)
		assert.Equal(t, 0, p.Limit())
	})

	t.Run("非整数", func(t *testing.T) {
		_, err := ParsePage("a", "3")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("负数", func(t *testing.T) {
		_, err := ParsePage("-1", "3")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Run("截掉小数秒并取日期", func(t *testing.T) {
		got, err := ParseTimestamp("2022-02-20T23:15:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2022, 2, 20, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("空值与undefined视为未提供", func(t *testing.T) {
		for _, raw := range []string{"", "undefined", "undefined.123"} {
			got, err := ParseTimestamp(raw)
			require.NoError(t, err)
			assert.Nil(t, got, raw)
		}
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := ParseTimestamp("20.02.2022")
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}

func TestParseStatus(t *testing.T) {
	assert.True(t, *ParseStatus("1"))
	assert.False(t, *ParseStatus("0"))
	assert.Nil(t, ParseStatus("true"))
	assert.Nil(t, ParseStatus(""))
}
