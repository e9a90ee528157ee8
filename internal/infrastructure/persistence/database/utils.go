package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/helpdesk/internal/domain/query"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// isDuplicateError 判断是否为唯一索引冲突
//   - MySQL:    Error 1062: Duplicate entry 'xxx' for key 'yyy'
//   - Postgres: SQLSTATE 23505 duplicate key value violates unique constraint
//   - SQLite:   UNIQUE constraint failed: table.column
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// dependent 引用某张表主键的外键列
type dependent struct {
	table  string
	column string
}

// ensureUnreferenced 删除前的引用检查("受保护"外键的显式实现)
func ensureUnreferenced(db *gorm.DB, id uint, deps ...dependent) error {
	for _, dep := range deps {
		var n int64
		if err := db.Table(dep.table).Where(dep.column+" = ?", id).Count(&n).Error; err != nil {
			return apperrors.Wrap(err, "检查引用失败")
		}
		if n > 0 {
			return apperrors.ErrReferenced.Withf("记录仍被%d条%s引用，无法删除", n, dep.table)
		}
	}
	return nil
}

// likeEscape 转义LIKE通配符,配合 ESCAPE '!' 使用(三种方言通用)
func likeEscape(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// prefixPattern 前缀匹配
func prefixPattern(s string) string {
	return likeEscape(s) + "%"
}

// containsPattern 不区分大小写的包含匹配(调用方对列使用LOWER)
func containsPattern(s string) string {
	return "%" + likeEscape(strings.ToLower(s)) + "%"
}

// applySort 按白名单映射后的列排序,主键作为同方向的次排序键
// 保证同一数据上asc与desc的结果互为逆序
func applySort(db *gorm.DB, sort *query.Sort, columns map[string]string, pk string) *gorm.DB {
	if sort == nil {
		return db
	}
	column, ok := columns[sort.Field]
	if !ok {
		return db
	}
	dir := " ASC"
	if sort.Desc {
		dir = " DESC"
	}
	db = db.Order(column + dir)
	if column != pk {
		db = db.Order(pk + dir)
	}
	return db
}

// applyPage 半开区间切片 [start, end)
func applyPage(db *gorm.DB, page *query.Page) *gorm.DB {
	if page == nil {
		return db
	}
	return db.Offset(page.Start).Limit(page.Limit())
}
