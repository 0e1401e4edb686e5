package db

import (
	"strings"

	"metro-system/model"

	"gorm.io/gorm"
)

// PlaceFilter 地点列表的过滤条件
type PlaceFilter struct {
	CategoryID *uint
	StationID  *uint
	Query      string // 名称或描述任一匹配，大小写不敏感
}

// PlaceQuery 把过滤条件叠加到查询上
// 外键过滤传了不存在的 id 时自然得到空结果，不报错
func PlaceQuery(tx *gorm.DB, f PlaceFilter) *gorm.DB {
	q := tx.Model(&model.Place{})

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.StationID != nil {
		q = q.Where("station_id = ?", *f.StationID)
	}
	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	return q
}
