package db

import (
	"time"

	"metro-system/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertRating 写入或覆盖用户对帖子的评分
// 依赖 (post_id, created_by) 唯一索引做单条原子 upsert，
// 不用先查再写，避免同一用户并发评分时插入重复行
func UpsertRating(tx *gorm.DB, postID, userID uint, value int) error {
	rating := model.Rating{
		PostID:    postID,
		Value:     value,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "created_by"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "created_at"}),
	}).Create(&rating).Error
}
