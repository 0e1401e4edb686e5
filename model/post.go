package model

import (
	"time"

	"github.com/lib/pq"
)

// Post 用户发布的帖子，可关联一个站点或一个地点
// 删除帖子时级联删除其下的评论和评分
type Post struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"index;not null"`
	Body      string         `json:"body" gorm:"type:text"`
	Image     string         `json:"image,omitempty"`                  // 图片地址，可为空
	Tags      pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"` // 自由标签
	StationID *uint          `json:"station_id"`
	Station   *Station       `json:"station,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	PlaceID   *uint          `json:"place_id"`
	Place     *Place         `json:"place,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CreatedBy uint           `json:"created_by" gorm:"index;not null"` // 服务端从登录态填充，不信任客户端
	IsPublic  bool           `json:"is_public" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Comment 帖子下的评论
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedBy uint      `json:"created_by" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating 帖子评分，取值 1~5
// 唯一索引 (post_id, created_by): 同一用户对同一帖子只能有一条评分，重复提交时覆盖旧值
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"uniqueIndex:idx_rating_post_user;not null"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Value     int       `json:"value" gorm:"not null"` // 1~5
	CreatedBy uint      `json:"created_by" gorm:"uniqueIndex:idx_rating_post_user;not null"`
	CreatedAt time.Time `json:"created_at"`
}
