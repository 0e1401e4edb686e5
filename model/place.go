package model

import "time"

// Place 用户登记的兴趣点 (POI)，挂在一个分类下，可关联最近的站点
// 删除分类时级联删除其下地点；删除站点时只把 station_id 置空，地点本身保留
type Place struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"index;not null"`
	Description string    `json:"description"`
	CategoryID  uint      `json:"category_id" gorm:"not null"`
	Category    *Category `json:"category,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	StationID   *uint     `json:"station_id"` // 最近的站点，可为空
	Station     *Station  `json:"station,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Lat         float64   `json:"lat" gorm:"type:decimal(10,7)"` // 比站点精度更高
	Lng         float64   `json:"lng" gorm:"type:decimal(10,7)"`
	CreatedBy   *uint     `json:"created_by"` // 创建者，用户注销后置空
	Creator     *User     `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time `json:"created_at"`
}
