package model

// Category 地点分类 (基础数据，仅管理员可写)
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Code string `json:"code" gorm:"uniqueIndex;not null"`
}
