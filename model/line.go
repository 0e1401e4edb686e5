package model

// Line 地铁线路 (基础数据，仅管理员可写)
type Line struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null"`
	Code  string `json:"code" gorm:"uniqueIndex;not null"` // 线路编号，如 "M1"
	Color string `json:"color"`                            // 显示颜色，如 "#00AEEF"
}
