package model

// Station 地铁站点，属于一条线路
// 删除线路时级联删除其下所有站点
type Station struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Name   string  `json:"name" gorm:"index;not null"`
	Code   string  `json:"code" gorm:"uniqueIndex;not null"`
	LineID uint    `json:"line_id" gorm:"not null"`
	Line   *Line   `json:"line,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Lat    float64 `json:"lat" gorm:"type:decimal(9,6)"` // 纬度 [-90, 90]
	Lng    float64 `json:"lng" gorm:"type:decimal(9,6)"` // 经度 [-180, 180]
}
