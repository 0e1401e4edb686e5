package handler

import (
	"net/http"

	"metro-system/algo"
	"metro-system/db"
	"metro-system/model"
	"metro-system/policy"
	"metro-system/utils"

	"github.com/gin-gonic/gin"
)

// StationRequest 站点创建/修改请求
type StationRequest struct {
	Name   string  `json:"name" binding:"required"`
	Code   string  `json:"code" binding:"required"`
	LineID uint    `json:"line_id" binding:"required"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// NearestStation 距离查询的返回项：站点字段 + 注入的 distance_km
type NearestStation struct {
	model.Station
	DistanceKm float64 `json:"distance_km"` // 序列化边界才取整到 3 位小数
}

// ListStations 获取所有站点 (按编号排序，带所属线路)
func ListStations(c *gin.Context) {
	lineID, ok := parseUintQuery(c, "line_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "line_id 参数无法解析"})
		return
	}

	q := db.DB.Preload("Line").Order("code")
	if lineID != nil {
		q = q.Where("line_id = ?", *lineID)
	}

	var stations []model.Station
	if err := q.Find(&stations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询站点失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(stations), "stations": stations})
}

// GetStation 根据 ID 获取站点
func GetStation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var station model.Station
	if err := db.DB.Preload("Line").First(&station, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "站点不存在"})
		return
	}
	c.JSON(http.StatusOK, station)
}

// NearestStations 查询离给定坐标最近的站点
// lat/lng 解析失败直接返回 400，不做任何距离计算；limit 在本接口默认 5
func NearestStations(c *gin.Context) {
	lat, lng, present, err := parseGeoQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !present {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 lat/lng 参数"})
		return
	}

	limit, ok := parseLimitQuery(c, 5)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须是正整数"})
		return
	}

	// 站点基数小，整表加载后在内存里排名 (刻意不做空间索引)
	var stations []model.Station
	if err := db.DB.Preload("Line").Find(&stations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询站点失败"})
		return
	}

	candidates := make([]algo.Candidate, len(stations))
	for i, s := range stations {
		candidates[i] = algo.Candidate{Index: i, Lat: s.Lat, Lng: s.Lng}
	}

	ranked := algo.Nearest(lat, lng, candidates, limit)
	results := make([]NearestStation, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, NearestStation{
			Station:    stations[r.Index],
			DistanceKm: utils.RoundKm(r.DistanceKm),
		})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "stations": results})
}

// CreateStation 创建站点 (仅管理员)
// 站点坐标与地点一样做范围校验，入库前统一拦截
func CreateStation(c *gin.Context) {
	if !policy.CanCreate(policy.ResourceStation, currentUser(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理站点"})
		return
	}

	var req StationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := validateLatLng(req.Lat, req.Lng); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var line model.Line
	if err := db.DB.First(&line, req.LineID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "线路不存在"})
		return
	}

	station := model.Station{
		Name:   req.Name,
		Code:   req.Code,
		LineID: req.LineID,
		Lat:    req.Lat,
		Lng:    req.Lng,
	}
	if err := db.DB.Create(&station).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "创建站点失败，编号可能已存在"})
		return
	}
	station.Line = &line
	c.JSON(http.StatusCreated, station)
}

// UpdateStation 修改站点 (仅管理员)
func UpdateStation(c *gin.Context) {
	if !policy.CanWrite(policy.ResourceStation, currentUser(c), nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理站点"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var station model.Station
	if err := db.DB.First(&station, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "站点不存在"})
		return
	}

	var req StationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := validateLatLng(req.Lat, req.Lng); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.First(&model.Line{}, req.LineID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "线路不存在"})
		return
	}

	station.Name = req.Name
	station.Code = req.Code
	station.LineID = req.LineID
	station.Lat = req.Lat
	station.Lng = req.Lng
	if err := db.DB.Save(&station).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "修改站点失败，编号可能已存在"})
		return
	}
	c.JSON(http.StatusOK, station)
}

// DeleteStation 删除站点 (仅管理员)
// 引用该站点的地点不会被删除，只是 station_id 被置空
func DeleteStation(c *gin.Context) {
	if !policy.CanWrite(policy.ResourceStation, currentUser(c), nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理站点"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var station model.Station
	if err := db.DB.First(&station, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "站点不存在"})
		return
	}

	if err := db.DB.Delete(&station).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除站点失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "站点已删除"})
}
