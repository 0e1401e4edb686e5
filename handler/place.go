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

// PlaceRequest 地点创建/修改请求
type PlaceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	StationID   *uint   `json:"station_id"` // 不传时根据坐标自动挂最近的站点
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// PlaceView 地点列表返回项，距离排名时带 distance_km
type PlaceView struct {
	model.Place
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ListPlaces 地点列表
// 过滤 (分类/站点/关键词) 先执行，之后才做可选的距离排名和 limit 截断
func ListPlaces(c *gin.Context) {
	categoryID, ok := parseUintQuery(c, "category_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id 参数无法解析"})
		return
	}
	stationID, ok := parseUintQuery(c, "station_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id 参数无法解析"})
		return
	}

	lat, lng, geoPresent, err := parseGeoQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, ok := parseLimitQuery(c, 0)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须是正整数"})
		return
	}

	filter := db.PlaceFilter{
		CategoryID: categoryID,
		StationID:  stationID,
		Query:      c.Query("q"),
	}

	var places []model.Place
	if err := db.PlaceQuery(db.DB, filter).
		Preload("Category").Preload("Station").
		Order("id").Find(&places).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询地点失败"})
		return
	}

	views := make([]PlaceView, 0, len(places))
	if geoPresent {
		candidates := make([]algo.Candidate, len(places))
		for i, p := range places {
			candidates[i] = algo.Candidate{Index: i, Lat: p.Lat, Lng: p.Lng}
		}
		for _, r := range algo.Nearest(lat, lng, candidates, limit) {
			d := utils.RoundKm(r.DistanceKm)
			views = append(views, PlaceView{Place: places[r.Index], DistanceKm: &d})
		}
	} else {
		if limit > 0 && limit < len(places) {
			places = places[:limit]
		}
		for _, p := range places {
			views = append(views, PlaceView{Place: p})
		}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(views), "places": views})
}

// GetPlace 根据 ID 获取地点
func GetPlace(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var place model.Place
	if err := db.DB.Preload("Category").Preload("Station").First(&place, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "地点不存在"})
		return
	}
	c.JSON(http.StatusOK, place)
}

// CreatePlace 创建地点 (需登录)
// 创建者由服务端从登录态填充；没指定站点时自动挂离坐标最近的站点 (limit=1 的调用点)
func CreatePlace(c *gin.Context) {
	user := currentUser(c)
	if !policy.CanCreate(policy.ResourcePlace, user) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
		return
	}

	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := validateLatLng(req.Lat, req.Lng); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.DB.First(&model.Category{}, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "分类不存在"})
		return
	}

	stationID := req.StationID
	if stationID != nil {
		if err := db.DB.First(&model.Station{}, *stationID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "站点不存在"})
			return
		}
	} else {
		stationID = nearestStationID(req.Lat, req.Lng)
	}

	userID := user.ID
	place := model.Place{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		StationID:   stationID,
		Lat:         req.Lat,
		Lng:         req.Lng,
		CreatedBy:   &userID,
	}
	if err := db.DB.Create(&place).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建地点失败"})
		return
	}
	c.JSON(http.StatusCreated, place)
}

// UpdatePlace 修改地点 (创建者或管理员)
func UpdatePlace(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var place model.Place
	if err := db.DB.First(&place, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "地点不存在"})
		return
	}

	// 归属检查用刚查出来的行，不用请求解析阶段的快照
	if !policy.CanWrite(policy.ResourcePlace, currentUser(c), place.CreatedBy) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有创建者或管理员可以修改地点"})
		return
	}

	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := validateLatLng(req.Lat, req.Lng); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.First(&model.Category{}, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "分类不存在"})
		return
	}
	if req.StationID != nil {
		if err := db.DB.First(&model.Station{}, *req.StationID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "站点不存在"})
			return
		}
	}

	place.Name = req.Name
	place.Description = req.Description
	place.CategoryID = req.CategoryID
	place.StationID = req.StationID
	place.Lat = req.Lat
	place.Lng = req.Lng
	if err := db.DB.Save(&place).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "修改地点失败"})
		return
	}
	c.JSON(http.StatusOK, place)
}

// DeletePlace 删除地点 (创建者或管理员)
func DeletePlace(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var place model.Place
	if err := db.DB.First(&place, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "地点不存在"})
		return
	}

	if !policy.CanWrite(policy.ResourcePlace, currentUser(c), place.CreatedBy) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有创建者或管理员可以删除地点"})
		return
	}

	if err := db.DB.Delete(&place).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除地点失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "地点已删除"})
}

// nearestStationID 找离坐标最近的站点，没有站点时返回 nil
func nearestStationID(lat, lng float64) *uint {
	var stations []model.Station
	if err := db.DB.Find(&stations).Error; err != nil || len(stations) == 0 {
		return nil
	}

	candidates := make([]algo.Candidate, len(stations))
	for i, s := range stations {
		candidates[i] = algo.Candidate{Index: i, Lat: s.Lat, Lng: s.Lng}
	}
	ranked := algo.Nearest(lat, lng, candidates, 1)
	id := stations[ranked[0].Index].ID
	return &id
}
