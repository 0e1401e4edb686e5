package handler

import (
	"net/http"

	"metro-system/algo"
	"metro-system/db"
	"metro-system/model"
	"metro-system/policy"
	"metro-system/utils"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// PostRequest 帖子创建/修改请求
type PostRequest struct {
	Title     string   `json:"title" binding:"required"`
	Body      string   `json:"body"`
	Image     string   `json:"image"`
	Tags      []string `json:"tags"`
	StationID *uint    `json:"station_id"`
	PlaceID   *uint    `json:"place_id"`
	IsPublic  *bool    `json:"is_public"` // 不传默认公开
}

// PostView 帖子列表/详情返回项：帖子字段 + 派生统计 + 可选的 distance_km
type PostView struct {
	model.Post
	db.PostStats
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ListPosts 帖子列表 (可选登录，登录后能看到自己的私密帖)
func ListPosts(c *gin.Context) {
	listPosts(c, currentUser(c))
}

// Explore 公开帖广场：匿名视角，只返回公开帖
func Explore(c *gin.Context) {
	listPosts(c, nil)
}

// listPosts 列表管线：过滤 → 距离排名 → 截断 → 批量统计 → 序列化
// 顺序不能换：先截断再过滤会丢掉合法结果
func listPosts(c *gin.Context, caller *model.User) {
	stationID, ok := parseUintQuery(c, "station_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id 参数无法解析"})
		return
	}
	placeID, ok := parseUintQuery(c, "place_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "place_id 参数无法解析"})
		return
	}

	lat, lng, geoPresent, err := parseGeoQuery(c)
	if err != nil {
		// lat/lng 传了但解析不了：直接 400，一次距离计算都不做
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, ok := parseLimitQuery(c, 0)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须是正整数"})
		return
	}

	filter := db.PostFilter{
		StationID: stationID,
		PlaceID:   placeID,
		Query:     c.Query("q"),
		Mine:      c.Query("mine") == "1" || c.Query("mine") == "true",
		Caller:    caller,
	}

	var posts []model.Post
	if err := db.PostQuery(db.DB, filter).
		Preload("Station").Preload("Place").
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询帖子失败"})
		return
	}

	views := make([]PostView, 0, len(posts))
	if geoPresent {
		// 坐标取关联地点的，没有地点再取站点的；两者都没有就进不了排名
		candidates := make([]algo.Candidate, 0, len(posts))
		var tail []int // 无法定位的帖子，排在最后，不丢弃
		for i := range posts {
			if pLat, pLng, ok := postCoordinates(&posts[i]); ok {
				candidates = append(candidates, algo.Candidate{Index: i, Lat: pLat, Lng: pLng})
			} else {
				tail = append(tail, i)
			}
		}
		for _, r := range algo.Nearest(lat, lng, candidates, 0) {
			d := utils.RoundKm(r.DistanceKm)
			views = append(views, PostView{Post: posts[r.Index], DistanceKm: &d})
		}
		for _, i := range tail {
			views = append(views, PostView{Post: posts[i]})
		}
		if limit > 0 && limit < len(views) {
			views = views[:limit]
		}
	} else {
		if limit > 0 && limit < len(posts) {
			posts = posts[:limit]
		}
		for _, p := range posts {
			views = append(views, PostView{Post: p})
		}
	}

	// 整页一次性算统计，不允许每行单独查
	ids := make([]uint, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}
	stats, err := db.LoadPostStats(db.DB, ids, caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "统计查询失败"})
		return
	}
	for i := range views {
		if s := stats[views[i].ID]; s != nil {
			views[i].PostStats = *s
		}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(views), "posts": views})
}

// GetPost 帖子详情，带统计信息；私密帖只有创建者和管理员可见
func GetPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var post model.Post
	if err := db.DB.Preload("Station").Preload("Place").First(&post, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}

	caller := currentUser(c)
	if !policy.CanReadPost(caller, &post) {
		// 对无权限的调用者表现为不存在，避免泄露私密帖的存在性
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}

	stats, err := db.LoadPostStats(db.DB, []uint{post.ID}, caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "统计查询失败"})
		return
	}

	view := PostView{Post: post}
	if s := stats[post.ID]; s != nil {
		view.PostStats = *s
	}
	c.JSON(http.StatusOK, view)
}

// CreatePost 发帖 (需登录)，created_by 由服务端填充
func CreatePost(c *gin.Context) {
	user := currentUser(c)
	if !policy.CanCreate(policy.ResourcePost, user) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if !validatePostRefs(c, req.StationID, req.PlaceID) {
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := model.Post{
		Title:     req.Title,
		Body:      req.Body,
		Image:     req.Image,
		Tags:      pq.StringArray(req.Tags),
		StationID: req.StationID,
		PlaceID:   req.PlaceID,
		CreatedBy: user.ID,
		IsPublic:  isPublic,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "发帖失败"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost 修改帖子 (创建者或管理员)
func UpdatePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var post model.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}

	owner := post.CreatedBy
	if !policy.CanWrite(policy.ResourcePost, currentUser(c), &owner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有创建者或管理员可以修改帖子"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if !validatePostRefs(c, req.StationID, req.PlaceID) {
		return
	}

	post.Title = req.Title
	post.Body = req.Body
	post.Image = req.Image
	post.Tags = pq.StringArray(req.Tags)
	post.StationID = req.StationID
	post.PlaceID = req.PlaceID
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}
	if err := db.DB.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "修改帖子失败"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost 删除帖子 (创建者或管理员)，评论和评分级联删除
func DeletePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var post model.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}

	owner := post.CreatedBy
	if !policy.CanWrite(policy.ResourcePost, currentUser(c), &owner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有创建者或管理员可以删除帖子"})
		return
	}

	if err := db.DB.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除帖子失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "帖子已删除"})
}

// postCoordinates 解析帖子的坐标：优先用关联地点 (精度更高)，其次用关联站点
func postCoordinates(p *model.Post) (lat, lng float64, ok bool) {
	if p.Place != nil {
		return p.Place.Lat, p.Place.Lng, true
	}
	if p.Station != nil {
		return p.Station.Lat, p.Station.Lng, true
	}
	return 0, 0, false
}

// validatePostRefs 校验帖子引用的站点/地点存在，失败时已写入响应
func validatePostRefs(c *gin.Context, stationID, placeID *uint) bool {
	if stationID != nil {
		if err := db.DB.First(&model.Station{}, *stationID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "站点不存在"})
			return false
		}
	}
	if placeID != nil {
		if err := db.DB.First(&model.Place{}, *placeID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "地点不存在"})
			return false
		}
	}
	return true
}
