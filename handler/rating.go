package handler

import (
	"net/http"

	"metro-system/db"
	"metro-system/model"
	"metro-system/policy"

	"github.com/gin-gonic/gin"
)

// RatingRequest 评分请求
type RatingRequest struct {
	Value int `json:"value" binding:"required"`
}

// PutRating 对帖子评分 (需登录)
// 同一用户重复评分时覆盖旧值，底层是依赖唯一索引的单条原子 upsert
func PutRating(c *gin.Context) {
	user := currentUser(c)
	if !policy.CanCreate(policy.ResourceRating, user) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
		return
	}

	post, ok := loadVisiblePost(c)
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if req.Value < 1 || req.Value > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "评分必须在 1~5 之间"})
		return
	}

	if err := db.UpsertRating(db.DB, post.ID, user.ID, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "评分失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "评分成功", "value": req.Value})
}

// DeleteRating 撤销自己对帖子的评分
func DeleteRating(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
		return
	}

	post, ok := loadVisiblePost(c)
	if !ok {
		return
	}

	var rating model.Rating
	if err := db.DB.Where("post_id = ? AND created_by = ?", post.ID, user.ID).First(&rating).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "还没有评分"})
		return
	}

	owner := rating.CreatedBy
	if !policy.CanWrite(policy.ResourceRating, user, &owner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只能撤销自己的评分"})
		return
	}

	if err := db.DB.Delete(&rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "撤销评分失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "评分已撤销"})
}
