package handler

import (
	"net/http"

	"metro-system/db"
	"metro-system/model"
	"metro-system/policy"

	"github.com/gin-gonic/gin"
)

// CommentRequest 评论请求
type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// ListComments 获取帖子下的评论 (按时间正序)
// 父帖对调用者不可见时评论也不可见
func ListComments(c *gin.Context) {
	post, ok := loadVisiblePost(c)
	if !ok {
		return
	}

	var comments []model.Comment
	if err := db.DB.Where("post_id = ?", post.ID).Order("created_at, id").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询评论失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(comments), "comments": comments})
}

// CreateComment 发表评论 (需登录)
func CreateComment(c *gin.Context) {
	user := currentUser(c)
	if !policy.CanCreate(policy.ResourceComment, user) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
		return
	}

	post, ok := loadVisiblePost(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}

	comment := model.Comment{
		PostID:    post.ID,
		Body:      req.Body,
		CreatedBy: user.ID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "发表评论失败"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment 删除评论 (作者或管理员)
func DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var comment model.Comment
	if err := db.DB.First(&comment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "评论不存在"})
		return
	}

	owner := comment.CreatedBy
	if !policy.CanWrite(policy.ResourceComment, currentUser(c), &owner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有作者或管理员可以删除评论"})
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除评论失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "评论已删除"})
}

// loadVisiblePost 加载路径里的帖子并做可见性检查，失败时已写入响应
func loadVisiblePost(c *gin.Context) (*model.Post, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return nil, false
	}

	var post model.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return nil, false
	}
	if !policy.CanReadPost(currentUser(c), &post) {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return nil, false
	}
	return &post, true
}
