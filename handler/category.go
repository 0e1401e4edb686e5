package handler

import (
	"net/http"

	"metro-system/db"
	"metro-system/model"
	"metro-system/policy"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/修改请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// ListCategories 获取所有分类
func ListCategories(c *gin.Context) {
	var categories []model.Category
	if err := db.DB.Order("code").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询分类失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// GetCategory 根据 ID 获取分类
func GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var category model.Category
	if err := db.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "分类不存在"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory 创建分类 (仅管理员)
func CreateCategory(c *gin.Context) {
	if !policy.CanCreate(policy.ResourceCategory, currentUser(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理分类"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}

	category := model.Category{Name: req.Name, Code: req.Code}
	if err := db.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "创建分类失败，名称或编号可能已存在"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory 修改分类 (仅管理员)
func UpdateCategory(c *gin.Context) {
	if !policy.CanWrite(policy.ResourceCategory, currentUser(c), nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理分类"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var category model.Category
	if err := db.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "分类不存在"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}

	category.Name = req.Name
	category.Code = req.Code
	if err := db.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "修改分类失败，名称或编号可能已存在"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory 删除分类 (仅管理员)，其下地点级联删除
func DeleteCategory(c *gin.Context) {
	if !policy.CanWrite(policy.ResourceCategory, currentUser(c), nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理分类"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var category model.Category
	if err := db.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "分类不存在"})
		return
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除分类失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "分类已删除"})
}
