package handler

import (
	"net/http"

	"metro-system/db"
	"metro-system/model"
	"metro-system/policy"

	"github.com/gin-gonic/gin"
)

// LineRequest 线路创建/修改请求
type LineRequest struct {
	Name  string `json:"name" binding:"required"`
	Code  string `json:"code" binding:"required"`
	Color string `json:"color"`
}

// ListLines 获取所有线路 (按编号排序，任何人可读)
func ListLines(c *gin.Context) {
	var lines []model.Line
	if err := db.DB.Order("code").Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询线路失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(lines), "lines": lines})
}

// GetLine 根据 ID 获取线路
func GetLine(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var line model.Line
	if err := db.DB.First(&line, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "线路不存在"})
		return
	}
	c.JSON(http.StatusOK, line)
}

// CreateLine 创建线路 (仅管理员)
func CreateLine(c *gin.Context) {
	if !policy.CanCreate(policy.ResourceLine, currentUser(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理线路"})
		return
	}

	var req LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}

	line := model.Line{Name: req.Name, Code: req.Code, Color: req.Color}
	if err := db.DB.Create(&line).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "创建线路失败，编号可能已存在"})
		return
	}
	c.JSON(http.StatusCreated, line)
}

// UpdateLine 修改线路 (仅管理员)
func UpdateLine(c *gin.Context) {
	if !policy.CanWrite(policy.ResourceLine, currentUser(c), nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理线路"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var line model.Line
	if err := db.DB.First(&line, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "线路不存在"})
		return
	}

	var req LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}

	line.Name = req.Name
	line.Code = req.Code
	line.Color = req.Color
	if err := db.DB.Save(&line).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "修改线路失败，编号可能已存在"})
		return
	}
	c.JSON(http.StatusOK, line)
}

// DeleteLine 删除线路 (仅管理员)，其下站点级联删除
func DeleteLine(c *gin.Context) {
	if !policy.CanWrite(policy.ResourceLine, currentUser(c), nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "仅管理员可管理线路"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID 格式错误"})
		return
	}

	var line model.Line
	if err := db.DB.First(&line, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "线路不存在"})
		return
	}

	if err := db.DB.Delete(&line).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除线路失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "线路已删除"})
}
