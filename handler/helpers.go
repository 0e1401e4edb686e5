package handler

import (
	"errors"
	"strconv"

	"metro-system/model"

	"github.com/gin-gonic/gin"
)

var (
	errNoToken  = errors.New("未提供 Token")
	errBadToken = errors.New("无效的 Token")
)

// currentUser 从上下文取当前用户，未登录返回 nil
func currentUser(c *gin.Context) *model.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// parseIDParam 解析路径里的 :id
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parseUintQuery 解析可选的数字查询参数，如 category_id
// 参数没传返回 (nil, true)；传了但不是数字返回 (nil, false)
func parseUintQuery(c *gin.Context, name string) (*uint, bool) {
	s := c.Query(name)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, false
	}
	u := uint(v)
	return &u, true
}

// parseGeoQuery 解析 lat/lng 查询参数
// 两个都没传: 不启用距离排名 (present=false)
// 只传一个或解析失败: 参数错误，调用方直接返回 400，不做任何距离计算
func parseGeoQuery(c *gin.Context) (lat, lng float64, present bool, err error) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" && lngStr == "" {
		return 0, 0, false, nil
	}

	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, true, errors.New("lat 参数无法解析")
	}
	lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, true, errors.New("lng 参数无法解析")
	}
	return lat, lng, true, nil
}

// parseLimitQuery 解析 limit 参数，没传时用调用方给的默认值
// 不同接口的默认值不一样 (站点查询 5，地点挂站 1)，这里不做全局默认
func parseLimitQuery(c *gin.Context, defaultLimit int) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return defaultLimit, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// validateLatLng 坐标范围校验，写入前统一执行
func validateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return errors.New("纬度必须在 [-90, 90] 范围内")
	}
	if lng < -180 || lng > 180 {
		return errors.New("经度必须在 [-180, 180] 范围内")
	}
	return nil
}
