package db

import (
	"strings"

	"metro-system/model"

	"gorm.io/gorm"
)

// PostFilter 帖子列表的过滤条件，各项可独立组合
type PostFilter struct {
	StationID *uint
	PlaceID   *uint
	Query     string      // 模糊搜索，大小写不敏感，标题或正文任一匹配即可
	Mine      bool        // 只看自己发的 (管理员不受此限制)
	Caller    *model.User // 当前用户，未登录为 nil
}

// PostQuery 把过滤条件叠加到查询上
// 过滤必须发生在排名/分页之前，先截断再过滤会丢结果
func PostQuery(tx *gorm.DB, f PostFilter) *gorm.DB {
	q := tx.Model(&model.Post{})

	// 可见性：未登录只能看公开帖，普通用户额外能看自己的私密帖，管理员全部可见
	if f.Caller == nil {
		q = q.Where("is_public = ?", true)
	} else if !f.Caller.IsAdmin() {
		q = q.Where("(is_public = ? OR created_by = ?)", true, f.Caller.ID)
	}

	if f.Mine && f.Caller != nil && !f.Caller.IsAdmin() {
		q = q.Where("created_by = ?", f.Caller.ID)
	}

	if f.StationID != nil {
		q = q.Where("station_id = ?", *f.StationID)
	}
	if f.PlaceID != nil {
		q = q.Where("place_id = ?", *f.PlaceID)
	}

	// 标题/正文任一包含即匹配 (OR 是刻意的，保持宽搜索)
	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(body) LIKE ?)", pattern, pattern)
	}

	return q
}

// PostStats 帖子的派生统计，列表和详情都要带上
type PostStats struct {
	CommentsCount int64    `json:"comments_count"`
	RatingsCount  int64    `json:"ratings_count"`
	AvgRating     *float64 `json:"avg_rating"` // 没有评分时为 null，绝不报 0
	MyRating      *int     `json:"my_rating"`  // 当前用户自己的评分，未登录或未评分为 null
}

// LoadPostStats 批量计算一页帖子的统计信息
// 整页只发固定几条分组查询，不允许每行单独查一次
func LoadPostStats(tx *gorm.DB, postIDs []uint, caller *model.User) (map[uint]*PostStats, error) {
	stats := make(map[uint]*PostStats, len(postIDs))
	if len(postIDs) == 0 {
		return stats, nil
	}
	for _, id := range postIDs {
		stats[id] = &PostStats{}
	}

	// 评论数
	var commentRows []struct {
		PostID uint
		Cnt    int64
	}
	err := tx.Model(&model.Comment{}).
		Select("post_id, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range commentRows {
		stats[row.PostID].CommentsCount = row.Cnt
	}

	// 评分数和平均分 (AVG 只在有评分的行上算，零评分的帖子不会出现在结果里)
	var ratingRows []struct {
		PostID uint
		Cnt    int64
		Avg    float64
	}
	err = tx.Model(&model.Rating{}).
		Select("post_id, COUNT(*) AS cnt, AVG(value) AS avg").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&ratingRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range ratingRows {
		avg := row.Avg
		stats[row.PostID].RatingsCount = row.Cnt
		stats[row.PostID].AvgRating = &avg
	}

	// 当前用户自己的评分
	if caller != nil {
		var mine []model.Rating
		err = tx.Where("created_by = ? AND post_id IN ?", caller.ID, postIDs).
			Find(&mine).Error
		if err != nil {
			return nil, err
		}
		for _, r := range mine {
			value := r.Value
			stats[r.PostID].MyRating = &value
		}
	}

	return stats, nil
}
