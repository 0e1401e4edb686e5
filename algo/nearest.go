package algo

import (
	"sort"

	"metro-system/utils"
)

// Candidate 参与距离排名的候选点
// Index 是候选在调用方原始切片中的下标，排名结果通过它映射回原始记录
type Candidate struct {
	Index int
	Lat   float64
	Lng   float64
}

// Ranked 排名结果：候选下标 + 到查询点的距离 (千米，未取整)
type Ranked struct {
	Index      int
	DistanceKm float64
}

// Nearest 计算所有候选点到查询点的距离，按距离升序返回前 limit 个
// 距离相等时保持输入顺序 (稳定排序)
// limit 由调用方显式指定：站点查询默认 5，地点自动挂站用 1，这里不做全局默认
// limit <= 0 或超过候选数时返回全部
func Nearest(lat, lng float64, candidates []Candidate, limit int) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, Ranked{
			Index:      c.Index,
			DistanceKm: utils.DistanceKm(lat, lng, c.Lat, c.Lng),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
