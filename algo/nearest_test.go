package algo

import (
	"math"
	"testing"
)

func TestNearestOrdering(t *testing.T) {
	// 三个站点：纬度相差 1° ≈ 111.195 km，2° ≈ 222.39 km
	candidates := []Candidate{
		{Index: 0, Lat: 2, Lng: 0}, // 最远
		{Index: 1, Lat: 0, Lng: 0}, // 最近 (就在查询点上)
		{Index: 2, Lat: 1, Lng: 0}, // 中间
	}

	ranked := Nearest(0, 0, candidates, 2)
	if len(ranked) != 2 {
		t.Fatalf("limit=2 应返回 2 个结果，实际 %d", len(ranked))
	}
	if ranked[0].Index != 1 || ranked[1].Index != 2 {
		t.Errorf("排序错误: %+v", ranked)
	}
	if ranked[0].DistanceKm != 0 {
		t.Errorf("查询点上的候选距离应为 0，实际 %v", ranked[0].DistanceKm)
	}
	if math.Abs(ranked[1].DistanceKm-111.195) > 0.5 {
		t.Errorf("纬度相差 1° 的距离应约 111.195 km，实际 %v", ranked[1].DistanceKm)
	}
}

func TestNearestStableTies(t *testing.T) {
	// 距离完全相同的候选必须保持输入顺序
	candidates := []Candidate{
		{Index: 0, Lat: 1, Lng: 0},
		{Index: 1, Lat: 1, Lng: 0},
		{Index: 2, Lat: 1, Lng: 0},
		{Index: 3, Lat: 0.5, Lng: 0},
	}

	ranked := Nearest(0, 0, candidates, 0)
	if len(ranked) != 4 {
		t.Fatalf("limit=0 应返回全部候选，实际 %d", len(ranked))
	}
	if ranked[0].Index != 3 {
		t.Errorf("最近的候选应排第一，实际 %+v", ranked[0])
	}
	for i, want := range []int{0, 1, 2} {
		if ranked[i+1].Index != want {
			t.Errorf("等距候选应保持输入顺序，位置 %d 期望下标 %d，实际 %d", i+1, want, ranked[i+1].Index)
		}
	}
}

func TestNearestLimitBounds(t *testing.T) {
	candidates := []Candidate{
		{Index: 0, Lat: 1, Lng: 1},
		{Index: 1, Lat: 2, Lng: 2},
	}

	if got := Nearest(0, 0, candidates, 10); len(got) != 2 {
		t.Errorf("limit 超过候选数时应返回全部，实际 %d", len(got))
	}
	if got := Nearest(0, 0, candidates, 1); len(got) != 1 {
		t.Errorf("limit=1 应只返回 1 个，实际 %d", len(got))
	}
	if got := Nearest(0, 0, nil, 5); len(got) != 0 {
		t.Errorf("空候选集应返回空结果，实际 %d", len(got))
	}
}
