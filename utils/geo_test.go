package utils

import (
	"math"
	"testing"
)

// 赤道上纬度相差 1° 的两点，Haversine 距离约 111.195 km (R=6371)
const oneDegreeLatKm = 111.19492664455873

func TestDistanceKmSamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{39.9042, 116.4074},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}
	for _, p := range points {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("同一点距离应为 0，实际 %v (点 %v)", d, p)
		}
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{39.9042, 116.4074, 31.2304, 121.4737}, // 北京 - 上海
		{0, 0, 1, 1},
		{-45, -90, 60, 120},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("距离应满足对称性: d(a,b)=%v d(b,a)=%v", ab, ba)
		}
	}
}

func TestDistanceKmKnownValues(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
	}{
		{"纬度相差1度", 0, 0, 1, 0, oneDegreeLatKm},
		{"赤道上经度相差1度", 0, 0, 0, 1, oneDegreeLatKm},
		{"北京到上海", 39.9042, 116.4074, 31.2304, 121.4737, 1067.0},
	}
	for _, tc := range cases {
		got := DistanceKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
		tol := tc.want * 0.005 // 0.5% 容差
		if math.Abs(got-tc.want) > tol {
			t.Errorf("%s: 期望约 %v km，实际 %v km", tc.name, tc.want, got)
		}
	}
}

// 回归测试：历史版本把 sin²(x) 误写成 sin(x)*2，结果不会崩溃但距离完全错误
// 这里用错误公式算一遍，确认当前实现不会退化回去
func TestDistanceKmNotBuggyForm(t *testing.T) {
	lat1, lng1, lat2, lng2 := 0.0, 0.0, 1.0, 0.0

	buggy := func() float64 {
		phi1 := DegreesToRadians(lat1)
		phi2 := DegreesToRadians(lat2)
		dPhi := DegreesToRadians(lat2 - lat1)
		dLambda := DegreesToRadians(lng2 - lng1)
		a := math.Sin(dPhi/2)*2 + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*2
		return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
	}()

	got := DistanceKm(lat1, lng1, lat2, lng2)
	if math.Abs(got-oneDegreeLatKm) > 0.01 {
		t.Fatalf("正确公式应得约 %v km，实际 %v km", oneDegreeLatKm, got)
	}
	if math.Abs(got-buggy) < 1 {
		t.Errorf("结果 %v 与错误公式的 %v 过于接近，疑似退化到 sin(x)*2 写法", got, buggy)
	}
}

func TestRoundKm(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.23456, 1.235},
		{0.0004, 0},
		{111.19492664455873, 111.195},
	}
	for _, tc := range cases {
		if got := RoundKm(tc.in); got != tc.want {
			t.Errorf("RoundKm(%v) = %v，期望 %v", tc.in, got, tc.want)
		}
	}
}
