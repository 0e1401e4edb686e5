package utils

import "math"

// EarthRadiusKm 地球平均半径 (千米)，用于 Haversine 球面距离
const EarthRadiusKm = 6371.0

// DegreesToRadians 角度转弧度
func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// DistanceKm Haversine 公式，计算两个经纬度点之间的球面距离 (千米)
// a = sin²(Δφ/2) + cos(φ1)·cos(φ2)·sin²(Δλ/2)
// d = 2R·asin(√a)
// 注意这里必须是真正的平方 (s*s)，不能写成 *2
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := DegreesToRadians(lat1)
	phi2 := DegreesToRadians(lat2)
	dPhi := DegreesToRadians(lat2 - lat1)
	dLambda := DegreesToRadians(lng2 - lng1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// RoundKm 距离保留 3 位小数，只在序列化边界使用，内部计算不取整
func RoundKm(d float64) float64 {
	return math.Round(d*1000) / 1000
}
