package db

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"metro-system/model"
	"metro-system/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	// 从环境变量读取配置 (为了 Docker 部署方便)
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "metrouser")
	password := getEnvOrDefault("DB_PASSWORD", "metropassword")
	dbname := getEnvOrDefault("DB_NAME", "metrodb")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		host, user, password, dbname, port,
	)

	// 带重试的数据库连接 (Docker 启动时数据库可能还没准备好)
	var err error
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("等待数据库就绪... (%d/%d): %v", i+1, maxRetries, err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("无法连接数据库: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 检查是否需要导入初始线路/站点数据
	var stationCount int64
	DB.Model(&model.Station{}).Count(&stationCount)
	if stationCount == 0 {
		log.Println("检测到站点表为空，正在导入 metro_data.json...")
		if err := importMetroData(DB, "metro_data.json"); err != nil {
			log.Printf("警告: 导入线路数据失败: %v", err)
		} else {
			log.Println("线路数据导入成功!")
		}
	}

	if err := ensureAdmin(DB); err != nil {
		log.Printf("警告: 初始化管理员账号失败: %v", err)
	}

	log.Println("数据库连接并初始化成功！")
}

// Migrate 自动迁移所有表结构 (测试里也会用到)
func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&model.User{},
		&model.Line{},
		&model.Station{},
		&model.Category{},
		&model.Place{},
		&model.Post{},
		&model.Comment{},
		&model.Rating{},
	)
}

// getEnvOrDefault 获取环境变量，如果不存在则返回默认值
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// importMetroData 从 JSON 文件导入线路和站点数据
// 文件格式: {"lines": [...], "stations": [{"code", "name", "line_code", "lat", "lng"}]}
func importMetroData(tx *gorm.DB, filepath string) error {
	file, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}

	var data struct {
		Lines    []model.Line `json:"lines"`
		Stations []struct {
			Name     string  `json:"name"`
			Code     string  `json:"code"`
			LineCode string  `json:"line_code"`
			Lat      float64 `json:"lat"`
			Lng      float64 `json:"lng"`
		} `json:"stations"`
	}

	if err := json.Unmarshal(file, &data); err != nil {
		return fmt.Errorf("解析 JSON 失败: %w", err)
	}

	// 批量插入线路
	if len(data.Lines) > 0 {
		if err := tx.CreateInBatches(data.Lines, 100).Error; err != nil {
			return fmt.Errorf("插入线路失败: %w", err)
		}
		log.Printf("导入了 %d 条线路", len(data.Lines))
	}

	// 站点通过 line_code 关联线路
	lineByCode := make(map[string]uint)
	var lines []model.Line
	if err := tx.Find(&lines).Error; err != nil {
		return err
	}
	for _, l := range lines {
		lineByCode[l.Code] = l.ID
	}

	stations := make([]model.Station, 0, len(data.Stations))
	for _, s := range data.Stations {
		lineID, ok := lineByCode[s.LineCode]
		if !ok {
			log.Printf("跳过站点 %s: 未知线路 %s", s.Code, s.LineCode)
			continue
		}
		stations = append(stations, model.Station{
			Name:   s.Name,
			Code:   s.Code,
			LineID: lineID,
			Lat:    s.Lat,
			Lng:    s.Lng,
		})
	}
	if len(stations) > 0 {
		if err := tx.CreateInBatches(stations, 100).Error; err != nil {
			return fmt.Errorf("插入站点失败: %w", err)
		}
		log.Printf("导入了 %d 个站点", len(stations))
	}

	return nil
}

// ensureAdmin 首次启动时创建默认管理员账号
func ensureAdmin(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(getEnvOrDefault("ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}
	admin := model.User{
		Username: "admin",
		Password: hash,
		Role:     model.RoleAdmin,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("已创建默认管理员账号 admin (生产环境请通过 ADMIN_PASSWORD 设置密码)")
	return nil
}
