package main

import (
	"fmt"
	"log"
	"os"

	"metro-system/db"
	"metro-system/handler"

	"github.com/gin-gonic/gin"
)

func main() {
	fmt.Println("=== 欢迎使用 Metro System - 地铁周边内容平台 ===")

	// 1. 初始化数据库
	// 连接 PostgreSQL，自动迁移表结构
	// 如果是第一次运行，会自动将 metro_data.json 的线路/站点数据导入数据库
	db.InitDB()

	// 2. 初始化 Gin 引擎
	r := gin.Default()

	// 3. 配置路由
	setupRoutes(r)

	// 4. 启动服务器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Println("\n服务器启动中...")
	fmt.Printf("访问地址: http://localhost:%s\n", port)
	fmt.Println("API 文档:")
	fmt.Println("  - POST   /api/auth/register       - 用户注册")
	fmt.Println("  - POST   /api/auth/login          - 用户登录")
	fmt.Println("  - GET    /api/auth/me             - 当前用户")
	fmt.Println("  - GET    /api/lines               - 线路列表")
	fmt.Println("  - GET    /api/stations            - 站点列表")
	fmt.Println("  - GET    /api/stations/nearest    - 最近站点查询 (lat/lng/limit)")
	fmt.Println("  - GET    /api/categories          - 分类列表")
	fmt.Println("  - GET    /api/places              - 地点列表 (支持过滤和距离排名)")
	fmt.Println("  - GET    /api/posts               - 帖子列表 (支持过滤和距离排名)")
	fmt.Println("  - GET    /api/explore             - 公开帖广场 (匿名)")
	fmt.Println("\n按 Ctrl+C 退出")

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}

// setupRoutes 配置路由
func setupRoutes(r *gin.Engine) {
	// CORS 跨域中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})

	// API 路由组
	api := r.Group("/api")
	{
		// 认证接口
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.GET("/auth/me", handler.AuthMiddleware(), handler.Me)

		// 公开读接口 (基础数据任何人可读)
		api.GET("/lines", handler.ListLines)
		api.GET("/lines/:id", handler.GetLine)
		api.GET("/stations", handler.ListStations)
		api.GET("/stations/nearest", handler.NearestStations)
		api.GET("/stations/:id", handler.GetStation)
		api.GET("/categories", handler.ListCategories)
		api.GET("/categories/:id", handler.GetCategory)
		api.GET("/places", handler.ListPlaces)
		api.GET("/places/:id", handler.GetPlace)

		// 公开帖广场 (匿名视角，只有公开帖)
		api.GET("/explore", handler.Explore)

		// 帖子读接口：可选登录，登录后能看到自己的私密帖
		optional := api.Group("/", handler.OptionalAuthMiddleware())
		{
			optional.GET("/posts", handler.ListPosts)
			optional.GET("/posts/:id", handler.GetPost)
			optional.GET("/posts/:id/comments", handler.ListComments)
		}

		// 写接口：必须登录，资源级权限在 policy 表里声明
		authorized := api.Group("/", handler.AuthMiddleware())
		{
			authorized.POST("/lines", handler.CreateLine)
			authorized.PUT("/lines/:id", handler.UpdateLine)
			authorized.DELETE("/lines/:id", handler.DeleteLine)

			authorized.POST("/stations", handler.CreateStation)
			authorized.PUT("/stations/:id", handler.UpdateStation)
			authorized.DELETE("/stations/:id", handler.DeleteStation)

			authorized.POST("/categories", handler.CreateCategory)
			authorized.PUT("/categories/:id", handler.UpdateCategory)
			authorized.DELETE("/categories/:id", handler.DeleteCategory)

			authorized.POST("/places", handler.CreatePlace)
			authorized.PUT("/places/:id", handler.UpdatePlace)
			authorized.DELETE("/places/:id", handler.DeletePlace)

			authorized.POST("/posts", handler.CreatePost)
			authorized.PUT("/posts/:id", handler.UpdatePost)
			authorized.DELETE("/posts/:id", handler.DeletePost)

			authorized.POST("/posts/:id/comments", handler.CreateComment)
			authorized.DELETE("/comments/:id", handler.DeleteComment)

			authorized.PUT("/posts/:id/rating", handler.PutRating)
			authorized.DELETE("/posts/:id/rating", handler.DeleteRating)
		}
	}
}
