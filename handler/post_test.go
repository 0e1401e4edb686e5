package handler

import (
	"fmt"
	"net/http"
	"testing"

	"metro-system/db"
	"metro-system/model"
)

func TestExploreHidesPrivatePosts(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)

	db.DB.Create(&model.Post{Title: "public one", CreatedBy: alice.ID, IsPublic: true})
	db.DB.Create(&model.Post{Title: "secret", CreatedBy: alice.ID, IsPublic: false})

	// 匿名广场只有公开帖
	w := doRequest(r, http.MethodGet, "/api/explore", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("应返回 200，实际 %d", w.Code)
	}
	body := decodeBody(t, w)
	posts := body["posts"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("广场应只有 1 条公开帖，实际 %d", len(posts))
	}
	if posts[0].(map[string]interface{})["title"] != "public one" {
		t.Errorf("广场不应出现私密帖: %v", posts[0])
	}

	// 即使带了登录态，explore 也是匿名视角
	w = doRequest(r, http.MethodGet, "/api/explore", tokenFor(t, alice), nil)
	body = decodeBody(t, w)
	if len(body["posts"].([]interface{})) != 1 {
		t.Error("explore 对登录用户也应只返回公开帖")
	}
}

func TestListMineRestriction(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)
	bob := newTestUser(t, "bob", model.RoleUser)

	db.DB.Create(&model.Post{Title: "alice post", CreatedBy: alice.ID, IsPublic: true})
	db.DB.Create(&model.Post{Title: "bob private", CreatedBy: bob.ID, IsPublic: false})
	db.DB.Create(&model.Post{Title: "bob public", CreatedBy: bob.ID, IsPublic: true})

	// 非管理员 mine 只看自己的，绝不包含别人的私密帖
	w := doRequest(r, http.MethodGet, "/api/posts?mine=1", tokenFor(t, alice), nil)
	body := decodeBody(t, w)
	posts := body["posts"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("alice 的 mine 应只有 1 条，实际 %d", len(posts))
	}
	if posts[0].(map[string]interface{})["title"] != "alice post" {
		t.Errorf("mine 结果错误: %v", posts[0])
	}
}

func TestGetPostVisibility(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)
	bob := newTestUser(t, "bob", model.RoleUser)
	admin := newTestUser(t, "admin", model.RoleAdmin)

	private := model.Post{Title: "secret", CreatedBy: alice.ID, IsPublic: false}
	db.DB.Create(&private)
	path := fmt.Sprintf("/api/posts/%d", private.ID)

	// 对无权限调用者表现为 404，不泄露存在性
	if w := doRequest(r, http.MethodGet, path, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("匿名看私密帖应 404，实际 %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, path, tokenFor(t, bob), nil); w.Code != http.StatusNotFound {
		t.Errorf("其他用户看私密帖应 404，实际 %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, path, tokenFor(t, alice), nil); w.Code != http.StatusOK {
		t.Errorf("创建者看自己的私密帖应 200，实际 %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, path, tokenFor(t, admin), nil); w.Code != http.StatusOK {
		t.Errorf("管理员看私密帖应 200，实际 %d", w.Code)
	}
}

func TestRatingUpsertEndpoint(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)
	post := model.Post{Title: "t", CreatedBy: alice.ID, IsPublic: true}
	db.DB.Create(&post)
	path := fmt.Sprintf("/api/posts/%d/rating", post.ID)

	// 越界评分被拒绝
	w := doRequest(r, http.MethodPut, path, tokenFor(t, alice), map[string]int{"value": 6})
	if w.Code != http.StatusBadRequest {
		t.Errorf("评分 6 应返回 400，实际 %d", w.Code)
	}

	// 同一用户评两次，只留一行且是最新值
	w = doRequest(r, http.MethodPut, path, tokenFor(t, alice), map[string]int{"value": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("首次评分应 200，实际 %d: %s", w.Code, w.Body.String())
	}
	w = doRequest(r, http.MethodPut, path, tokenFor(t, alice), map[string]int{"value": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("重复评分应 200，实际 %d", w.Code)
	}

	var ratings []model.Rating
	db.DB.Where("post_id = ?", post.ID).Find(&ratings)
	if len(ratings) != 1 || ratings[0].Value != 5 {
		t.Errorf("应只有一行评分且值为 5: %+v", ratings)
	}
}

func TestPostDetailStats(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)
	bob := newTestUser(t, "bob", model.RoleUser)

	post := model.Post{Title: "t", CreatedBy: alice.ID, IsPublic: true}
	db.DB.Create(&post)
	empty := model.Post{Title: "empty", CreatedBy: alice.ID, IsPublic: true}
	db.DB.Create(&empty)

	db.UpsertRating(db.DB, post.ID, alice.ID, 4)
	db.UpsertRating(db.DB, post.ID, bob.ID, 5)
	db.DB.Create(&model.Comment{PostID: post.ID, Body: "c", CreatedBy: bob.ID})

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), tokenFor(t, alice), nil)
	body := decodeBody(t, w)
	if body["comments_count"].(float64) != 1 {
		t.Errorf("comments_count 应为 1: %v", body["comments_count"])
	}
	if body["ratings_count"].(float64) != 2 {
		t.Errorf("ratings_count 应为 2: %v", body["ratings_count"])
	}
	if body["avg_rating"].(float64) != 4.5 {
		t.Errorf("avg_rating 应为 4.5: %v", body["avg_rating"])
	}
	if body["my_rating"].(float64) != 4 {
		t.Errorf("my_rating 应为 4: %v", body["my_rating"])
	}

	// 零评分的帖子平均分必须是 null，不能是 0
	w = doRequest(r, http.MethodGet, fmt.Sprintf("/api/posts/%d", empty.ID), "", nil)
	body = decodeBody(t, w)
	if body["avg_rating"] != nil {
		t.Errorf("没有评分时 avg_rating 应为 null: %v", body["avg_rating"])
	}
	if body["my_rating"] != nil {
		t.Errorf("匿名调用者 my_rating 应为 null: %v", body["my_rating"])
	}
}

func TestPostListGeoRanking(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)

	line := model.Line{Name: "一号线", Code: "M1"}
	db.DB.Create(&line)
	near := model.Station{Name: "近站", Code: "M1-01", LineID: line.ID, Lat: 0.5, Lng: 0}
	far := model.Station{Name: "远站", Code: "M1-02", LineID: line.ID, Lat: 3, Lng: 0}
	db.DB.Create(&near)
	db.DB.Create(&far)

	// 三条帖子：远站、近站、无坐标；按距离排名后无坐标的排最后，不丢弃
	db.DB.Create(&model.Post{Title: "far post", CreatedBy: alice.ID, IsPublic: true, StationID: &far.ID})
	db.DB.Create(&model.Post{Title: "near post", CreatedBy: alice.ID, IsPublic: true, StationID: &near.ID})
	db.DB.Create(&model.Post{Title: "nowhere post", CreatedBy: alice.ID, IsPublic: true})

	w := doRequest(r, http.MethodGet, "/api/posts?lat=0&lng=0", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("应返回 200，实际 %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	posts := body["posts"].([]interface{})
	if len(posts) != 3 {
		t.Fatalf("无坐标的帖子不能被丢弃，应有 3 条，实际 %d", len(posts))
	}

	titles := make([]string, len(posts))
	for i, p := range posts {
		titles[i] = p.(map[string]interface{})["title"].(string)
	}
	if titles[0] != "near post" || titles[1] != "far post" || titles[2] != "nowhere post" {
		t.Errorf("排序错误: %v", titles)
	}

	if posts[0].(map[string]interface{})["distance_km"] == nil {
		t.Error("参与排名的帖子应带 distance_km")
	}
	if posts[2].(map[string]interface{})["distance_km"] != nil {
		t.Error("无坐标的帖子不应带 distance_km")
	}

	// lat 解析失败：400，不做排名
	w = doRequest(r, http.MethodGet, "/api/posts?lat=abc&lng=0", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法 lat 应返回 400，实际 %d", w.Code)
	}
}

func TestPostTextFilterEndpoint(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)

	db.DB.Create(&model.Post{Title: "walk", Body: "Crossing the Golden Bridge", CreatedBy: alice.ID, IsPublic: true})
	db.DB.Create(&model.Post{Title: "park", Body: "green grass", CreatedBy: alice.ID, IsPublic: true})

	w := doRequest(r, http.MethodGet, "/api/posts?q=bridge", "", nil)
	body := decodeBody(t, w)
	posts := body["posts"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("q=bridge 应只匹配 1 条 (大小写不敏感)，实际 %d", len(posts))
	}
	if posts[0].(map[string]interface{})["title"] != "walk" {
		t.Errorf("匹配结果错误: %v", posts[0])
	}
}

func TestPostOwnershipMutation(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)
	bob := newTestUser(t, "bob", model.RoleUser)
	admin := newTestUser(t, "admin", model.RoleAdmin)

	post := model.Post{Title: "t", CreatedBy: alice.ID, IsPublic: true}
	db.DB.Create(&post)
	path := fmt.Sprintf("/api/posts/%d", post.ID)
	payload := map[string]interface{}{"title": "updated"}

	// 非创建者被拒 (403，与 404 区分)
	if w := doRequest(r, http.MethodPut, path, tokenFor(t, bob), payload); w.Code != http.StatusForbidden {
		t.Errorf("非创建者修改应 403，实际 %d", w.Code)
	}
	// 未登录 401
	if w := doRequest(r, http.MethodPut, path, "", payload); w.Code != http.StatusUnauthorized {
		t.Errorf("未登录修改应 401，实际 %d", w.Code)
	}
	// 创建者可以改
	if w := doRequest(r, http.MethodPut, path, tokenFor(t, alice), payload); w.Code != http.StatusOK {
		t.Errorf("创建者修改应 200，实际 %d", w.Code)
	}
	// 管理员可以删
	if w := doRequest(r, http.MethodDelete, path, tokenFor(t, admin), nil); w.Code != http.StatusOK {
		t.Errorf("管理员删除应 200，实际 %d", w.Code)
	}
}

func TestCreatePostServerAssignsCreator(t *testing.T) {
	r := setupTestRouter(t)
	alice := newTestUser(t, "alice", model.RoleUser)

	// 客户端传的 created_by 必须被忽略，以登录态为准
	w := doRequest(r, http.MethodPost, "/api/posts", tokenFor(t, alice), map[string]interface{}{
		"title": "t", "body": "b", "created_by": 9999,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("发帖应 201，实际 %d: %s", w.Code, w.Body.String())
	}

	var post model.Post
	db.DB.Last(&post)
	if post.CreatedBy != alice.ID {
		t.Errorf("created_by 应为调用者 %d，实际 %d", alice.ID, post.CreatedBy)
	}
}
