package policy

import "metro-system/model"

// 按资源类型声明读写规则，而不是在每个接口里散落 if 判断
// 这样授权逻辑集中在一张表里，可以单独测试

// Resource 资源类型
type Resource string

const (
	ResourceLine     Resource = "line"
	ResourceStation  Resource = "station"
	ResourceCategory Resource = "category"
	ResourcePlace    Resource = "place"
	ResourcePost     Resource = "post"
	ResourceComment  Resource = "comment"
	ResourceRating   Resource = "rating"
)

// WriteRule 写规则
type WriteRule int

const (
	WriteAdminOnly    WriteRule = iota // 基础数据：仅管理员可写
	WriteOwnerOrAdmin                  // 用户内容：创建者或管理员可写
)

// Rule 资源的访问规则 (读规则统一为公开，帖子的可见性单独处理)
type Rule struct {
	Write WriteRule
}

var rules = map[Resource]Rule{
	ResourceLine:     {Write: WriteAdminOnly},
	ResourceStation:  {Write: WriteAdminOnly},
	ResourceCategory: {Write: WriteAdminOnly},
	ResourcePlace:    {Write: WriteOwnerOrAdmin},
	ResourcePost:     {Write: WriteOwnerOrAdmin},
	ResourceComment:  {Write: WriteOwnerOrAdmin},
	ResourceRating:   {Write: WriteOwnerOrAdmin},
}

// CanCreate 是否允许创建资源
// 基础数据仅管理员，用户内容任何登录用户 (创建者字段由服务端填充)
func CanCreate(res Resource, caller *model.User) bool {
	if caller == nil {
		return false
	}
	if rules[res].Write == WriteAdminOnly {
		return caller.IsAdmin()
	}
	return true
}

// CanWrite 是否允许修改/删除资源
// ownerID 是从数据库刚查出来的当前归属，调用方必须在执行时传入最新值，
// 不能用请求解析阶段缓存的归属，避免并发修改下的过期授权
func CanWrite(res Resource, caller *model.User, ownerID *uint) bool {
	if caller == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	if rules[res].Write == WriteAdminOnly {
		return false
	}
	return ownerID != nil && *ownerID == caller.ID
}

// CanReadPost 帖子可见性：公开帖所有人可见 (含未登录)，私密帖只有创建者和管理员可见
func CanReadPost(caller *model.User, post *model.Post) bool {
	if post.IsPublic {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.IsAdmin() || post.CreatedBy == caller.ID
}
