package model

// User 用户结构体 (用于登录认证和内容归属)
import "gorm.io/gorm"

// 用户角色常量
const (
	RoleUser  = "user"  // 普通用户
	RoleAdmin = "admin" // 管理员 (可管理线路/站点/分类等基础数据)
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;not null"` // 用户名唯一且不为空
	Password string `json:"-" gorm:"not null"`                    // 加密后的密码 (不序列化)
	Email    string `json:"email"`
	Role     string `json:"role" gorm:"not null;default:user"` // "user" 或 "admin"
}

// IsAdmin 判断用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
