package model

import "strings"

// Role 面试目标岗位（与前端下拉框枚举保持一致）
type Role string

const (
	RoleBackend   Role = "Backend Developer"
	RoleFrontend  Role = "Frontend Developer"
	RoleFullstack Role = "Fullstack Developer"
	RoleDevOps    Role = "DevOps Engineer"
	RoleData      Role = "Data Analyst"
)

// ExperienceLevel 工作经验档位
type ExperienceLevel string

const (
	LevelJunior ExperienceLevel = "Junior (1-3 years)"
	LevelMiddle ExperienceLevel = "Middle (3-5 years)"
	LevelSenior ExperienceLevel = "Senior (5+ years)"
)

// KnownRoles 题库支持的全部岗位
func KnownRoles() []Role {
	return []Role{RoleBackend, RoleFrontend, RoleFullstack, RoleDevOps, RoleData}
}

// KnownLevels 题库支持的全部经验档位
func KnownLevels() []ExperienceLevel {
	return []ExperienceLevel{LevelJunior, LevelMiddle, LevelSenior}
}

// UserProfile 用户在开始面试前填写的资料，会话创建后不可变
// swagger:model UserProfile
type UserProfile struct {
	Name            string          `json:"name" binding:"required"`
	Role            Role            `json:"role" binding:"required"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" binding:"required"`
	Education       string          `json:"education,omitempty"`
}

// IsValid 校验必填字段。岗位/档位取值不在枚举内不算非法，
// 题库会退回通用默认题目列表。
func (p UserProfile) IsValid() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(string(p.Role)) != "" &&
		strings.TrimSpace(string(p.ExperienceLevel)) != ""
}
