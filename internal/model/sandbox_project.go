package model

// SandboxProject 学生自由编程项目，创建时触发 first_sandbox 类徽章
// swagger:model SandboxProject
type SandboxProject struct {
	BaseModel
	StudentID  uint   `gorm:"index;type:bigint unsigned;not null" json:"studentId"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Code       string `gorm:"type:text" json:"code"`
	ShareToken string `gorm:"size:36;uniqueIndex" json:"shareToken"` // 对外分享用的不透明标识
}

func (SandboxProject) TableName() string {
	return "sandbox_projects"
}
