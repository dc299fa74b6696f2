package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Parent  UserRole = "parent"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"Name"`
	Email     string    `gorm:"size:100;unique;not null" json:"Email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('student','teacher','parent','admin');default:'student'" json:"Role"`
	Language  string    `gorm:"size:10;default:'en'" json:"Language"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"Disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}

// ParentLink 家长与学生的关联（非所有权关系，仅反向引用）
type ParentLink struct {
	BaseModel
	ParentID  uint `gorm:"index:idx_parent_student,unique;type:bigint unsigned;not null" json:"parentId"`
	StudentID uint `gorm:"index:idx_parent_student,unique;type:bigint unsigned;not null" json:"studentId"`
}

func (ParentLink) TableName() string {
	return "parent_links"
}
