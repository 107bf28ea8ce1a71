package models

import (
	"time"
)

type UserRole string

const (
	RoleTourist UserRole = "TOURIST"
	RoleGuide   UserRole = "GUIDE"
	RoleAdmin   UserRole = "ADMIN"
)

type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserBlocked UserStatus = "BLOCKED"
	UserDeleted UserStatus = "DELETED"
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"` // bcrypt hash
	Phone         string     `gorm:"size:20" json:"phone"`
	Address       string     `gorm:"size:300" json:"address"`
	Gender        string     `gorm:"size:10" json:"gender"` // "MALE" or "FEMALE"
	Bio           string     `gorm:"type:text" json:"bio,omitempty"`
	ProfilePicURL string     `json:"profilePicUrl,omitempty"`
	Role          UserRole   `gorm:"type:varchar(20);not null;index" json:"role"`
	Status        UserStatus `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Tourist *Tourist `gorm:"foreignKey:UserID" json:"tourist,omitempty"`
	Guide   *Guide   `gorm:"foreignKey:UserID" json:"guide,omitempty"`
	Admin   *Admin   `gorm:"foreignKey:UserID" json:"admin,omitempty"`
}

type Tourist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"` // sha256 of the raw token
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
