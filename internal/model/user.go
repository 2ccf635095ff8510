package model

import (
	"time"
)

// User represents an authenticated operator belonging to one tenant.
type User struct {
	ID           uint      `json:"user_id" gorm:"column:user_id;primaryKey"`
	TenantID     uint      `json:"tenant_id" gorm:"index;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         string    `json:"role" gorm:"type:varchar(50);not null;default:'owner'"`
	CreatedAt    time.Time `json:"created_at"`

	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}

// TableName overrides the default table name
func (User) TableName() string {
	return "users"
}
