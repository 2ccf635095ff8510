package model

import (
	"time"
)

// Tenant represents an owning retailer account. Every user, watch and
// template belongs to exactly one tenant; customers may predate the
// multi-tenant schema and carry no tenant link.
type Tenant struct {
	ID        uint      `json:"tenant_id" gorm:"column:tenant_id;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(255)"`
	Mobile    *string   `json:"mobile,omitempty" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default table name
func (Tenant) TableName() string {
	return "tenants"
}
