package model

import (
	"time"
)

// Customer represents a person who bought one or more watches. Only the
// name is required; dob and purchase_date may be absent, which disables
// the date-based rules for that customer. TenantID is optional so that
// rows predating the multi-tenant schema stay valid.
type Customer struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"type:varchar(120);not null"`
	DOB          *time.Time `json:"dob,omitempty" gorm:"column:dob;type:date"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty" gorm:"type:date"`
	Model        *string    `json:"model,omitempty" gorm:"type:varchar(120)"`
	Mobile       *string    `json:"mobile,omitempty" gorm:"type:varchar(50)"`
	Email        *string    `json:"email,omitempty" gorm:"type:varchar(120)"`
	TenantID     *uint      `json:"tenant_id,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Tenant *Tenant `json:"-" gorm:"foreignKey:TenantID"`
}

// TableName overrides the default table name
func (Customer) TableName() string {
	return "customers"
}
