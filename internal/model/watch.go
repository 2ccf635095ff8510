package model

import (
	"time"
)

// Watch represents a specific item owned by a customer.
type Watch struct {
	ID           uint       `json:"watch_id" gorm:"column:watch_id;primaryKey"`
	TenantID     uint       `json:"tenant_id" gorm:"index;not null"`
	CustomerID   uint       `json:"customer_id" gorm:"index;not null"`
	Brand        *string    `json:"brand,omitempty" gorm:"type:varchar(255)"`
	ModelNo      *string    `json:"model_no,omitempty" gorm:"type:varchar(255)"`
	SerialNo     *string    `json:"serial_no,omitempty" gorm:"type:varchar(255)"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty" gorm:"type:date"`
	Notes        *string    `json:"notes,omitempty" gorm:"type:text"`

	Tenant   Tenant   `json:"-" gorm:"foreignKey:TenantID"`
	Customer Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// TableName overrides the default table name
func (Watch) TableName() string {
	return "watches"
}
