package model

import (
	"time"
)

// Service represents a maintenance event on a watch. No handler or rule
// reads this table yet; it is kept as schema for service history.
type Service struct {
	ID          uint       `json:"service_id" gorm:"column:service_id;primaryKey"`
	WatchID     uint       `json:"watch_id" gorm:"index;not null"`
	TenantID    uint       `json:"tenant_id" gorm:"index;not null"`
	ServiceType string     `json:"service_type" gorm:"type:varchar(50);not null"`
	ServiceDate *time.Time `json:"service_date,omitempty" gorm:"type:date"`
	Notes       *string    `json:"notes,omitempty" gorm:"type:text"`

	Watch  Watch  `json:"-" gorm:"foreignKey:WatchID"`
	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}

// TableName overrides the default table name
func (Service) TableName() string {
	return "services"
}
