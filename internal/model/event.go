package model

import (
	"time"
)

// Event statuses and channels recorded by the rule engine.
const (
	EventStatusSent   = "sent"
	EventStatusFailed = "failed"

	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// Event types produced by the rule engine.
const (
	EventBatteryReplacement = "battery_replacement"
	EventBirthdayWishes     = "birthday_wishes"
	EventExtendedWarranty   = "extended_warranty"
	EventBundlingOffers     = "bundling_offers"
)

// Event is an append-only audit record of a notification attempt. Rows
// are only ever inserted, never updated or deleted.
type Event struct {
	ID          uint       `json:"event_id" gorm:"column:event_id;primaryKey"`
	TenantID    *uint      `json:"tenant_id,omitempty" gorm:"index"`
	CustomerID  *uint      `json:"customer_id,omitempty" gorm:"index"`
	ServiceID   *uint      `json:"service_id,omitempty" gorm:"index"`
	EventType   string     `json:"event_type" gorm:"type:varchar(50);not null"`
	Channel     string     `json:"channel" gorm:"type:varchar(20);not null"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	SentAt      time.Time  `json:"sent_at"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:'sent'"`

	Tenant   *Tenant   `json:"-" gorm:"foreignKey:TenantID"`
	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID"`
	Service  *Service  `json:"-" gorm:"foreignKey:ServiceID"`
}

// TableName overrides the default table name
func (Event) TableName() string {
	return "events"
}
