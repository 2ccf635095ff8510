package model

import (
	"time"
)

// MessageLog statuses. "sent" covers the mock channel; the email
// variants distinguish an attempted send from a skipped one.
const (
	MessageStatusSent        = "sent"
	MessageStatusEmailSent   = "email_sent"
	MessageStatusEmailFailed = "email_failed"
)

// MessageLog holds the text actually sent to a customer, one row per
// rule firing per run. Append-only.
type MessageLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"index;not null"`
	EventType  string    `json:"event_type" gorm:"type:varchar(80);not null"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	SentAt     time.Time `json:"sent_at" gorm:"not null"`
	Status     string    `json:"status" gorm:"type:varchar(40);not null;default:'sent'"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID"`
}

// TableName overrides the default table name
func (MessageLog) TableName() string {
	return "message_logs"
}
