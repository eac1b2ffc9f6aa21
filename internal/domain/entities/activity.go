package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus tracks the lifecycle of a meeting
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Meeting is a calendar interaction attached to a deal
type Meeting struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  uuid.UUID     `json:"tenant_id" gorm:"type:uuid;not null;index"`
	DealID    uuid.UUID     `json:"deal_id" gorm:"type:uuid;not null;index:idx_meetings_deal"`
	Title     string        `json:"title" gorm:"type:varchar(255)"`
	StartsAt  time.Time     `json:"starts_at" gorm:"not null;index"`
	Status    MeetingStatus `json:"status" gorm:"type:varchar(20);default:'scheduled'"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// IsCompleted reports whether the meeting actually happened
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingCompleted
}

// EmailDirection distinguishes outbound from inbound mail
type EmailDirection string

const (
	EmailSent     EmailDirection = "sent"
	EmailReceived EmailDirection = "received"
)

// Email is a logged email touchpoint on a deal. Only direction and timestamp
// feed the scoring engine; subject is kept for display.
type Email struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;index"`
	DealID    uuid.UUID      `json:"deal_id" gorm:"type:uuid;not null;index:idx_emails_deal"`
	Direction EmailDirection `json:"direction" gorm:"type:varchar(10);not null"`
	Subject   string         `json:"subject" gorm:"type:varchar(500)"`
	SentAt    time.Time      `json:"sent_at" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Email
func (Email) TableName() string {
	return "emails"
}
