package entities

import (
	"time"

	"github.com/google/uuid"
)

// ValueChange is an append-only record of a deal value edit
type ValueChange struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	DealID        uuid.UUID `json:"deal_id" gorm:"type:uuid;not null;index:idx_value_changes_deal"`
	PreviousValue int64     `json:"previous_value" gorm:"not null"`
	NewValue      int64     `json:"new_value" gorm:"not null"`
	ChangedAt     time.Time `json:"changed_at" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for ValueChange
func (ValueChange) TableName() string {
	return "deal_value_changes"
}

// Delta returns the signed value movement
func (v *ValueChange) Delta() int64 {
	return v.NewValue - v.PreviousValue
}
