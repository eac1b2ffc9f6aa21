package entities

import (
	"time"

	"github.com/google/uuid"
)

// ContactRole classifies a buying-side contact on a deal
type ContactRole string

const (
	RoleEconomicBuyer ContactRole = "economic_buyer"
	RoleChampion      ContactRole = "champion"
	RoleInfluencer    ContactRole = "influencer"
	RoleBlocker       ContactRole = "blocker"
	RoleUnknown       ContactRole = "unknown"
)

// Contact is a person on the buying side of a deal
type Contact struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  uuid.UUID   `json:"tenant_id" gorm:"type:uuid;not null;index"`
	DealID    uuid.UUID   `json:"deal_id" gorm:"type:uuid;not null;index"`
	Name      string      `json:"name" gorm:"type:varchar(255);not null"`
	Email     *string     `json:"email,omitempty" gorm:"type:varchar(255)"`
	Title     string      `json:"title" gorm:"type:varchar(255)"`
	Role      ContactRole `json:"role" gorm:"type:varchar(30);default:'unknown'"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
