package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Competitor is a tenant-maintained rival vendor watched for in analysis text
type Competitor struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Aliases   datatypes.JSON `json:"aliases,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Competitor
func (Competitor) TableName() string {
	return "competitors"
}

// AliasList decodes the aliases column
func (c *Competitor) AliasList() ([]string, error) {
	if len(c.Aliases) == 0 {
		return nil, nil
	}
	var aliases []string
	if err := decodeJSONColumn(c.Aliases, &aliases); err != nil {
		return nil, fmt.Errorf("failed to decode competitor aliases: %w", err)
	}
	return aliases, nil
}

// SearchTerms returns the canonical name plus every alias, skipping blanks
func (c *Competitor) SearchTerms() ([]string, error) {
	aliases, err := c.AliasList()
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, len(aliases)+1)
	if c.Name != "" {
		terms = append(terms, c.Name)
	}
	for _, a := range aliases {
		if a != "" {
			terms = append(terms, a)
		}
	}
	return terms, nil
}
