package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole defines the role of a user within a tenant
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleRep   UserRole = "rep"
)

// User represents an authenticated member of a tenant workspace
type User struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID          uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Email             string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name              string     `json:"name" gorm:"type:varchar(255)"`
	Role              UserRole   `json:"role" gorm:"type:varchar(20);default:'rep'"`
	AvatarURL         *string    `json:"avatar_url,omitempty" gorm:"type:text"`
	OAuthProvider     *string    `json:"oauth_provider,omitempty" gorm:"type:varchar(50)"`
	OAuthID           *string    `json:"-" gorm:"type:varchar(255);index"`
	OAuthRefreshToken *string    `json:"-" gorm:"type:text"`
	IsActive          bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// NewOAuthUser creates a user from an OAuth identity. Each first-time user gets a
// fresh tenant; invitations into an existing tenant overwrite TenantID before Create.
func NewOAuthUser(email, name, provider, oauthID string) *User {
	return &User{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		Email:         email,
		Name:          name,
		Role:          UserRoleAdmin,
		OAuthProvider: &provider,
		OAuthID:       &oauthID,
		IsActive:      true,
	}
}

// UpdateLastLogin stamps the current time as the last login
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}
