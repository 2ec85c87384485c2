package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verduraria/backend/pkg/enums"
)

// User holds both staff and customer accounts. PasswordHash is empty for
// accounts created through a federated identity provider.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Email         string         `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash  string         `gorm:"column:password_hash"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	TaxID         *string        `gorm:"column:tax_id;uniqueIndex"`
	Phone         string         `gorm:"column:phone"`
	PostalCode    string         `gorm:"column:postal_code"`
	Street        string         `gorm:"column:street"`
	District      string         `gorm:"column:district"`
	City          string         `gorm:"column:city"`
	OAuthProvider *string        `gorm:"column:oauth_provider"`
	OAuthSubject  *string        `gorm:"column:oauth_subject;index"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
