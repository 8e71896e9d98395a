package models

import "time"

// DefaultProvider is stored on links when no provider name is known.
const DefaultProvider = "oidc"

// IdentityLink ties one local user to one external identity.
// Both the subject and the user are unique, so a subject maps to at most one
// user and a user has at most one link.
type IdentityLink struct {
	// ID is the unique identifier for the link.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the linked local account.
	UserID uint64 `gorm:"not null;uniqueIndex"`
	// User is the linked account, removed links follow their user (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Subject is the sub claim of the identity provider.
	Subject string `gorm:"size:255;not null;uniqueIndex"`
	// Provider is the configured provider name at the time of linking.
	Provider string `gorm:"size:100;not null"`
	// CreatedAt is the timestamp when the link was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the link was last repointed (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the IdentityLink model.
func (IdentityLink) TableName() string {
	return "identity_links"
}
