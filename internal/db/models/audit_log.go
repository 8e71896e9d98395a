package models

import "time"

// AuditLog is one recorded action of a user.
type AuditLog struct {
	// ID is a random uuid.
	ID string `gorm:"primaryKey;size:36"`
	// UserID is the acting user.
	UserID uint64 `gorm:"not null;index"`
	// Action is a dotted name, e.g. auth.oidc.login.
	Action string `gorm:"size:100;not null;index"`
	// Data holds json encoded details.
	Data string `gorm:"type:text"`
	// CreatedAt is the timestamp of the action (managed by GORM).
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for the AuditLog model.
func (AuditLog) TableName() string {
	return "audit_logs"
}
