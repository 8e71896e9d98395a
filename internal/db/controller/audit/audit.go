// Package audit records and lists user actions.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

// Actions recorded by the oidc login flow.
const (
	ActionOIDCLogin  = "auth.oidc.login"
	ActionOIDCLink   = "auth.oidc.link"
	ActionOIDCCreate = "auth.oidc.create"
	ActionLocalLogin = "auth.local.login"
)

const defaultLimit = 50

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrActionEmpty is returned when an entry without action is recorded.
	ErrActionEmpty = errors.New("audit action cannot be empty")
	// ErrUserIDZero is returned when an entry without user is recorded.
	ErrUserIDZero = errors.New("audit user id cannot be zero")
)

// Record stores one action of userID with data encoded as json.
func Record(db *gorm.DB, userID uint64, action string, data map[string]any) (*models.AuditLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if action == "" {
		return nil, ErrActionEmpty
	}

	if userID == 0 {
		return nil, ErrUserIDZero
	}

	encoded := []byte("{}")

	if len(data) > 0 {
		var err error
		if encoded, err = json.Marshal(data); err != nil {
			return nil, fmt.Errorf("failed to encode audit data: %w", err)
		}
	}

	entry := models.AuditLog{
		ID:     uuid.NewString(),
		UserID: userID,
		Action: action,
		Data:   string(encoded),
	}

	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return &entry, nil
}

// ListForUser returns the newest entries of userID first. limit <= 0 means 50.
func ListForUser(db *gorm.DB, userID uint64, limit int) ([]models.AuditLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if limit <= 0 {
		limit = defaultLimit
	}

	var entries []models.AuditLog

	result := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// CountAction returns how often action was recorded for userID.
func CountAction(db *gorm.DB, userID uint64, action string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	err := db.Model(&models.AuditLog{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&count).Error

	return count, err
}
