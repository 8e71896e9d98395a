// Package models holds the gorm models of the bridge.
package models

// All lists every model for AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&IdentityLink{},
		&Organisation{},
		&Team{},
		&TeamMember{},
		&AuditLog{},
	}
}
