package models

import (
	"time"

	"gorm.io/gorm"
)

// Team is a group of users holding capabilities inside one organisation.
// A team is administrative when it holds the create events, change teams and
// change organiser settings capabilities together.
type Team struct {
	// ID is the unique identifier for the team.
	ID uint `gorm:"primaryKey"`
	// OrganisationID is the owning organisation, unique together with Name.
	OrganisationID uint `gorm:"not null;uniqueIndex:idx_team_organisation_name"`
	// Organisation is the owning organisation (loaded via foreign key).
	Organisation Organisation `gorm:"foreignKey:OrganisationID;constraint:OnDelete:CASCADE"`
	// Name of the team.
	Name string `gorm:"size:190;not null;uniqueIndex:idx_team_organisation_name"`

	CanCreateEvents            bool `gorm:"not null"`
	CanChangeTeams             bool `gorm:"not null"`
	CanChangeOrganiserSettings bool `gorm:"not null"`
	CanChangeEventSettings     bool `gorm:"not null"`
	CanChangeSubmissions       bool `gorm:"not null"`

	// CreatedAt is the timestamp when the team was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the team was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Team model.
func (Team) TableName() string {
	return "teams"
}

// IsAdministrative reports whether the team holds the administrative signature.
func (t *Team) IsAdministrative() bool {
	return t.CanCreateEvents && t.CanChangeTeams && t.CanChangeOrganiserSettings
}

// AdministrativeTeams scopes a teams query to teams holding the administrative signature.
func AdministrativeTeams(db *gorm.DB) *gorm.DB {
	return db.Where(
		"can_create_events = ? AND can_change_teams = ? AND can_change_organiser_settings = ?",
		true, true, true,
	)
}
