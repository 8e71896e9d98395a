package models

import "time"

// TeamMember is the membership of one user in one team.
type TeamMember struct {
	// TeamID is the ID of the team in this membership.
	TeamID uint `gorm:"primaryKey;column:team_id"`
	// UserID is the ID of the user in this membership.
	UserID uint64 `gorm:"primaryKey;column:user_id;index"`
	// Team is the associated team, memberships go away with it (CASCADE).
	Team Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	// User is the associated user, memberships go away with it (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user joined the team (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the TeamMember model.
func (TeamMember) TableName() string {
	return "team_members"
}
