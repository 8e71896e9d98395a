package auth

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

// Capability is a team permission column.
type Capability string

// Team capabilities.
const (
	CapCreateEvents            Capability = "can_create_events"
	CapChangeTeams             Capability = "can_change_teams"
	CapChangeOrganiserSettings Capability = "can_change_organiser_settings"
	CapChangeEventSettings     Capability = "can_change_event_settings"
	CapChangeSubmissions       Capability = "can_change_submissions"
)

// TeamOverview is a team with its members.
type TeamOverview struct {
	Team    models.Team
	Members []models.User
}

// Service answers authorization questions from team memberships.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasCapability checks whether one of the user's teams holds capability.
// Superusers hold every capability.
func (s *Service) HasCapability(ctx context.Context, user *models.User, capability Capability) (bool, error) {
	if user.IsSuperuser {
		return true, nil
	}

	var count int64

	err := s.db.WithContext(ctx).Table("teams").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", user.ID).
		Where(fmt.Sprintf("teams.%s = ?", capability), true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check team capability: %w", err)
	}

	return count > 0, nil
}

// GetUserTeams retrieves all teams a user belongs to.
func (s *Service) GetUserTeams(ctx context.Context, userID uint64) ([]models.Team, error) {
	var teams []models.Team

	err := s.db.WithContext(ctx).
		Preload("Organisation").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.id").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user teams: %w", err)
	}

	return teams, nil
}

// AdministrativeTeams lists every administrative team with its members.
func (s *Service) AdministrativeTeams(ctx context.Context) ([]TeamOverview, error) {
	db := s.db.WithContext(ctx)

	var teams []models.Team

	if err := db.Preload("Organisation").Scopes(models.AdministrativeTeams).Order("id").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list administrative teams: %w", err)
	}

	out := make([]TeamOverview, 0, len(teams))

	for _, team := range teams {
		var members []models.User

		err := db.Joins("JOIN team_members ON team_members.user_id = users.id").
			Where("team_members.team_id = ?", team.ID).
			Order("users.id").
			Find(&members).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list team members: %w", err)
		}

		out = append(out, TeamOverview{Team: team, Members: members})
	}

	return out, nil
}
