package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

// SyncResult counts what one Sync changed.
type SyncResult struct {
	FlagsUpdated       bool
	OrganisationsAdded int
	TeamsAdded         int
	MembershipsAdded   int
	MembershipsRemoved int
}

// Mutations returns the number of changed rows, zero when the user already
// matched its role.
func (r SyncResult) Mutations() int {
	n := r.OrganisationsAdded + r.TeamsAdded + r.MembershipsAdded + r.MembershipsRemoved
	if r.FlagsUpdated {
		n++
	}

	return n
}

// Synchronizer applies a Role to the user flags and administrative team
// membership.
type Synchronizer struct {
	db  *gorm.DB
	org config.Organisation
}

// NewSynchronizer returns a synchronizer creating missing administrative
// teams in the organisation described by org.
func NewSynchronizer(db *gorm.DB, org config.Organisation) *Synchronizer {
	return &Synchronizer{db: db, org: org}
}

// Sync grants or revokes admin and superuser state of user according to role.
// Admin roles get a membership in the administrative team of the configured
// organisation, created on demand. Other roles lose the membership in every
// administrative team of every organisation. Flags are written only when they
// change and the user value is updated after commit.
func (s *Synchronizer) Sync(ctx context.Context, user *models.User, role Role) (SyncResult, error) {
	var res SyncResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes := map[string]any{}

		if user.IsAdmin != role.IsAdmin() {
			changes["is_admin"] = role.IsAdmin()
		}

		if user.IsSuperuser != role.IsSuperuser() {
			changes["is_superuser"] = role.IsSuperuser()
		}

		if len(changes) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(changes).Error; err != nil {
				return err
			}

			res.FlagsUpdated = true
		}

		if role.IsAdmin() {
			return s.grant(tx, user.ID, &res)
		}

		return s.revoke(tx, user.ID, &res)
	})
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: sync user %d: %v", ErrStoreWriteFailure, user.ID, err) //nolint:errorlint
	}

	user.IsAdmin = role.IsAdmin()
	user.IsSuperuser = role.IsSuperuser()

	if res.Mutations() > 0 {
		log.Info().
			Uint64("user_id", user.ID).
			Stringer("role", role).
			Int("memberships_added", res.MembershipsAdded).
			Int("memberships_removed", res.MembershipsRemoved).
			Bool("flags_updated", res.FlagsUpdated).
			Msg("synchronized user privileges")
	}

	return res, nil
}

func (s *Synchronizer) grant(tx *gorm.DB, userID uint64, res *SyncResult) error {
	var org models.Organisation

	created, err := firstOrCreate(tx, &org,
		&models.Organisation{Slug: s.org.Slug},
		&models.Organisation{Slug: s.org.Slug, Name: s.org.Name},
	)
	if err != nil {
		return err
	}

	if created {
		res.OrganisationsAdded++
	}

	var team models.Team

	created, err = firstOrCreate(tx, &team,
		&models.Team{OrganisationID: org.ID, Name: s.org.AdminTeam},
		&models.Team{
			OrganisationID:             org.ID,
			Name:                       s.org.AdminTeam,
			CanCreateEvents:            true,
			CanChangeTeams:             true,
			CanChangeOrganiserSettings: true,
			CanChangeEventSettings:     true,
			CanChangeSubmissions:       true,
		},
	)
	if err != nil {
		return err
	}

	if created {
		res.TeamsAdded++
	}

	var member models.TeamMember

	created, err = firstOrCreate(tx, &member,
		&models.TeamMember{TeamID: team.ID, UserID: userID},
		&models.TeamMember{TeamID: team.ID, UserID: userID},
	)
	if err != nil {
		return err
	}

	if created {
		res.MembershipsAdded++
	}

	return nil
}

func (s *Synchronizer) revoke(tx *gorm.DB, userID uint64, res *SyncResult) error {
	var teamIDs []uint

	if err := tx.Model(&models.Team{}).Scopes(models.AdministrativeTeams).Pluck("id", &teamIDs).Error; err != nil {
		return err
	}

	if len(teamIDs) == 0 {
		return nil
	}

	result := tx.Where("user_id = ? AND team_id IN ?", userID, teamIDs).Delete(&models.TeamMember{})
	if result.Error != nil {
		return result.Error
	}

	res.MembershipsRemoved = int(result.RowsAffected)

	return nil
}
