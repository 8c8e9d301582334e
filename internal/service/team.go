package service

import (
	"context"
	"errors"
	"fmt"

	"botdock/internal/db"
	"botdock/internal/model"
)

// ErrOwnerOnly is returned when a non-owner attempts a change reserved
// for the workspace owner.
var ErrOwnerOnly = errors.New("only the owner can perform this action")

type TeamService struct {
	queries  *db.Queries
	bus      EventBus
	activity *ActivityService
}

func NewTeamService(queries *db.Queries, bus EventBus, activity *ActivityService) *TeamService {
	return &TeamService{
		queries:  queries,
		bus:      bus,
		activity: activity,
	}
}

func (s *TeamService) Get(ctx context.Context, id string) (*model.Profile, error) {
	row, err := s.queries.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dbProfileToModel(row), nil
}

func (s *TeamService) List(ctx context.Context) ([]*model.Profile, error) {
	rows, err := s.queries.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profilesToModel(rows), nil
}

// ListStaff returns the members tickets can be assigned to.
func (s *TeamService) ListStaff(ctx context.Context) ([]*model.Profile, error) {
	rows, err := s.queries.ListStaffProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return profilesToModel(rows), nil
}

func profilesToModel(rows []db.Profile) []*model.Profile {
	out := make([]*model.Profile, len(rows))
	for i, row := range rows {
		out[i] = dbProfileToModel(row)
	}
	return out
}

// ChangeRole reassigns a member's role. Only the owner may do this, and
// the owner role itself cannot be granted or revoked here.
func (s *TeamService) ChangeRole(ctx context.Context, actorRole model.Role, actorID, memberID string, role model.Role) (*model.Profile, error) {
	if actorRole != model.RoleOwner {
		return nil, ErrOwnerOnly
	}
	if role == model.RoleOwner {
		return nil, errors.New("ownership cannot be transferred here")
	}

	current, err := s.queries.GetProfileByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if current.Role == string(model.RoleOwner) {
		return nil, errors.New("the owner's role cannot be changed")
	}

	row, err := s.queries.UpdateProfileRole(ctx, memberID, string(role))
	if err != nil {
		return nil, err
	}

	profile := dbProfileToModel(row)
	_ = s.bus.PublishUpdate("profiles", profile)
	s.activity.Record(ctx, actorID, "team.role_change", "profile", memberID, map[string]interface{}{
		"role": string(role),
	})
	return profile, nil
}

// SetBanned bans or unbans a member. Only the owner may do this, and the
// owner cannot ban themselves.
func (s *TeamService) SetBanned(ctx context.Context, actorRole model.Role, actorID, memberID string, banned bool) (*model.Profile, error) {
	if actorRole != model.RoleOwner {
		return nil, ErrOwnerOnly
	}
	if actorID == memberID {
		return nil, errors.New("the owner cannot ban themselves")
	}

	row, err := s.queries.UpdateProfileBanned(ctx, memberID, banned)
	if err != nil {
		return nil, err
	}

	profile := dbProfileToModel(row)
	_ = s.bus.PublishUpdate("profiles", profile)

	action := "team.unban"
	if banned {
		action = "team.ban"
	}
	s.activity.Record(ctx, actorID, action, "profile", memberID, nil)
	return profile, nil
}
