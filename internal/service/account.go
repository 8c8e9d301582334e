package service

import (
	"context"
	"fmt"
	"strings"

	"botdock/internal/db"
	"botdock/internal/model"

	"github.com/oklog/ulid/v2"
)

type AccountService struct {
	queries  *db.Queries
	bus      EventBus
	activity *ActivityService
}

func NewAccountService(queries *db.Queries, bus EventBus, activity *ActivityService) *AccountService {
	return &AccountService{
		queries:  queries,
		bus:      bus,
		activity: activity,
	}
}

// CreateAPIKey issues a new key. The raw key is present on the returned
// value exactly once; only its prefix is stored.
func (s *AccountService) CreateAPIKey(ctx context.Context, userID, name string) (*model.APIKey, error) {
	rawKey := "bd_" + strings.ToLower(ulid.Make().String()) + strings.ToLower(ulid.Make().String())
	prefix := rawKey[:8] + "..."

	row, err := s.queries.CreateAPIKey(ctx, ulid.Make().String(), userID, name, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}

	key := dbAPIKeyToModel(row)
	key.RawKey = rawKey
	s.activity.Record(ctx, userID, "account.api_key_create", "api_key", key.ID, map[string]interface{}{
		"name": name,
	})
	return key, nil
}

func (s *AccountService) ListAPIKeys(ctx context.Context, userID string) ([]*model.APIKey, error) {
	rows, err := s.queries.ListAPIKeys(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	out := make([]*model.APIKey, len(rows))
	for i, row := range rows {
		out[i] = dbAPIKeyToModel(row)
	}
	return out, nil
}

// DeleteAPIKey revokes a key. The owner scope is enforced in the query,
// so one user cannot revoke another's keys.
func (s *AccountService) DeleteAPIKey(ctx context.Context, userID, id string) error {
	if err := s.queries.DeleteAPIKey(ctx, id, userID); err != nil {
		return err
	}
	s.activity.Record(ctx, userID, "account.api_key_delete", "api_key", id, nil)
	return nil
}

func (s *AccountService) Limits(ctx context.Context, userID string) (*model.UserLimits, error) {
	row, err := s.queries.GetUserLimits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserLimits{
		UserID:           row.UserID,
		MaxBots:          row.MaxBots,
		MaxStorageMB:     row.MaxStorageMB,
		CurrentBots:      row.CurrentBots,
		CurrentStorageMB: row.CurrentStorageMB,
	}, nil
}

// RecordLogin writes a login entry to the audit trail.
func (s *AccountService) RecordLogin(ctx context.Context, userID, remoteAddr string) {
	s.activity.Record(ctx, userID, "auth.login", "profile", userID, map[string]interface{}{
		"remote_addr": remoteAddr,
	})
}
