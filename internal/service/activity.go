package service

import (
	"context"
	"fmt"
	"time"

	"botdock/internal/db"
	"botdock/internal/model"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// RetentionPeriod is how long audit entries are kept before the purge
// job removes them.
const RetentionPeriod = 30 * 24 * time.Hour

// CSVStore persists exported CSV files and returns where they landed.
type CSVStore interface {
	SaveCSV(name string, data []byte) (string, error)
}

type ActivityService struct {
	queries *db.Queries
	bus     EventBus
	store   CSVStore
	log     *zap.Logger
}

func NewActivityService(queries *db.Queries, bus EventBus, store CSVStore, log *zap.Logger) *ActivityService {
	return &ActivityService{
		queries: queries,
		bus:     bus,
		store:   store,
		log:     log,
	}
}

// Record writes an audit entry and broadcasts it. Audit failures are
// logged but never propagated; they must not fail the operation being
// audited.
func (s *ActivityService) Record(ctx context.Context, userID, action, entityType, entityID string, details map[string]interface{}) {
	row, err := s.queries.CreateActivity(ctx, db.CreateActivityParams{
		ID:         ulid.Make().String(),
		UserID:     strPtr(userID),
		Action:     action,
		EntityType: strPtr(entityType),
		EntityID:   strPtr(entityID),
		Details:    details,
	})
	if err != nil {
		s.log.Warn("Failed to record activity",
			zap.String("action", action),
			zap.Error(err))
		return
	}
	_ = s.bus.PublishInsert("activity_logs", dbActivityToModel(row))
}

type ListActivityInput struct {
	From   *time.Time
	To     *time.Time
	Action string
	Limit  int
}

func (s *ActivityService) List(ctx context.Context, input ListActivityInput) ([]*model.ActivityLog, error) {
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 100
	}
	pattern := ""
	if input.Action != "" {
		pattern = "%" + input.Action + "%"
	}
	rows, err := s.queries.ListActivity(ctx, db.ListActivityParams{
		From:          input.From,
		To:            input.To,
		ActionPattern: pattern,
		Limit:         input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	logs := make([]*model.ActivityLog, len(rows))
	for i, row := range rows {
		logs[i] = dbActivityToModel(row)
	}
	return logs, nil
}

// DeleteByIDs removes selected entries and broadcasts one delete event
// per removed id.
func (s *ActivityService) DeleteByIDs(ctx context.Context, actorID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.queries.DeleteActivityByIDs(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	for _, id := range ids {
		_ = s.bus.PublishDelete("activity_logs", id)
	}
	s.Record(ctx, actorID, "logs.delete", "activity_log", "", map[string]interface{}{
		"count": len(ids),
	})
	return nil
}

// ExportCSV renders the filtered entries as CSV and saves the file
// through the configured store. It returns the stored file's path.
func (s *ActivityService) ExportCSV(ctx context.Context, input ListActivityInput) (string, error) {
	logs, err := s.List(ctx, input)
	if err != nil {
		return "", err
	}

	data := RenderActivityCSV(logs)
	name := fmt.Sprintf("activity-logs-%s.csv", time.Now().Format("2006-01-02"))
	path, err := s.store.SaveCSV(name, data)
	if err != nil {
		return "", fmt.Errorf("failed to store export: %w", err)
	}

	s.log.Info("Activity export written",
		zap.String("path", path),
		zap.Int("rows", len(logs)))
	return path, nil
}

// Purge removes entries older than the retention period and returns how
// many were dropped.
func (s *ActivityService) Purge(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-RetentionPeriod)
	count, err := s.queries.PurgeActivityBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge activity: %w", err)
	}
	if count > 0 {
		s.log.Info("Purged expired activity entries", zap.Int64("count", count))
	}
	return count, nil
}
