package db

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

// Incident represents a maintenance_logs row with the creator's display name
type Incident struct {
	ID              string
	Title           string
	Description     *string
	Status          string
	Impact          string
	StartTime       *time.Time
	EndTime         *time.Time
	CompletionNotes *string
	CreatedBy       string
	CreatorName     *string
	CreatedAt       time.Time
}

const incidentSelect = `SELECT m.id, m.title, m.description, m.status, m.impact,
	m.start_time, m.end_time, m.completion_notes, m.created_by, p.full_name, m.created_at
FROM maintenance_logs m
LEFT JOIN profiles p ON p.id = m.created_by`

func scanIncident(row pgx.Row) (Incident, error) {
	var i Incident
	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &i.Status, &i.Impact,
		&i.StartTime, &i.EndTime, &i.CompletionNotes, &i.CreatedBy,
		&i.CreatorName, &i.CreatedAt,
	)
	return i, err
}

type UpsertIncidentParams struct {
	ID              string
	Title           string
	Description     *string
	Status          string
	Impact          string
	StartTime       *time.Time
	EndTime         *time.Time
	CompletionNotes *string
	CreatedBy       string
}

func (q *Queries) CreateIncident(ctx context.Context, p UpsertIncidentParams) (Incident, error) {
	var id string
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO maintenance_logs (id, title, description, status, impact,
			start_time, end_time, completion_notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.ID, p.Title, p.Description, p.Status, p.Impact,
		p.StartTime, p.EndTime, p.CompletionNotes, p.CreatedBy,
	).Scan(&id)
	if err != nil {
		return Incident{}, err
	}
	return q.GetIncidentByID(ctx, id)
}

func (q *Queries) UpdateIncident(ctx context.Context, p UpsertIncidentParams) (Incident, error) {
	_, err := q.Pool.Exec(ctx,
		`UPDATE maintenance_logs SET title = $2, description = $3, status = $4,
			impact = $5, start_time = $6, end_time = $7, completion_notes = $8
		WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Status, p.Impact,
		p.StartTime, p.EndTime, p.CompletionNotes,
	)
	if err != nil {
		return Incident{}, err
	}
	return q.GetIncidentByID(ctx, p.ID)
}

func (q *Queries) GetIncidentByID(ctx context.Context, id string) (Incident, error) {
	return scanIncident(q.Pool.QueryRow(ctx, incidentSelect+` WHERE m.id = $1`, id))
}

func (q *Queries) ListIncidents(ctx context.Context, limit int) ([]Incident, error) {
	rows, err := q.Pool.Query(ctx, incidentSelect+` ORDER BY m.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := make([]Incident, 0)
	for rows.Next() {
		i, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, i)
	}
	return incidents, rows.Err()
}

func (q *Queries) DeleteIncident(ctx context.Context, id string) error {
	result, err := q.Pool.Exec(ctx, "DELETE FROM maintenance_logs WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ActivityLog represents an activity_logs row with the actor's email
type ActivityLog struct {
	ID         string
	UserID     *string
	Action     string
	EntityType *string
	EntityID   *string
	Details    map[string]interface{}
	ActorEmail *string
	CreatedAt  time.Time
}

const activitySelect = `SELECT a.id, a.user_id, a.action, a.entity_type,
	a.entity_id, a.details, p.email, a.created_at
FROM activity_logs a
LEFT JOIN profiles p ON p.id = a.user_id`

func scanActivity(row pgx.Row) (ActivityLog, error) {
	var a ActivityLog
	err := row.Scan(&a.ID, &a.UserID, &a.Action, &a.EntityType, &a.EntityID, &a.Details, &a.ActorEmail, &a.CreatedAt)
	return a, err
}

type CreateActivityParams struct {
	ID         string
	UserID     *string
	Action     string
	EntityType *string
	EntityID   *string
	Details    map[string]interface{}
}

func (q *Queries) CreateActivity(ctx context.Context, p CreateActivityParams) (ActivityLog, error) {
	var id string
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.ID, p.UserID, p.Action, p.EntityType, p.EntityID, p.Details,
	).Scan(&id)
	if err != nil {
		return ActivityLog{}, err
	}
	return scanActivity(q.Pool.QueryRow(ctx, activitySelect+` WHERE a.id = $1`, id))
}

type ListActivityParams struct {
	From          *time.Time
	To            *time.Time
	ActionPattern string // ILIKE pattern, empty for no action filter
	Limit         int
}

func (q *Queries) ListActivity(ctx context.Context, p ListActivityParams) ([]ActivityLog, error) {
	query := activitySelect + ` WHERE 1=1`
	args := []interface{}{}
	if p.From != nil {
		args = append(args, *p.From)
		query += ` AND a.created_at >= $` + strconv.Itoa(len(args))
	}
	if p.To != nil {
		args = append(args, *p.To)
		query += ` AND a.created_at <= $` + strconv.Itoa(len(args))
	}
	if p.ActionPattern != "" {
		args = append(args, p.ActionPattern)
		query += ` AND a.action ILIKE $` + strconv.Itoa(len(args))
	}
	args = append(args, p.Limit)
	query += ` ORDER BY a.created_at DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := q.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]ActivityLog, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

func (q *Queries) DeleteActivityByIDs(ctx context.Context, ids []string) (int64, error) {
	result, err := q.Pool.Exec(ctx, "DELETE FROM activity_logs WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// PurgeActivityBefore deletes entries older than the cutoff and returns the
// affected count.
func (q *Queries) PurgeActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := q.Pool.Exec(ctx, "DELETE FROM activity_logs WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (q *Queries) CountActivity(ctx context.Context) (int, error) {
	var n int
	err := q.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM activity_logs").Scan(&n)
	return n, err
}

// APIKey represents an api_keys row
type APIKey struct {
	ID        string
	UserID    string
	Name      string
	KeyPrefix string
	CreatedAt time.Time
}

const apiKeyColumns = `id, user_id, name, key_prefix, created_at`

func scanAPIKey(row pgx.Row) (APIKey, error) {
	var k APIKey
	err := row.Scan(&k.ID, &k.UserID, &k.Name, &k.KeyPrefix, &k.CreatedAt)
	return k, err
}

func (q *Queries) CreateAPIKey(ctx context.Context, id, userID, name, keyPrefix string) (APIKey, error) {
	return scanAPIKey(q.Pool.QueryRow(ctx,
		`INSERT INTO api_keys (id, user_id, name, key_prefix)
		VALUES ($1, $2, $3, $4)
		RETURNING `+apiKeyColumns,
		id, userID, name, keyPrefix,
	))
}

func (q *Queries) ListAPIKeys(ctx context.Context, userID string) ([]APIKey, error) {
	rows, err := q.Pool.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]APIKey, 0)
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (q *Queries) DeleteAPIKey(ctx context.Context, id, userID string) error {
	result, err := q.Pool.Exec(ctx,
		"DELETE FROM api_keys WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UserLimits represents a user_limits row
type UserLimits struct {
	UserID           string
	MaxBots          int
	MaxStorageMB     int
	CurrentBots      int
	CurrentStorageMB int
}

func (q *Queries) GetUserLimits(ctx context.Context, userID string) (UserLimits, error) {
	var l UserLimits
	err := q.Pool.QueryRow(ctx,
		`SELECT user_id, max_bots, max_storage_mb, current_bots, current_storage_mb
		FROM user_limits WHERE user_id = $1`, userID,
	).Scan(&l.UserID, &l.MaxBots, &l.MaxStorageMB, &l.CurrentBots, &l.CurrentStorageMB)
	return l, err
}
