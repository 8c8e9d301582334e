package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries wraps database queries
type Queries struct {
	*pgxpool.Pool
}

// NewQueries creates a new Queries instance
func NewQueries(pool *pgxpool.Pool) *Queries {
	return &Queries{Pool: pool}
}

// Bot represents a bots row
type Bot struct {
	ID          string
	OwnerID     string
	Name        string
	Description *string
	Language    string
	Framework   string
	Code        *string
	Status      string
	MemoryUsage string
	Uptime      string
	UsersCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const botColumns = `id, owner_id, name, description, language, framework, code,
	status, memory_usage, uptime, users_count, created_at, updated_at`

func scanBot(row pgx.Row) (Bot, error) {
	var b Bot
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Language, &b.Framework,
		&b.Code, &b.Status, &b.MemoryUsage, &b.Uptime, &b.UsersCount,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

type CreateBotParams struct {
	ID          string
	OwnerID     string
	Name        string
	Description *string
	Language    string
	Framework   string
	Code        *string
	Status      string
	MemoryUsage string
	Uptime      string
	UsersCount  int
}

func (q *Queries) CreateBot(ctx context.Context, p CreateBotParams) (Bot, error) {
	return scanBot(q.Pool.QueryRow(ctx,
		`INSERT INTO bots (id, owner_id, name, description, language, framework, code,
			status, memory_usage, uptime, users_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+botColumns,
		p.ID, p.OwnerID, p.Name, p.Description, p.Language, p.Framework, p.Code,
		p.Status, p.MemoryUsage, p.Uptime, p.UsersCount,
	))
}

func (q *Queries) GetBotByID(ctx context.Context, id string) (Bot, error) {
	return scanBot(q.Pool.QueryRow(ctx,
		`SELECT `+botColumns+` FROM bots WHERE id = $1`, id))
}

func (q *Queries) ListBots(ctx context.Context, limit int) ([]Bot, error) {
	rows, err := q.Pool.Query(ctx,
		`SELECT `+botColumns+` FROM bots ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bots := make([]Bot, 0)
	for rows.Next() {
		b, err := scanBot(rows)
		if err != nil {
			return nil, err
		}
		bots = append(bots, b)
	}
	return bots, rows.Err()
}

type UpdateBotParams struct {
	ID          string
	Name        string
	Description *string
	Language    string
	Framework   string
	Code        *string
}

func (q *Queries) UpdateBot(ctx context.Context, p UpdateBotParams) (Bot, error) {
	return scanBot(q.Pool.QueryRow(ctx,
		`UPDATE bots SET name = $2, description = $3, language = $4, framework = $5,
			code = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+botColumns,
		p.ID, p.Name, p.Description, p.Language, p.Framework, p.Code,
	))
}

func (q *Queries) UpdateBotStatus(ctx context.Context, id, status, uptime string) (Bot, error) {
	return scanBot(q.Pool.QueryRow(ctx,
		`UPDATE bots SET status = $2, uptime = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+botColumns,
		id, status, uptime,
	))
}

func (q *Queries) DeleteBot(ctx context.Context, id string) error {
	result, err := q.Pool.Exec(ctx, "DELETE FROM bots WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (q *Queries) CountBots(ctx context.Context) (int, error) {
	var n int
	err := q.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM bots").Scan(&n)
	return n, err
}

func (q *Queries) CountBotsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := q.Pool.Query(ctx, "SELECT status, COUNT(*) FROM bots GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Profile represents a profiles row
type Profile struct {
	ID        string
	Email     string
	FullName  *string
	AvatarURL *string
	Role      string
	IsBanned  bool
	CreatedAt time.Time
}

const profileColumns = `id, email, full_name, avatar_url, role, is_banned, created_at`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Role, &p.IsBanned, &p.CreatedAt)
	return p, err
}

func (q *Queries) GetProfileByID(ctx context.Context, id string) (Profile, error) {
	return scanProfile(q.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (q *Queries) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := q.Pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ListStaffProfiles returns profiles holding a support-team role.
func (q *Queries) ListStaffProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := q.Pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles
		WHERE role = ANY($1) ORDER BY created_at DESC`,
		[]string{"owner", "admin", "developer"})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (q *Queries) UpdateProfileRole(ctx context.Context, id, role string) (Profile, error) {
	return scanProfile(q.Pool.QueryRow(ctx,
		`UPDATE profiles SET role = $2 WHERE id = $1 RETURNING `+profileColumns,
		id, role))
}

func (q *Queries) UpdateProfileBanned(ctx context.Context, id string, banned bool) (Profile, error) {
	return scanProfile(q.Pool.QueryRow(ctx,
		`UPDATE profiles SET is_banned = $2 WHERE id = $1 RETURNING `+profileColumns,
		id, banned))
}

func (q *Queries) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := q.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM profiles").Scan(&n)
	return n, err
}
