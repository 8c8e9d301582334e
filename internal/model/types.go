package model

import "time"

// BotStatus represents bot runtime status
type BotStatus string

const (
	BotStatusOnline      BotStatus = "online"
	BotStatusOffline     BotStatus = "offline"
	BotStatusMaintenance BotStatus = "maintenance"
	BotStatusStarting    BotStatus = "starting"
)

// TicketStatus represents support ticket status
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority represents support ticket priority
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// IncidentStatus represents maintenance incident status
type IncidentStatus string

const (
	IncidentStatusScheduled  IncidentStatus = "scheduled"
	IncidentStatusInProgress IncidentStatus = "in_progress"
	IncidentStatusCompleted  IncidentStatus = "completed"
	IncidentStatusResolved   IncidentStatus = "resolved"
)

// IncidentImpact represents maintenance incident impact
type IncidentImpact string

const (
	IncidentImpactMinor    IncidentImpact = "minor"
	IncidentImpactMajor    IncidentImpact = "major"
	IncidentImpactCritical IncidentImpact = "critical"
)

// Role represents a team member role
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleViewer    Role = "viewer"
)

// IsStaff reports whether the role grants support-team access.
func (r Role) IsStaff() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleDeveloper
}

// Bot represents a hosted Discord bot
type Bot struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language"`
	Framework   string    `json:"framework"`
	Code        string    `json:"code,omitempty"`
	Status      BotStatus `json:"status"`
	MemoryUsage string    `json:"memory_usage"`
	Uptime      string    `json:"uptime"`
	UsersCount  int       `json:"users_count"`
	CreatedAt   string    `json:"created_at,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
}

// RecordID implements sync.Record.
func (b Bot) RecordID() string { return b.ID }

// Incident represents a maintenance log entry
type Incident struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Status          IncidentStatus `json:"status"`
	Impact          IncidentImpact `json:"impact"`
	StartTime       *string        `json:"start_time,omitempty"`
	EndTime         *string        `json:"end_time,omitempty"`
	CompletionNotes *string        `json:"completion_notes,omitempty"`
	CreatedBy       string         `json:"created_by"`
	CreatorName     string         `json:"creator_name,omitempty"`
	CreatedAt       string         `json:"created_at,omitempty"`
}

// RecordID implements sync.Record.
func (i Incident) RecordID() string { return i.ID }

// Ticket represents a support ticket
type Ticket struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Subject       string         `json:"subject"`
	Message       string         `json:"message,omitempty"`
	Status        TicketStatus   `json:"status"`
	Priority      TicketPriority `json:"priority"`
	AssignedTo    *string        `json:"assigned_to,omitempty"`
	InternalNotes *string        `json:"internal_notes,omitempty"`
	ReporterName  string         `json:"reporter_name,omitempty"`
	ReporterEmail string         `json:"reporter_email,omitempty"`
	AssigneeName  *string        `json:"assignee_name,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

// RecordID implements sync.Record.
func (t Ticket) RecordID() string { return t.ID }

// TicketReply represents a reply within a support ticket conversation
type TicketReply struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticket_id"`
	UserID     string `json:"user_id"`
	Message    string `json:"message"`
	AuthorName string `json:"author_name,omitempty"`
	AuthorRole Role   `json:"author_role,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// RecordID implements sync.Record.
func (r TicketReply) RecordID() string { return r.ID }

// Notification represents an entry in a user's notification inbox
type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RecordID implements sync.Record.
func (n Notification) RecordID() string { return n.ID }

// ActivityLog represents an audit trail entry
type ActivityLog struct {
	ID         string                 `json:"id"`
	UserID     *string                `json:"user_id,omitempty"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type,omitempty"`
	EntityID   *string                `json:"entity_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	ActorEmail string                 `json:"actor_email,omitempty"`
	CreatedAt  string                 `json:"created_at,omitempty"`
}

// RecordID implements sync.Record.
func (l ActivityLog) RecordID() string { return l.ID }

// Profile represents a team member account
type Profile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      Role    `json:"role"`
	IsBanned  bool    `json:"is_banned"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// RecordID implements sync.Record.
func (p Profile) RecordID() string { return p.ID }

// APIKey represents an issued API key. The raw key is returned exactly once
// at creation time; only the prefix is persisted.
type APIKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	KeyPrefix string `json:"key_prefix"`
	RawKey    string `json:"raw_key,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RecordID implements sync.Record.
func (k APIKey) RecordID() string { return k.ID }

// UserLimits represents per-user hosting quotas
type UserLimits struct {
	UserID           string `json:"user_id"`
	MaxBots          int    `json:"max_bots"`
	MaxStorageMB     int    `json:"max_storage_mb"`
	CurrentBots      int    `json:"current_bots"`
	CurrentStorageMB int    `json:"current_storage_mb"`
}

// FormatTime renders a timestamp the way the API exposes it.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05Z07:00")
}

// FormatTimePtr renders an optional timestamp, nil in and nil out.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
