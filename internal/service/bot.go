package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"botdock/internal/db"
	"botdock/internal/model"

	"github.com/oklog/ulid/v2"
)

// Delays before a started or restarted bot comes back online.
const (
	StartupDelay = 1500 * time.Millisecond
	RestartDelay = 2 * time.Second
)

// EventBus publishes change events to realtime subscribers.
type EventBus interface {
	PublishInsert(table string, record interface{}) error
	PublishUpdate(table string, record interface{}) error
	PublishDelete(table, oldID string) error
	PublishUserInsert(userID, table string, record interface{}) error
	PublishUserUpdate(userID, table string, record interface{}) error
}

type BotService struct {
	queries   *db.Queries
	bus       EventBus
	activity  *ActivityService
	jobClient JobClient
}

func NewBotService(queries *db.Queries, bus EventBus, activity *ActivityService) *BotService {
	return &BotService{
		queries:  queries,
		bus:      bus,
		activity: activity,
	}
}

// SetJobClient sets the job client for scheduling background jobs
func (s *BotService) SetJobClient(client JobClient) {
	s.jobClient = client
}

type CreateBotInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
	Framework   string `json:"framework"`
	Code        string `json:"code,omitempty"`
	OwnerID     string
}

func (s *BotService) Create(ctx context.Context, input CreateBotInput) (*model.Bot, error) {
	if input.Language == "" {
		input.Language = "javascript"
	}
	if input.Framework == "" {
		input.Framework = "discord.js"
	}

	row, err := s.queries.CreateBot(ctx, db.CreateBotParams{
		ID:          ulid.Make().String(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: strPtr(input.Description),
		Language:    input.Language,
		Framework:   input.Framework,
		Code:        strPtr(input.Code),
		Status:      string(model.BotStatusOffline),
		MemoryUsage: "0MB",
		Uptime:      "0Std",
		UsersCount:  0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot := dbBotToModel(row)
	_ = s.bus.PublishInsert("bots", bot)
	s.activity.Record(ctx, input.OwnerID, "bot.create", "bot", bot.ID, map[string]interface{}{
		"name": bot.Name,
	})
	return bot, nil
}

func (s *BotService) Get(ctx context.Context, id string) (*model.Bot, error) {
	row, err := s.queries.GetBotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dbBotToModel(row), nil
}

func (s *BotService) List(ctx context.Context, limit int) ([]*model.Bot, error) {
	rows, err := s.queries.ListBots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}
	bots := make([]*model.Bot, len(rows))
	for i, row := range rows {
		bots[i] = dbBotToModel(row)
	}
	return bots, nil
}

type UpdateBotInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
	Framework   string `json:"framework"`
	Code        string `json:"code,omitempty"`
}

func (s *BotService) Update(ctx context.Context, actorID, id string, input UpdateBotInput) (*model.Bot, error) {
	row, err := s.queries.UpdateBot(ctx, db.UpdateBotParams{
		ID:          id,
		Name:        input.Name,
		Description: strPtr(input.Description),
		Language:    input.Language,
		Framework:   input.Framework,
		Code:        strPtr(input.Code),
	})
	if err != nil {
		return nil, err
	}

	bot := dbBotToModel(row)
	_ = s.bus.PublishUpdate("bots", bot)
	s.activity.Record(ctx, actorID, "bot.update", "bot", bot.ID, map[string]interface{}{
		"name": bot.Name,
	})
	return bot, nil
}

func (s *BotService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.queries.DeleteBot(ctx, id); err != nil {
		return err
	}
	_ = s.bus.PublishDelete("bots", id)
	s.activity.Record(ctx, actorID, "bot.delete", "bot", id, nil)
	return nil
}

// Toggle flips a bot between online and offline. Stopping takes effect
// immediately; starting goes through a transient "starting" status and
// completes after StartupDelay via a background job.
func (s *BotService) Toggle(ctx context.Context, actorID, id string) (*model.Bot, error) {
	row, err := s.queries.GetBotByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if row.Status == string(model.BotStatusOnline) {
		updated, err := s.queries.UpdateBotStatus(ctx, id, string(model.BotStatusOffline), "0Std")
		if err != nil {
			return nil, fmt.Errorf("failed to stop bot: %w", err)
		}
		bot := dbBotToModel(updated)
		_ = s.bus.PublishUpdate("bots", bot)
		s.activity.Record(ctx, actorID, "bot.stop", "bot", id, nil)
		return bot, nil
	}

	updated, err := s.queries.UpdateBotStatus(ctx, id, string(model.BotStatusStarting), row.Uptime)
	if err != nil {
		return nil, fmt.Errorf("failed to start bot: %w", err)
	}
	bot := dbBotToModel(updated)
	_ = s.bus.PublishUpdate("bots", bot)
	s.activity.Record(ctx, actorID, "bot.start", "bot", id, nil)

	if s.jobClient != nil {
		if err := s.jobClient.ScheduleBotStartComplete(id, StartupDelay); err != nil {
			return nil, fmt.Errorf("failed to schedule startup: %w", err)
		}
	}
	return bot, nil
}

// ErrBotNotOnline rejects a restart of a bot that is not running.
var ErrBotNotOnline = errors.New("bot is not online")

// Restart puts an online bot into maintenance and brings it back online
// after RestartDelay. Bots in any other state cannot be restarted.
func (s *BotService) Restart(ctx context.Context, actorID, id string) (*model.Bot, error) {
	row, err := s.queries.GetBotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status != string(model.BotStatusOnline) {
		return nil, ErrBotNotOnline
	}

	updated, err := s.queries.UpdateBotStatus(ctx, id, string(model.BotStatusMaintenance), row.Uptime)
	if err != nil {
		return nil, fmt.Errorf("failed to restart bot: %w", err)
	}
	bot := dbBotToModel(updated)
	_ = s.bus.PublishUpdate("bots", bot)
	s.activity.Record(ctx, actorID, "bot.restart", "bot", id, nil)

	if s.jobClient != nil {
		if err := s.jobClient.ScheduleBotRestartComplete(id, RestartDelay); err != nil {
			return nil, fmt.Errorf("failed to schedule restart: %w", err)
		}
	}
	return bot, nil
}

// FormatUptime renders a duration the way the dashboard displays it,
// e.g. "0Std", "0Std 1m", "14Std 32m".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	if minutes == 0 {
		return fmt.Sprintf("%dStd", hours)
	}
	return fmt.Sprintf("%dStd %dm", hours, minutes)
}
