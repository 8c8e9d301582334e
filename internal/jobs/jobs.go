package jobs

import (
	"context"
	"fmt"
	"time"

	"botdock/internal/db"
	"botdock/internal/model"
	"botdock/internal/pubsub"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TaskBotStartComplete   = "bot:start_complete"
	TaskBotRestartComplete = "bot:restart_complete"
	TaskActivityPurge      = "activity:purge"
)

// activityRetention mirrors the audit retention window enforced by the
// purge job.
const activityRetention = 30 * 24 * time.Hour

type JobServer struct {
	server *asynq.Server
	client *asynq.Client
	db     *db.Pool
	bus    *pubsub.Bus
	log    *zap.Logger
}

func NewJobServer(redisAddr string, dbPool *db.Pool, bus *pubsub.Bus, log *zap.Logger) (*JobServer, *asynq.Client) {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	client := asynq.NewClient(redisOpt)

	return &JobServer{
		server: server,
		client: client,
		db:     dbPool,
		bus:    bus,
		log:    log,
	}, client
}

func (js *JobServer) Start() error {
	mux := asynq.NewServeMux()

	// Register job handlers
	mux.HandleFunc(TaskBotStartComplete, js.handleBotStartComplete)
	mux.HandleFunc(TaskBotRestartComplete, js.handleBotRestartComplete)
	mux.HandleFunc(TaskActivityPurge, js.handleActivityPurge)

	return js.server.Start(mux)
}

func (js *JobServer) Stop() {
	js.server.Shutdown()
	js.client.Close()
}

// Job handlers

func (js *JobServer) handleBotStartComplete(ctx context.Context, t *asynq.Task) error {
	botID := string(t.Payload())

	bot, err := js.db.Queries.GetBotByID(ctx, botID)
	if err != nil {
		return fmt.Errorf("failed to get bot: %w", err)
	}

	// Only finish the startup if nothing interrupted it
	if bot.Status != string(model.BotStatusStarting) {
		return nil
	}

	updated, err := js.db.Queries.UpdateBotStatus(ctx, botID, string(model.BotStatusOnline), "0Std 1m")
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	_ = js.bus.PublishUpdate("bots", botToModel(updated))

	js.log.Info("Bot startup complete", zap.String("bot_id", botID))
	return nil
}

func (js *JobServer) handleBotRestartComplete(ctx context.Context, t *asynq.Task) error {
	botID := string(t.Payload())

	bot, err := js.db.Queries.GetBotByID(ctx, botID)
	if err != nil {
		return fmt.Errorf("failed to get bot: %w", err)
	}

	// Only finish the restart if the bot is still in maintenance
	if bot.Status != string(model.BotStatusMaintenance) {
		return nil
	}

	updated, err := js.db.Queries.UpdateBotStatus(ctx, botID, string(model.BotStatusOnline), "0Std 1m")
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	_ = js.bus.PublishUpdate("bots", botToModel(updated))

	js.log.Info("Bot restart complete", zap.String("bot_id", botID))
	return nil
}

// handleActivityPurge drops audit entries past retention and re-enqueues
// itself for the next day.
func (js *JobServer) handleActivityPurge(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-activityRetention)

	count, err := js.db.Queries.PurgeActivityBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge activity: %w", err)
	}
	if count > 0 {
		js.log.Info("Purged expired activity entries", zap.Int64("count", count))
	}

	task := asynq.NewTask(TaskActivityPurge, nil)
	if _, err := js.client.Enqueue(task, asynq.ProcessIn(24*time.Hour), asynq.Queue("low")); err != nil {
		return fmt.Errorf("failed to reschedule purge: %w", err)
	}
	return nil
}

func botToModel(b db.Bot) *model.Bot {
	out := &model.Bot{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Language:    b.Language,
		Framework:   b.Framework,
		Status:      model.BotStatus(b.Status),
		MemoryUsage: b.MemoryUsage,
		Uptime:      b.Uptime,
		UsersCount:  b.UsersCount,
		CreatedAt:   model.FormatTime(b.CreatedAt),
		UpdatedAt:   model.FormatTime(b.UpdatedAt),
	}
	if b.Description != nil {
		out.Description = *b.Description
	}
	if b.Code != nil {
		out.Code = *b.Code
	}
	return out
}

// Scheduling helpers

func ScheduleBotStartComplete(client *asynq.Client, botID string, delay time.Duration) error {
	task := asynq.NewTask(TaskBotStartComplete, []byte(botID))
	_, err := client.Enqueue(task, asynq.ProcessIn(delay), asynq.Queue("critical"))
	return err
}

func ScheduleBotRestartComplete(client *asynq.Client, botID string, delay time.Duration) error {
	task := asynq.NewTask(TaskBotRestartComplete, []byte(botID))
	_, err := client.Enqueue(task, asynq.ProcessIn(delay), asynq.Queue("critical"))
	return err
}

// ScheduleActivityPurge enqueues the first purge run; subsequent runs
// reschedule themselves.
func ScheduleActivityPurge(client *asynq.Client) error {
	task := asynq.NewTask(TaskActivityPurge, nil)
	_, err := client.Enqueue(task, asynq.Queue("low"))
	return err
}
