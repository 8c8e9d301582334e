package service

import (
	"context"
	"testing"
	"time"

	"botdock/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventBus implements EventBus for testing
type MockEventBus struct {
	events []map[string]interface{}
}

func (m *MockEventBus) PublishInsert(table string, record interface{}) error {
	m.events = append(m.events, map[string]interface{}{"type": "insert", "table": table, "record": record})
	return nil
}

func (m *MockEventBus) PublishUpdate(table string, record interface{}) error {
	m.events = append(m.events, map[string]interface{}{"type": "update", "table": table, "record": record})
	return nil
}

func (m *MockEventBus) PublishDelete(table, oldID string) error {
	m.events = append(m.events, map[string]interface{}{"type": "delete", "table": table, "old_id": oldID})
	return nil
}

func (m *MockEventBus) PublishUserInsert(userID, table string, record interface{}) error {
	m.events = append(m.events, map[string]interface{}{"type": "insert", "user": userID, "table": table, "record": record})
	return nil
}

func (m *MockEventBus) PublishUserUpdate(userID, table string, record interface{}) error {
	m.events = append(m.events, map[string]interface{}{"type": "update", "user": userID, "table": table, "record": record})
	return nil
}

// count returns how many captured events match type and table.
func (m *MockEventBus) count(typ, table string) int {
	n := 0
	for _, e := range m.events {
		if e["type"] == typ && e["table"] == table {
			n++
		}
	}
	return n
}

type mockJobClient struct {
	startDelays   []time.Duration
	restartDelays []time.Duration
	purges        int
}

func (m *mockJobClient) ScheduleBotStartComplete(botID string, delay time.Duration) error {
	m.startDelays = append(m.startDelays, delay)
	return nil
}

func (m *mockJobClient) ScheduleBotRestartComplete(botID string, delay time.Duration) error {
	m.restartDelays = append(m.restartDelays, delay)
	return nil
}

func (m *mockJobClient) ScheduleActivityPurge() error {
	m.purges++
	return nil
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0Std"},
		{time.Minute, "0Std 1m"},
		{90 * time.Minute, "1Std 30m"},
		{14*time.Hour + 32*time.Minute, "14Std 32m"},
		{3 * time.Hour, "3Std"},
		{-time.Minute, "0Std"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatUptime(tc.d))
	}
}

func TestBotService_Create(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewBotService(pool.Queries, bus, newTestActivity(pool, bus))
	owner := createTestProfile(t, pool, "owner1", "owner")

	bot, err := svc.Create(ctx, CreateBotInput{Name: "music-bot", OwnerID: owner})
	require.NoError(t, err)

	assert.Equal(t, model.BotStatusOffline, bot.Status)
	assert.Equal(t, "0MB", bot.MemoryUsage)
	assert.Equal(t, "0Std", bot.Uptime)
	assert.Equal(t, 0, bot.UsersCount)
	assert.Equal(t, "javascript", bot.Language)
	assert.Equal(t, "discord.js", bot.Framework)
	assert.Equal(t, 1, bus.count("insert", "bots"))
}

func TestBotService_Toggle(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewBotService(pool.Queries, bus, newTestActivity(pool, bus))
	jc := &mockJobClient{}
	svc.SetJobClient(jc)
	owner := createTestProfile(t, pool, "owner1", "owner")

	bot, err := svc.Create(ctx, CreateBotInput{Name: "music-bot", OwnerID: owner})
	require.NoError(t, err)

	// Offline bot: toggle stages "starting" and schedules the completion
	started, err := svc.Toggle(ctx, owner, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BotStatusStarting, started.Status)
	require.Len(t, jc.startDelays, 1)
	assert.Equal(t, StartupDelay, jc.startDelays[0])

	// Online bot: toggle stops it immediately and resets uptime
	_, err = pool.Queries.UpdateBotStatus(ctx, bot.ID, string(model.BotStatusOnline), "0Std 1m")
	require.NoError(t, err)
	stopped, err := svc.Toggle(ctx, owner, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BotStatusOffline, stopped.Status)
	assert.Equal(t, "0Std", stopped.Uptime)
	assert.Len(t, jc.startDelays, 1, "stopping schedules nothing")
}

func TestBotService_Restart(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewBotService(pool.Queries, bus, newTestActivity(pool, bus))
	jc := &mockJobClient{}
	svc.SetJobClient(jc)
	owner := createTestProfile(t, pool, "owner1", "owner")

	bot, err := svc.Create(ctx, CreateBotInput{Name: "music-bot", OwnerID: owner})
	require.NoError(t, err)

	_, err = pool.Queries.UpdateBotStatus(ctx, bot.ID, string(model.BotStatusOnline), "2Std 5m")
	require.NoError(t, err)

	restarted, err := svc.Restart(ctx, owner, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BotStatusMaintenance, restarted.Status)
	require.Len(t, jc.restartDelays, 1)
	assert.Equal(t, RestartDelay, jc.restartDelays[0])
}

func TestBotService_Restart_NotOnline(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewBotService(pool.Queries, bus, newTestActivity(pool, bus))
	jc := &mockJobClient{}
	svc.SetJobClient(jc)
	owner := createTestProfile(t, pool, "owner1", "owner")

	bot, err := svc.Create(ctx, CreateBotInput{Name: "music-bot", OwnerID: owner})
	require.NoError(t, err)

	for _, status := range []model.BotStatus{
		model.BotStatusOffline,
		model.BotStatusStarting,
		model.BotStatusMaintenance,
	} {
		_, err = pool.Queries.UpdateBotStatus(ctx, bot.ID, string(status), bot.Uptime)
		require.NoError(t, err)

		_, err = svc.Restart(ctx, owner, bot.ID)
		assert.ErrorIs(t, err, ErrBotNotOnline, string(status))

		got, err := svc.Get(ctx, bot.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status, "rejected restart must not change state")
	}
	assert.Empty(t, jc.restartDelays, "rejected restart schedules nothing")
}
