package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Bus fans row-level change events out to Redis pub/sub, the replay stream,
// and the WebSocket hub. Collection-wide events go to "table:<name>"
// channels; per-user events (notifications) go to "user:<id>".
type Bus struct {
	rdb     *redis.Client
	log     *zap.Logger
	ctx     context.Context
	wsHub   WSHub
	streams *Streams
}

type WSHub interface {
	Publish(channel string, message map[string]interface{})
}

func New(rdb *redis.Client, log *zap.Logger) *Bus {
	return &Bus{
		rdb:     rdb,
		log:     log,
		ctx:     context.Background(),
		streams: NewStreams(rdb, log),
	}
}

// SetWSHub sets the WebSocket hub for event broadcasting
func (b *Bus) SetWSHub(hub WSHub) {
	b.wsHub = hub
}

// GetStreams returns the streams provider
func (b *Bus) GetStreams() *Streams {
	return b.streams
}

// PublishInsert publishes a row insert to the table's channel.
func (b *Bus) PublishInsert(table string, record interface{}) error {
	return b.publishChange(TableChannel(table), "insert", table, record, "")
}

// PublishUpdate publishes a full-row replacement to the table's channel.
func (b *Bus) PublishUpdate(table string, record interface{}) error {
	return b.publishChange(TableChannel(table), "update", table, record, "")
}

// PublishDelete publishes a row deletion, carrying only the old row's id.
func (b *Bus) PublishDelete(table, oldID string) error {
	return b.publishChange(TableChannel(table), "delete", table, nil, oldID)
}

// PublishUserInsert publishes a row insert scoped to one user's channel,
// used for notification inboxes.
func (b *Bus) PublishUserInsert(userID, table string, record interface{}) error {
	return b.publishChange(UserChannel(userID), "insert", table, record, "")
}

// PublishUserUpdate publishes a row replacement scoped to one user's channel.
func (b *Bus) PublishUserUpdate(userID, table string, record interface{}) error {
	return b.publishChange(UserChannel(userID), "update", table, record, "")
}

func (b *Bus) publishChange(channel, kind, table string, record interface{}, oldID string) error {
	event := map[string]interface{}{
		"type":       kind,
		"collection": table,
	}
	if record != nil {
		raw, err := json.Marshal(record)
		if err != nil {
			return err
		}
		event["record"] = json.RawMessage(raw)
	}
	if oldID != "" {
		event["old_id"] = oldID
	}
	return b.Publish(channel, event)
}

// Publish publishes an event to a channel
func (b *Bus) Publish(channel string, event map[string]interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Publish to Redis pub/sub
	if err := b.rdb.Publish(b.ctx, channel, data).Err(); err != nil {
		b.log.Error("Failed to publish event", zap.String("channel", channel), zap.Error(err))
		return err
	}

	// Also publish to Redis Streams for replay
	seq, err := b.streams.PublishEvent(channel, event)
	if err != nil {
		b.log.Warn("Failed to publish to stream", zap.String("channel", channel), zap.Error(err))
		// Continue even if stream publish fails
	}

	// Add sequence number to event for WebSocket
	eventWithSeq := make(map[string]interface{})
	for k, v := range event {
		eventWithSeq[k] = v
	}
	eventWithSeq["seq"] = seq
	eventWithSeq["channel"] = channel

	if b.wsHub != nil {
		b.wsHub.Publish(channel, eventWithSeq)
	}

	b.log.Debug("Published change", zap.String("channel", channel), zap.Int64("seq", seq))
	return nil
}

// TableChannel names the pub/sub channel carrying all changes for a table.
func TableChannel(table string) string {
	return "table:" + table
}

// UserChannel names the pub/sub channel carrying one user's scoped changes.
func UserChannel(userID string) string {
	return "user:" + userID
}
