package ws

import (
	"context"
	"encoding/json"

	"botdock/internal/service"

	"go.uber.org/zap"
)

// CommandHandler handles WebSocket commands
type CommandHandler struct {
	notificationSvc *service.NotificationService
	botSvc          *service.BotService
	log             *zap.Logger
}

func NewCommandHandler(notificationSvc *service.NotificationService, botSvc *service.BotService, log *zap.Logger) *CommandHandler {
	return &CommandHandler{
		notificationSvc: notificationSvc,
		botSvc:          botSvc,
		log:             log,
	}
}

// HandleCommand processes a WebSocket command
func (h *CommandHandler) HandleCommand(ctx context.Context, conn *Conn, cmd map[string]interface{}) {
	op, _ := cmd["op"].(string)
	data, _ := cmd["data"].(map[string]interface{})
	msgID, _ := cmd["id"].(string)

	if conn.userID == "" {
		h.sendError(conn, msgID, "unauthorized", "Authentication required")
		return
	}

	switch op {
	case "markRead":
		h.handleMarkRead(ctx, conn, msgID, data)
	case "markAllRead":
		h.handleMarkAllRead(ctx, conn, msgID)
	case "listNotifications":
		h.handleListNotifications(ctx, conn, msgID)
	case "toggleBot":
		h.handleToggleBot(ctx, conn, msgID, data)
	case "restartBot":
		h.handleRestartBot(ctx, conn, msgID, data)
	default:
		h.sendError(conn, msgID, "unknown_command", "Unknown command: "+op)
	}
}

func (h *CommandHandler) handleMarkRead(ctx context.Context, conn *Conn, msgID string, data map[string]interface{}) {
	notificationID, _ := data["notificationId"].(string)
	if notificationID == "" {
		h.sendError(conn, msgID, "invalid_input", "notificationId required")
		return
	}

	n, err := h.notificationSvc.MarkRead(ctx, conn.userID, notificationID)
	if err != nil {
		h.sendError(conn, msgID, "not_found", err.Error())
		return
	}

	h.sendResponse(conn, msgID, map[string]interface{}{
		"type": "response",
		"data": n,
	})
}

func (h *CommandHandler) handleMarkAllRead(ctx context.Context, conn *Conn, msgID string) {
	count, err := h.notificationSvc.MarkAllRead(ctx, conn.userID)
	if err != nil {
		h.sendError(conn, msgID, "update_failed", err.Error())
		return
	}

	h.sendResponse(conn, msgID, map[string]interface{}{
		"type": "response",
		"data": map[string]interface{}{"updated": count},
	})
}

func (h *CommandHandler) handleListNotifications(ctx context.Context, conn *Conn, msgID string) {
	notifications, err := h.notificationSvc.List(ctx, conn.userID)
	if err != nil {
		h.sendError(conn, msgID, "query_failed", err.Error())
		return
	}

	h.sendResponse(conn, msgID, map[string]interface{}{
		"type": "response",
		"data": map[string]interface{}{
			"notifications": notifications,
			"unread":        service.UnreadCount(notifications),
		},
	})
}

func (h *CommandHandler) handleToggleBot(ctx context.Context, conn *Conn, msgID string, data map[string]interface{}) {
	botID, _ := data["botId"].(string)
	if botID == "" {
		h.sendError(conn, msgID, "invalid_input", "botId required")
		return
	}

	bot, err := h.botSvc.Toggle(ctx, conn.userID, botID)
	if err != nil {
		h.sendError(conn, msgID, "toggle_failed", err.Error())
		return
	}

	h.sendResponse(conn, msgID, map[string]interface{}{
		"type": "response",
		"data": bot,
	})
}

func (h *CommandHandler) handleRestartBot(ctx context.Context, conn *Conn, msgID string, data map[string]interface{}) {
	botID, _ := data["botId"].(string)
	if botID == "" {
		h.sendError(conn, msgID, "invalid_input", "botId required")
		return
	}

	bot, err := h.botSvc.Restart(ctx, conn.userID, botID)
	if err != nil {
		h.sendError(conn, msgID, "restart_failed", err.Error())
		return
	}

	h.sendResponse(conn, msgID, map[string]interface{}{
		"type": "response",
		"data": bot,
	})
}

func (h *CommandHandler) sendResponse(conn *Conn, msgID string, response map[string]interface{}) {
	if msgID != "" {
		response["id"] = msgID
	}
	msg, _ := json.Marshal(response)
	select {
	case conn.send <- msg:
	default:
		h.log.Warn("Failed to send response, channel full")
	}
}

func (h *CommandHandler) sendError(conn *Conn, msgID, code, message string) {
	err := map[string]interface{}{
		"type":    "error",
		"code":    code,
		"message": message,
	}
	if msgID != "" {
		err["id"] = msgID
	}
	msg, _ := json.Marshal(err)
	select {
	case conn.send <- msg:
	default:
		h.log.Warn("Failed to send error, channel full")
	}
}
