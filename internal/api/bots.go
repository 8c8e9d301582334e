package api

import (
	"errors"
	"net/http"
	"strconv"

	"botdock/internal/auth"
	"botdock/internal/schema"
	"botdock/internal/service"

	"github.com/go-chi/chi/v5"
)

func parseLimit(r *http.Request, def, max int) int {
	limit := def
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}

func (d Dependencies) listBots(w http.ResponseWriter, r *http.Request) {
	bots, err := d.Bots.List(r.Context(), parseLimit(r, 50, 200))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bots": bots})
}

func (d Dependencies) createBot(w http.ResponseWriter, r *http.Request) {
	var input service.CreateBotInput
	if err := decodeValidated(r.Context(), d.Schemas, r.Body, schema.BotPayload, &input); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), d.Log)
		return
	}
	input.OwnerID = auth.GetUserID(r.Context())

	bot, err := d.Bots.Create(r.Context(), input)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "create_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusCreated, bot)
}

func (d Dependencies) getBot(w http.ResponseWriter, r *http.Request) {
	bot, err := d.Bots.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Bot not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, bot)
}

func (d Dependencies) updateBot(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateBotInput
	if err := decodeValidated(r.Context(), d.Schemas, r.Body, schema.BotPayload, &input); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), d.Log)
		return
	}

	bot, err := d.Bots.Update(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Bot not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "update_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, bot)
}

func (d Dependencies) deleteBot(w http.ResponseWriter, r *http.Request) {
	err := d.Bots.Delete(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Bot not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "delete_failed", err.Error(), d.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d Dependencies) toggleBot(w http.ResponseWriter, r *http.Request) {
	bot, err := d.Bots.Toggle(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Bot not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "toggle_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, bot)
}

func (d Dependencies) restartBot(w http.ResponseWriter, r *http.Request) {
	bot, err := d.Bots.Restart(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Bot not found", d.Log)
			return
		}
		if errors.Is(err, service.ErrBotNotOnline) {
			WriteError(w, http.StatusConflict, "not_online", "Bot must be online to restart", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "restart_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, bot)
}
