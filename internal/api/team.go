package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"botdock/internal/auth"
	"botdock/internal/model"
	"botdock/internal/service"

	"github.com/go-chi/chi/v5"
)

func (d Dependencies) listTeam(w http.ResponseWriter, r *http.Request) {
	members, err := d.Team.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

func (d Dependencies) listStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := d.Team.ListStaff(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"staff": staff})
}

func (d Dependencies) changeRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}
	switch model.Role(body.Role) {
	case model.RoleAdmin, model.RoleDeveloper, model.RoleViewer:
	default:
		WriteError(w, http.StatusBadRequest, "invalid_request", "Unknown role: "+body.Role, d.Log)
		return
	}

	ctx := r.Context()
	profile, err := d.Team.ChangeRole(ctx, auth.GetRole(ctx), auth.GetUserID(ctx), chi.URLParam(r, "id"), model.Role(body.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOwnerOnly):
			WriteError(w, http.StatusForbidden, "forbidden", err.Error(), d.Log)
		case isNotFound(err):
			WriteError(w, http.StatusNotFound, "not_found", "Member not found", d.Log)
		default:
			WriteError(w, http.StatusBadRequest, "update_failed", err.Error(), d.Log)
		}
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (d Dependencies) setBanned(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Banned bool `json:"banned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	ctx := r.Context()
	profile, err := d.Team.SetBanned(ctx, auth.GetRole(ctx), auth.GetUserID(ctx), chi.URLParam(r, "id"), body.Banned)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOwnerOnly):
			WriteError(w, http.StatusForbidden, "forbidden", err.Error(), d.Log)
		case isNotFound(err):
			WriteError(w, http.StatusNotFound, "not_found", "Member not found", d.Log)
		default:
			WriteError(w, http.StatusBadRequest, "update_failed", err.Error(), d.Log)
		}
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// adminStats summarizes fleet and workspace counts for the dashboard
// header cards.
func (d Dependencies) adminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalBots, err := d.DB.Queries.CountBots(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	byStatus, err := d.DB.Queries.CountBotsByStatus(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	members, err := d.DB.Queries.CountProfiles(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	activity, err := d.DB.Queries.CountActivity(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_bots":     totalBots,
		"online_bots":    byStatus[string(model.BotStatusOnline)],
		"bots_by_status": byStatus,
		"members":        members,
		"activity_total": activity,
	})
}
