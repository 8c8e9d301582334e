package api

import (
	"encoding/json"
	"net/http"
	"time"

	"botdock/internal/auth"
	"botdock/internal/service"
)

func activityFilter(r *http.Request) service.ListActivityInput {
	input := service.ListActivityInput{
		Action: r.URL.Query().Get("action"),
		Limit:  parseLimit(r, 100, 100),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			input.From = &t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			input.To = &t
		}
	}
	return input
}

func (d Dependencies) listActivity(w http.ResponseWriter, r *http.Request) {
	logs, err := d.Activity.List(r.Context(), activityFilter(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}

func (d Dependencies) deleteActivity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}
	if len(body.IDs) == 0 {
		WriteError(w, http.StatusBadRequest, "invalid_request", "ids required", d.Log)
		return
	}

	if err := d.Activity.DeleteByIDs(r.Context(), auth.GetUserID(r.Context()), body.IDs); err != nil {
		WriteError(w, http.StatusInternalServerError, "delete_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": len(body.IDs)})
}

func (d Dependencies) exportActivity(w http.ResponseWriter, r *http.Request) {
	path, err := d.Activity.ExportCSV(r.Context(), activityFilter(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "export_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": path})
}
