package api

import (
	"encoding/json"
	"net/http"

	"botdock/internal/auth"

	"github.com/go-chi/chi/v5"
)

func (d Dependencies) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := d.Team.Get(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Profile not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (d Dependencies) getLimits(w http.ResponseWriter, r *http.Request) {
	limits, err := d.Account.Limits(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Limits not configured", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

func (d Dependencies) listAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := d.Account.ListAPIKeys(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"keys": keys})
}

func (d Dependencies) createAPIKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "name required", d.Log)
		return
	}

	key, err := d.Account.CreateAPIKey(r.Context(), auth.GetUserID(r.Context()), body.Name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "create_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusCreated, key)
}

func (d Dependencies) deleteAPIKey(w http.ResponseWriter, r *http.Request) {
	err := d.Account.DeleteAPIKey(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Key not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "delete_failed", err.Error(), d.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d Dependencies) recordLogin(w http.ResponseWriter, r *http.Request) {
	d.Account.RecordLogin(r.Context(), auth.GetUserID(r.Context()), r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
