package api

import (
	"net/http"

	"botdock/internal/auth"
	"botdock/internal/schema"
	"botdock/internal/service"

	"github.com/go-chi/chi/v5"
)

func (d Dependencies) listIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := d.Incidents.List(r.Context(), parseLimit(r, 50, 200))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"incidents": incidents})
}

func (d Dependencies) getIncident(w http.ResponseWriter, r *http.Request) {
	incident, err := d.Incidents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Incident not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

func (d Dependencies) createIncident(w http.ResponseWriter, r *http.Request) {
	var input service.IncidentInput
	if err := decodeValidated(r.Context(), d.Schemas, r.Body, schema.IncidentPayload, &input); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), d.Log)
		return
	}
	input.CreatedBy = auth.GetUserID(r.Context())

	incident, err := d.Incidents.Create(r.Context(), input)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "create_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusCreated, incident)
}

func (d Dependencies) updateIncident(w http.ResponseWriter, r *http.Request) {
	var input service.IncidentInput
	if err := decodeValidated(r.Context(), d.Schemas, r.Body, schema.IncidentPayload, &input); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), d.Log)
		return
	}

	incident, err := d.Incidents.Update(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Incident not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "update_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

func (d Dependencies) deleteIncident(w http.ResponseWriter, r *http.Request) {
	err := d.Incidents.Delete(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Incident not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "delete_failed", err.Error(), d.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
