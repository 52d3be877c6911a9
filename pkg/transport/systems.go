package transport

import (
	"net/http"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

func (h *Handler) handleCreateSystem(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req api.CreateSystemRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateCreateSystem(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	sys, err := h.store.CreateSystem(r.Context(), identity.UserID, req.Name, req.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sys)
}

// handleGetSystem returns the system plus its latest measurements, newest
// first. A system owned by someone else is indistinguishable from one that
// does not exist.
func (h *Handler) handleGetSystem(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	sys, err := h.store.System(r.Context(), identity.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	latest, err := h.store.LatestMeasurements(r.Context(), identity.UserID, id, latestMeasurementCount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.SystemDetail{
		System:             *sys,
		LatestMeasurements: latest,
	})
}

func (h *Handler) handleUpdateSystem(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	var req api.UpdateSystemRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateUpdateSystem(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	sys, err := h.store.UpdateSystem(r.Context(), identity.UserID, id, storage.SystemUpdate{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sys)
}

func (h *Handler) handleDeleteSystem(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	if err := h.store.DeleteSystem(r.Context(), identity.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListSystems(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q, apiErr := parseSystemQuery(r.URL.Query())
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	list, err := h.store.ListSystems(r.Context(), identity.UserID, q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, apiErr := newPage(r, list, q.Page)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
