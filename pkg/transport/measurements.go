package transport

import (
	"net/http"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/observability"
)

// handleCreateMeasurement records a reading on an owned system. The
// timestamp is assigned server-side; a client-supplied one is ignored.
func (h *Handler) handleCreateMeasurement(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	systemID, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	var req api.CreateMeasurementRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateCreateMeasurement(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	m, err := h.store.CreateMeasurement(r.Context(), identity.UserID, systemID, *req.PH, *req.Temperature, *req.TDS)
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.MeasurementsRecordedTotal.Inc()
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	systemID, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	q, apiErr := parseMeasurementQuery(r.URL.Query())
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	list, err := h.store.ListMeasurements(r.Context(), identity.UserID, systemID, q)
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
