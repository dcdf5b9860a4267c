package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/flood-response-service/internal/alertstore"
	"github.com/couchcryptid/flood-response-service/internal/domain"
	"github.com/couchcryptid/flood-response-service/internal/service"
)

const maxBodyBytes = 64 << 10

// AlertService is the subset of service.AlertService the API needs.
type AlertService interface {
	Alerts() []domain.Alert
	Create(ctx context.Context, zone, message string, severity domain.Severity) (domain.Alert, error)
	Acknowledge(ctx context.Context, id int64) (alert domain.Alert, found, changed bool, err error)
	Stats() domain.AggregateStats
	ZoneViews() []domain.ZoneView
	ZoneAlert(zoneName string) (domain.Alert, bool)
	UnmatchedAlerts() []domain.Alert
	Shelters() []domain.Shelter
	Export(format string) (service.Export, error)
}

type createAlertRequest struct {
	Zone     string          `json:"zone"`
	Message  string          `json:"message"`
	Severity domain.Severity `json:"severity"`
}

// mutationResponse reports an applied change. Persisted is false when the
// change is live in memory but could not be written to storage.
type mutationResponse struct {
	Alert     *domain.Alert `json:"alert,omitempty"`
	Changed   *bool         `json:"changed,omitempty"`
	Persisted bool          `json:"persisted"`
	Error     string        `json:"error,omitempty"`
}

func (s *Server) handleListAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"alerts": s.alerts.Alerts()})
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	alert, err := s.alerts.Create(r.Context(), req.Zone, req.Message, req.Severity)
	switch {
	case errors.Is(err, alertstore.ErrInvalidAlert):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil && !errors.Is(err, service.ErrPersist):
		s.logger.Error("create alert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, newMutationResponse(&alert, nil, err))
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	alert, found, changed, err := s.alerts.Acknowledge(r.Context(), id)
	if err != nil && !errors.Is(err, service.ErrPersist) {
		s.logger.Error("acknowledge alert failed", "alert_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var existing *domain.Alert
	if found {
		existing = &alert
	}
	writeJSON(w, http.StatusOK, newMutationResponse(existing, &changed, err))
}

func newMutationResponse(alert *domain.Alert, changed *bool, err error) mutationResponse {
	resp := mutationResponse{Alert: alert, Changed: changed, Persisted: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func (s *Server) handleZones(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"zones":     s.alerts.ZoneViews(),
		"unmatched": s.alerts.UnmatchedAlerts(),
	})
}

func (s *Server) handleZoneAlert(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	alert, ok := s.alerts.ZoneAlert(name)
	if !ok {
		writeError(w, http.StatusNotFound, "no alert for zone "+strconv.Quote(name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"alert":          alert,
		"classification": domain.Classify(string(alert.Severity)),
	})
}

func (s *Server) handleShelters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"shelters": s.alerts.Shelters()})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.alerts.Stats())
}

// handleExport serves /api/v1/reports/export.{csv,xlsx,pdf}.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, ok := strings.CutPrefix(r.PathValue("file"), "export.")
	if !ok {
		writeError(w, http.StatusNotFound, "unknown report")
		return
	}

	exp, err := s.alerts.Export(format)
	if errors.Is(err, service.ErrUnknownFormat) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("export failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exp.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Data)
}

func (s *Server) handleRole(w http.ResponseWriter, r *http.Request) {
	role := domain.NormalizeRole(r.PathValue("role"))
	writeJSON(w, http.StatusOK, map[string]any{
		"role":         role,
		"quickActions": domain.QuickActions(role),
		"navigation":   domain.Navigation(role),
	})
}
