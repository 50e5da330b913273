package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	applog "tabungan/internal/log"
)

const (
	tmplDashboard = "dashboard_page"
	tmplEmpty     = "empty_page"
	tmplError     = "error_page"
)

// handleIndex renders the dashboard page for the state in the query string.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowRead(w, r) {
		return
	}

	ctx := r.Context()
	logger := applog.FromContext(ctx)
	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap, err := s.dashboard.Load(ctx)
	if err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Dashboard data unavailable", err, errorType(err), applog.OpLoad)
		s.render(w, r, http.StatusServiceUnavailable, tmplError, nil)
		return
	}
	if snap == nil {
		s.render(w, r, http.StatusOK, tmplEmpty, nil)
		return
	}

	vs := ParseViewState(r.URL.Query(), snap)
	applog.NewStructuredLogger(logger).LogSnapshotLoaded(ctx, snap.Group.ID, snap.Group.Name, len(snap.Members), len(snap.Entries), string(vs.Tab))
	s.render(w, r, http.StatusOK, tmplDashboard, newDashboardPage(snap, vs))
}

// handleDashboardAPI returns the snapshot as JSON.
func (s *Server) handleDashboardAPI(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	ctx := r.Context()
	snap, err := s.dashboard.Load(ctx)
	if err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Dashboard data unavailable", err, errorType(err), applog.OpLoad)
		writeJSONError(w, r, http.StatusServiceUnavailable, "savings data unavailable")
		return
	}
	if snap == nil {
		writeJSONError(w, r, http.StatusNotFound, "no savings group")
		return
	}
	writeJSON(w, r, http.StatusOK, newDashboardResponse(snap))
}

// render executes a template into a buffer so a failing template never
// leaves a half written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Template execution failed", err, applog.ErrorTypeInternal, applog.OpRender)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

func errorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return applog.ErrorTypeTimeout
	}
	return applog.ErrorTypeUnavailable
}
