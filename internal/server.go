package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
)

// NewServer creates the HTTP handler exposing the search, snapshot and
// archive endpoints plus the browser front-end.
func NewServer(app *App) http.Handler {
	s := &server{app: app}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("POST /api/notify", s.handleNotify)
	mux.HandleFunc("GET /api/snapshots", s.handleSnapshots)
	mux.HandleFunc("POST /api/archive/clear", s.handleClear)
	mux.HandleFunc("GET /archive/{name}", s.handleDownload)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("POST /api/settings", s.handleSaveSettings)
	return mux
}

type server struct {
	app *App
}

// snapshotRequest is the save/notify body: the snapshot itself plus the
// export format and an optional token, neither of which is part of the
// persisted snapshot.
type snapshotRequest struct {
	Snapshot
	Format string `json:"format"`
	Token  string `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps classified errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidName), errors.Is(err, ErrNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// authorize checks the app token, taken from the X-App-Token header, the
// token query parameter or the request body. It writes the 401 response
// itself and reports whether the request may proceed.
func (s *server) authorize(w http.ResponseWriter, r *http.Request, bodyToken string) bool {
	candidate := r.Header.Get("X-App-Token")
	if candidate == "" {
		candidate = r.URL.Query().Get("token")
	}
	if candidate == "" {
		candidate = bodyToken
	}
	if !s.app.Guard().Authorize(candidate) {
		writeError(w, http.StatusUnauthorized, "Invalid or missing app token.")
		return false
	}
	return true
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	req.Query = strings.TrimSpace(req.Query)

	items, quota, err := s.app.Search(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if items == nil {
		items = []VideoResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "quotaUsed": quota})
}

func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if !s.authorize(w, r, req.Token) {
		return
	}
	req.Query = strings.TrimSpace(req.Query)

	if req.Request().Validate() != nil || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "A query and at least one result are required to save.")
		return
	}

	file, err := s.app.SaveSnapshot(req.Snapshot, req.Format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Unable to save snapshot: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "file": file})
}

func (s *server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if !s.authorize(w, r, req.Token) {
		return
	}
	req.Query = strings.TrimSpace(req.Query)

	if req.Request().Validate() != nil || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "A query and at least one result are required to share.")
		return
	}

	if err := s.app.NotifySnapshot(r.Context(), req.Snapshot); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, "") {
		return
	}
	items, err := s.app.ListSnapshots()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to list snapshots.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, "") {
		return
	}
	deleted, err := s.app.ClearArchive()
	if err != nil {
		// Best-effort deletion: report progress along with the failure.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   fmt.Sprintf("Unable to clear archive: %v", err),
			"deleted": deleted,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "deleted": deleted})
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, "") {
		return
	}
	name := r.PathValue("name")
	data, err := s.app.ReadSnapshot(name)
	if err != nil {
		switch status := statusFor(err); status {
		case http.StatusBadRequest:
			writeError(w, status, "Invalid snapshot name.")
		case http.StatusNotFound:
			writeError(w, status, "Snapshot not found.")
		default:
			writeError(w, status, "Unable to read snapshot.")
		}
		return
	}

	w.Header().Set("Content-Type", snapshotContentType(name))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.app.LoadSettings()
	if err != nil {
		// Unparsable settings are not fatal; serve the defaults.
		log.Printf("loading settings: %v", err)
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Settings
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if !s.authorize(w, r, req.Token) {
		return
	}
	if err := s.app.SaveSettings(req.Settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to save settings.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func snapshotContentType(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
