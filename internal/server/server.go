// Package server exposes the bookmark-group engine over HTTP.
//
// The API is a thin JSON surface over the group store, the treemap layout
// engine, and the enrichment pipeline. Structured error codes from
// pkg/errors map onto HTTP statuses; everything else is delegation.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/tilemarks/tilemarks/pkg/enrich"
	apperrors "github.com/tilemarks/tilemarks/pkg/errors"
	"github.com/tilemarks/tilemarks/pkg/groups"
	"github.com/tilemarks/tilemarks/pkg/observability"
	"github.com/tilemarks/tilemarks/pkg/treemap"
)

// Server is the HTTP API over a group store and enrichment client.
type Server struct {
	store    *groups.Store
	enricher *enrich.Client
	log      *log.Logger
	router   chi.Router
}

// New creates a Server. A nil logger falls back to the default logger.
func New(store *groups.Store, enricher *enrich.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		store:    store,
		enricher: enricher,
		log:      logger,
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/groups", s.handleListGroups)
		r.Post("/groups", s.handleCreateGroup)
		r.Delete("/groups/{id}", s.handleRemoveGroup)
		r.Patch("/groups/{id}/size", s.handleSetGroupSize)

		r.Post("/groups/{id}/links", s.handleAddLink)
		r.Delete("/groups/{id}/links/{linkID}", s.handleRemoveLink)

		r.Get("/layout", s.handleLayout)
		r.Get("/enrich", s.handleEnrich)

		r.Get("/preview", s.handleGetPreview)
		r.Put("/preview", s.handleSetPreview)
		r.Put("/editmode", s.handleSetEditMode)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info("listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// =============================================================================
// Group Handlers
// =============================================================================

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"groups":      s.store.Groups(),
		"showPreview": s.store.ShowPreview(),
		"editMode":    s.store.EditMode(),
	})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}

	g, err := s.store.CreateGroup(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleRemoveGroup(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveGroup(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetGroupSize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Size int `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}

	id := chi.URLParam(r, "id")
	if _, ok := s.store.Group(id); !ok {
		s.writeError(w, apperrors.New(apperrors.ErrCodeGroupNotFound, "group %s not found", id))
		return
	}

	s.store.SetGroupSize(r.Context(), id, req.Size)
	g, _ := s.store.Group(id)
	writeJSON(w, http.StatusOK, g)
}

// =============================================================================
// Link Handlers
// =============================================================================

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}
	if err := apperrors.ValidateURL(req.URL); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ID == "" {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "link id is required"))
		return
	}

	link := s.enricher.Enrich(r.Context(), req.ID, req.Title, req.URL)
	if err := s.store.AddLink(r.Context(), chi.URLParam(r, "id"), link); err != nil {
		s.writeError(w, err)
		return
	}

	g, _ := s.store.Group(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveLink(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "linkID"))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layout & Enrichment Handlers
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "w")
	if err != nil {
		s.writeError(w, err)
		return
	}
	height, err := queryInt(r, "h")
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	tiles := treemap.Layout(s.store.Groups(), width, height)
	observability.Layout().OnLayout(r.Context(), len(tiles), width, height, time.Since(start))

	writeJSON(w, http.StatusOK, map[string]any{"tiles": tiles})
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if err := apperrors.ValidateURL(target); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"favicon":  s.enricher.ResolveFavicon(target),
		"metaData": s.enricher.FetchMetaData(r.Context(), target),
	})
}

// =============================================================================
// Flags
// =============================================================================

func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"showPreview": s.store.ShowPreview()})
}

func (s *Server) handleSetPreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShowPreview bool `json:"showPreview"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}
	s.store.SetShowPreview(r.Context(), req.ShowPreview)
	writeJSON(w, http.StatusOK, map[string]bool{"showPreview": s.store.ShowPreview()})
}

func (s *Server) handleSetEditMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
		return
	}
	s.store.SetEditMode(req.Active)
	writeJSON(w, http.StatusOK, map[string]bool{"editMode": s.store.EditMode()})
}

// =============================================================================
// Helpers
// =============================================================================

// requestLogger logs each request with method, path, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start).Round(time.Millisecond))
	})
}

// writeError maps structured error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidGroupName,
		apperrors.ErrCodeInvalidGroupSize, apperrors.ErrCodeInvalidURL,
		apperrors.ErrCodeInvalidCanvas:
		status = http.StatusBadRequest
	case apperrors.ErrCodeGroupNotFound, apperrors.ErrCodeLinkNotFound,
		apperrors.ErrCodeBookmarkNotFound, apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{
		"error": apperrors.UserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, apperrors.New(apperrors.ErrCodeInvalidCanvas, "query parameter %q is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidCanvas, "query parameter %q must be a non-negative integer", name)
	}
	return n, nil
}
