// Package web serves the task list as an HTML page and a JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Crixpsitos/lazytodo/internal/logging"
	"github.com/Crixpsitos/lazytodo/internal/model"
	"github.com/Crixpsitos/lazytodo/internal/tasks"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.tmpl").Funcs(template.FuncMap{
	"timestamp": func(value time.Time) string { return value.Local().Format("2006-01-02 15:04") },
}).ParseFS(templateFS, "templates/index.tmpl"))

const shutdownTimeout = 5 * time.Second

type Server struct {
	store  *tasks.Store
	logger *log.Logger
}

type createRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func NewServer(store *tasks.Store, logger *log.Logger) *Server {
	return &Server{store: store, logger: logging.OrDiscard(logger)}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("GET /api/tasks", s.listHandler)
	mux.HandleFunc("POST /api/tasks", s.createHandler)
	mux.HandleFunc("GET /api/tasks/{id}", s.getHandler)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.updateHandler)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.deleteHandler)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.toggleHandler)
	mux.HandleFunc("GET /api/counts", s.countsHandler)
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	mode, err := sortFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if mode == "" {
		mode = s.store.DefaultSort()
	}

	data := struct {
		Sort   model.SortMode
		Modes  []model.SortMode
		Counts model.Counts
		Tasks  []model.Task
	}{
		Sort:   mode,
		Modes:  model.SortModes(),
		Counts: s.store.Counts(),
		Tasks:  s.store.Sorted(mode),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	mode, err := sortFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Sorted(mode))
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	var input createRequest
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	task, err := s.store.Add(r.Context(), input.Title, input.Description, input.Priority)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	task, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) updateHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.Update(r.Context(), id, patch); err != nil {
		writeStoreError(w, err)
		return
	}

	task, ok := s.store.Get(id)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) toggleHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.store.Get(id); !ok {
		writeNotFound(w)
		return
	}

	s.store.ToggleCompletion(r.Context(), id)
	task, ok := s.store.Get(id)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) countsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Counts())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", recorder.status, "elapsed", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func sortFromRequest(r *http.Request) (model.SortMode, error) {
	value := r.URL.Query().Get("sort")
	if value == "" {
		return "", nil
	}
	return model.ParseSortMode(value)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeStoreError(w http.ResponseWriter, err error) {
	var validation *tasks.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Message, Field: validation.Field})
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "task not found"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
