// Package api serves the check engine over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/derivacheck/internal/checker"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/history"
	"github.com/abhisek/derivacheck/internal/store"
)

const (
	maxBodyBytes      = 64 << 10
	defaultHistory    = 10
	maxHistory        = 100
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Config wires the server's collaborators. Events and Tutor are optional.
type Config struct {
	Engine *checker.Engine
	Events *store.EventLog
	Tutor  *diagnosis.Service
}

// Server handles the HTTP API.
type Server struct {
	engine *checker.Engine
	events *store.EventLog
	tutor  *diagnosis.Service
	schema *jsonschema.Schema
	mux    *http.ServeMux
}

// CheckRequest is the body of POST /v1/check.
type CheckRequest struct {
	checker.Request
	Explain bool `json:"explain,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// New builds a server. A nil Engine uses the default options.
func New(cfg Config) (*Server, error) {
	sch, err := compileRequestSchema()
	if err != nil {
		return nil, err
	}
	s := &Server{
		engine: cfg.Engine,
		events: cfg.Events,
		tutor:  cfg.Tutor,
		schema: sch,
		mux:    http.NewServeMux(),
	}
	if s.engine == nil {
		s.engine = checker.New(checker.DefaultOptions())
	}
	s.mux.HandleFunc("POST /v1/check", s.check)
	s.mux.HandleFunc("GET /v1/history", s.history)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s, nil
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("derivacheck listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "read body: "+err.Error(), "bad_request")
		return
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error(), "bad_request")
		return
	}
	if err := s.schema.Validate(doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), "bad_request")
		return
	}
	var req CheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error(), "bad_request")
		return
	}

	rep, err := s.engine.Check(req.Request)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), checker.ErrorKind(err))
		return
	}

	if req.Explain && s.tutor != nil && s.tutor.CanExplain() {
		ex, err := s.tutor.Explain(r.Context(), rep.ParsedProblem(), rep.IncorrectSteps(), rep.Hints)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: tutor explanation failed: %v\n", err)
		}
		rep.Tutor = ex
	}

	if s.events != nil {
		if _, err := history.Save(r.Context(), s.events, rep); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save check: %v\n", err)
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusNotFound, "history is not enabled", "not_found")
		return
	}
	limit := defaultHistory
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "bad_request")
			return
		}
		limit = min(n, maxHistory)
	}

	recs, err := s.events.QueryChecks(r.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), checker.KindInternal)
		return
	}
	out := make([]historyEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, historyEntry{
			ID:        rec.ID,
			CheckID:   rec.CheckID,
			Timestamp: rec.Timestamp,
			Mode:      rec.Mode,
			Problem:   rec.Function,
			Steps:     rec.Steps,
			Correct:   rec.Correct,
			Passed:    rec.Passed,
			Report:    rec.Report,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type historyEntry struct {
	ID        int             `json:"id"`
	CheckID   string          `json:"check_id"`
	Timestamp time.Time       `json:"timestamp"`
	Mode      string          `json:"mode"`
	Problem   string          `json:"problem"`
	Steps     int             `json:"steps"`
	Correct   int             `json:"correct"`
	Passed    bool            `json:"passed"`
	Report    json.RawMessage `json:"report"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg, kind string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Kind: kind})
}
