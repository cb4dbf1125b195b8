// Package server exposes the opportunity engine over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/avestoai/avesto-go/aggregate"
	"github.com/avestoai/avesto-go/core"
	"github.com/avestoai/avesto-go/engine"
)

// History reads persisted analyses. *store.SQLiteHistory satisfies it.
type History interface {
	Get(ctx context.Context, analysisID string) (*core.AnalysisResult, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*core.AnalysisResult, error)
}

// Config configures the server.
type Config struct {
	// Engine runs analyses.
	Engine *engine.Engine

	// Snapshots builds snapshots for the read-only endpoints.
	Snapshots engine.SnapshotSource

	// History serves past analyses. Nil disables the history endpoints.
	History History

	// AllowedOrigins for CORS. Empty allows all, for development.
	AllowedOrigins []string

	// AuthFunc authorizes API requests. Nil allows everything; the health
	// endpoint is never gated.
	AuthFunc func(r *http.Request) bool
}

// Server is the HTTP surface of the service.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// New creates a server.
func New(cfg Config, log zerolog.Logger) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
		},
		log: log.With().Str("component", "server").Logger(),
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.AuthFunc != nil {
			r.Use(s.requireAuth)
		}
		r.Post("/opportunities", s.handleAnalyze)
		r.Get("/users/{userID}/snapshot", s.handleSnapshot)
		r.Get("/users/{userID}/chat-context", s.handleChatContext)
		r.Get("/stream", s.handleStream)

		if s.cfg.History != nil {
			r.Get("/users/{userID}/analyses", s.handleListAnalyses)
			r.Get("/analyses/{analysisID}", s.handleGetAnalysis)
		}
	})

	return r
}

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.AuthFunc(r) {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	UserID       string `json:"user_id"`
	AnalysisType string `json:"analysis_type,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	result := s.cfg.Engine.Analyze(r.Context(), engine.Request{
		UserID:       req.UserID,
		AnalysisType: req.AnalysisType,
	})
	s.writeJSON(w, http.StatusOK, result)
}

// snapshotResponse bundles the snapshot with its derived views.
type snapshotResponse struct {
	Snapshot *core.FinancialSnapshot    `json:"snapshot"`
	Summary  aggregate.Summary          `json:"summary"`
	Velocity aggregate.SpendingVelocity `json:"spending_velocity"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	snapshot := s.cfg.Snapshots.Snapshot(r.Context(), userID)

	s.writeJSON(w, http.StatusOK, snapshotResponse{
		Snapshot: snapshot,
		Summary:  aggregate.Summarize(snapshot),
		Velocity: aggregate.DeriveVelocity(snapshot, snapshot.GeneratedAt),
	})
}

// handleChatContext serves the compact snapshot projection used to ground a
// conversational advisor.
func (s *Server) handleChatContext(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	snapshot := s.cfg.Snapshots.Snapshot(r.Context(), userID)
	s.writeJSON(w, http.StatusOK, aggregate.ForChat(snapshot))
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	results, err := s.cfg.History.ListByUser(r.Context(), userID, 20)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to list analyses")
		s.writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	if results == nil {
		results = []*core.AnalysisResult{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"analyses": results})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID := chi.URLParam(r, "analysisID")
	result, err := s.cfg.History.Get(r.Context(), analysisID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// ---- WebSocket stream ----

// ClientMessage is what stream clients send.
type ClientMessage struct {
	Type         string `json:"type"` // "analyze"
	UserID       string `json:"user_id,omitempty"`
	AnalysisType string `json:"analysis_type,omitempty"`
}

// ServerMessage is what the stream sends back.
type ServerMessage struct {
	Type   string               `json:"type"` // "status", "result", "error"
	Status string               `json:"status,omitempty"`
	Result *core.AnalysisResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (sess *session) send(msg ServerMessage) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.conn.WriteJSON(msg)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sess := &session{conn: conn}
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("stream connected")

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("stream read failed")
			}
			return
		}
		s.handleStreamMessage(r.Context(), sess, msg)
	}
}

func (s *Server) handleStreamMessage(ctx context.Context, sess *session, msg ClientMessage) {
	switch msg.Type {
	case "analyze":
		if msg.UserID == "" {
			sess.send(ServerMessage{Type: "error", Error: "user_id is required"})
			return
		}
		sess.send(ServerMessage{Type: "status", Status: "analyzing"})

		started := time.Now()
		result := s.cfg.Engine.Analyze(ctx, engine.Request{
			UserID:       msg.UserID,
			AnalysisType: msg.AnalysisType,
		})
		s.log.Info().Str("user_id", msg.UserID).Dur("took", time.Since(started)).Msg("stream analysis complete")

		sess.send(ServerMessage{Type: "result", Result: result})

	default:
		sess.send(ServerMessage{Type: "error", Error: "unknown message type"})
	}
}
