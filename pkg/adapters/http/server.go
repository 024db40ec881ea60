package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/nodedialog"
	"github.com/aretw0/nodedialog/pkg/domain"
	"github.com/aretw0/nodedialog/pkg/graph"
	"github.com/aretw0/nodedialog/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the slice of the dialog engine the HTTP host drives.
type Engine interface {
	Advance(ctx context.Context, speaker ports.Speaker) (*domain.StepResult, error)
	Reset(speakerID string) bool
	Cursor(speakerID string) (domain.Cursor, bool)
	Graph() *graph.Graph
}

// Server hosts remote speakers. Each speaker's pending choice is held
// server side until the client posts to /speakers/{id}/choose.
type Server struct {
	Engine Engine
	Logger *slog.Logger

	mu       sync.Mutex
	speakers map[string]*remoteSpeaker
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) HandlerOption {
	return func(c *handlerConfig) {
		c.gatherer = g
	}
}

// NewServer creates a server with no speakers.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Engine:   engine,
		Logger:   logger,
		speakers: make(map[string]*remoteSpeaker),
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...HandlerOption) http.Handler {
	cfg := &handlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	server := NewServer(engine, cfg.logger)

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/graph", server.GetGraph)
	r.Route("/speakers", func(r chi.Router) {
		r.Post("/", server.CreateSpeaker)
		r.Get("/", server.ListSpeakers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetCursor)
			r.Delete("/", server.ResetSpeaker)
			r.Post("/advance", server.Advance)
			r.Post("/choose", server.Choose)
		})
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// remoteSpeaker buffers what the engine delivers during one request.
type remoteSpeaker struct {
	id string

	// step serializes advance and choose for this speaker.
	step sync.Mutex

	text    string
	prompt  string
	vars    map[string]string
	options []domain.Option
	choose  ports.ChooseFunc
}

func (s *remoteSpeaker) ID() string { return s.id }

func (s *remoteSpeaker) OnStatement(vars map[string]string, text string) {
	s.vars = vars
	s.text = text
}

func (s *remoteSpeaker) OnChoice(vars map[string]string, prompt string, options []domain.Option, choose ports.ChooseFunc) {
	s.vars = vars
	s.prompt = prompt
	s.options = options
	s.choose = choose
}

func (s *remoteSpeaker) clearFrame() {
	s.text, s.prompt, s.vars = "", "", nil
}

// StepResponse is the body returned by POST /speakers/{id}/advance.
type StepResponse struct {
	*domain.StepResult
	Text           string            `json:"text,omitempty"`
	Prompt         string            `json:"prompt,omitempty"`
	Vars           map[string]string `json:"vars,omitempty"`
	DispatchErrors []string          `json:"dispatch_errors,omitempty"`
}

// ChooseRequest selects a pending option by connection id or by position.
type ChooseRequest struct {
	Connection domain.ConnectionID `json:"connection"`
	Option     *int                `json:"option,omitempty"`
}

// ChoiceResponse is the body returned by POST /speakers/{id}/choose.
type ChoiceResponse struct {
	*domain.ChoiceResult
	DispatchErrors []string `json:"dispatch_errors,omitempty"`
}

// GraphResponse is the body returned by GET /graph.
type GraphResponse struct {
	Root        domain.NodeID       `json:"root"`
	Nodes       []NodeView          `json:"nodes"`
	Connections []domain.Connection `json:"connections"`
}

// NodeView flattens a node's body for JSON clients.
type NodeView struct {
	ID       domain.NodeID         `json:"id"`
	Name     string                `json:"name,omitempty"`
	Kind     domain.Kind           `json:"kind"`
	Token    string                `json:"token"`
	Outgoing []domain.ConnectionID `json:"outgoing"`
	Vars     map[string]string     `json:"vars,omitempty"`
	OnEnter  []string              `json:"on_enter,omitempty"`
	OnExit   []string              `json:"on_exit,omitempty"`
}

// CreateSpeaker handles POST /speakers.
func (s *Server) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	sp := &remoteSpeaker{id: uuid.NewString()}

	s.mu.Lock()
	s.speakers[sp.id] = sp
	s.mu.Unlock()

	s.Logger.Debug("speaker created", "speaker", sp.id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": sp.id}, s.Logger)
}

// ListSpeakers handles GET /speakers.
func (s *Server) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := make(map[string]domain.Cursor, len(s.speakers))
	for id := range s.speakers {
		cur, ok := s.Engine.Cursor(id)
		if !ok {
			cur = domain.Cursor{Status: domain.StatusEnded}
		}
		resp[id] = cur
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp, s.Logger)
}

// GetCursor handles GET /speakers/{id}.
func (s *Server) GetCursor(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.speaker(w, r)
	if !ok {
		return
	}
	cur, found := s.Engine.Cursor(sp.id)
	if !found {
		cur = domain.Cursor{Status: domain.StatusEnded}
	}
	writeJSON(w, http.StatusOK, cur, s.Logger)
}

// ResetSpeaker handles DELETE /speakers/{id}. The speaker id stays valid;
// its next advance starts at the root.
func (s *Server) ResetSpeaker(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.speaker(w, r)
	if !ok {
		return
	}
	sp.step.Lock()
	sp.choose, sp.options = nil, nil
	sp.clearFrame()
	sp.step.Unlock()

	s.Engine.Reset(sp.id)
	w.WriteHeader(http.StatusNoContent)
}

// Advance handles POST /speakers/{id}/advance.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.speaker(w, r)
	if !ok {
		return
	}
	sp.step.Lock()
	defer sp.step.Unlock()

	sp.clearFrame()
	res, err := s.Engine.Advance(r.Context(), sp)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrAlreadyAwaitingChoice):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrGraphCorruption):
			s.Logger.Error("Advance: graph corruption", "speaker", sp.id, "error", err)
		default:
			s.Logger.Error("Advance failed", "speaker", sp.id, "error", err)
		}
		http.Error(w, fmt.Sprintf("Advance error: %v", err), status)
		return
	}
	if res.Kind != domain.KindChoice {
		sp.choose, sp.options = nil, nil
	}

	resp := StepResponse{
		StepResult:     res,
		Text:           sp.text,
		Prompt:         sp.prompt,
		Vars:           sp.vars,
		DispatchErrors: errorStrings(res.DispatchErrors),
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

// Choose handles POST /speakers/{id}/choose.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.speaker(w, r)
	if !ok {
		return
	}

	var body ChooseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Choose: Invalid request body", "error", err)
		return
	}

	sp.step.Lock()
	defer sp.step.Unlock()

	if sp.choose == nil {
		http.Error(w, "No pending choice", http.StatusConflict)
		return
	}
	cid := body.Connection
	if body.Option != nil {
		i := *body.Option
		if i < 0 || i >= len(sp.options) {
			http.Error(w, fmt.Sprintf("Option %d out of range", i), http.StatusBadRequest)
			return
		}
		cid = sp.options[i].Connection
	}

	res, err := sp.choose(r.Context(), cid)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidChoice):
			http.Error(w, fmt.Sprintf("Choose error: %v", err), http.StatusBadRequest)
		default:
			sp.choose, sp.options = nil, nil
			http.Error(w, fmt.Sprintf("Choose error: %v", err), http.StatusInternalServerError)
			s.Logger.Error("Choose failed", "speaker", sp.id, "error", err)
		}
		return
	}
	sp.choose, sp.options = nil, nil

	resp := ChoiceResponse{
		ChoiceResult:   res,
		DispatchErrors: errorStrings(res.DispatchErrors),
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g := s.Engine.Graph()
	root, err := g.Root()
	if err != nil {
		http.Error(w, fmt.Sprintf("Graph error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("GetGraph failed", "error", err)
		return
	}

	nodes := g.Nodes()
	resp := GraphResponse{
		Root:        root,
		Nodes:       make([]NodeView, len(nodes)),
		Connections: g.Connections(),
	}
	for i, n := range nodes {
		resp.Nodes[i] = NodeView{
			ID:       n.ID,
			Name:     n.Name,
			Kind:     n.Kind(),
			Token:    n.Token(),
			Outgoing: n.Outgoing,
			Vars:     n.Vars,
			OnEnter:  bindingStrings(n.OnEnter),
			OnExit:   bindingStrings(n.OnExit),
		}
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":     "nodedialog-http",
		"version": strings.TrimSpace(nodedialog.Version),
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

func (s *Server) speaker(w http.ResponseWriter, r *http.Request) (*remoteSpeaker, bool) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	sp, ok := s.speakers[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown speaker %q", id), http.StatusNotFound)
	}
	return sp, ok
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func bindingStrings(bs []domain.EventBinding) []string {
	if len(bs) == 0 {
		return nil
	}
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.String()
	}
	return out
}
