package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jrowley/glimmer/internal/autooff"
	"github.com/jrowley/glimmer/internal/display"
	"github.com/jrowley/glimmer/internal/history"
	"github.com/jrowley/glimmer/internal/matrix"
)

const (
	// maxBodyBytes bounds request bodies. The largest legitimate
	// payload is a full grid, far below this.
	maxBodyBytes = 1 << 20

	// shutdownTimeout is how long in-flight requests get to finish
	// once the server context is cancelled.
	shutdownTimeout = 5 * time.Second

	allowedMethods = "GET, POST, OPTIONS"
	allowedHeaders = "Content-Type, ngrok-skip-browser-warning, User-Agent"
)

// Config carries the collaborators and settings for a [Server].
type Config struct {
	Sink          display.Sink
	History       *history.Ring
	AutoOff       *autooff.Scheduler
	Host          string
	Port          int
	AllowedOrigin string
	Logger        *slog.Logger
}

// Server handles the HTTP API for the LED panel.
//
// Routes:
//   - GET  /health: service status and grid dimensions
//   - POST /grid: replace the whole 8x8 grid
//   - POST /pixel: set a single pixel
//   - POST /clear: turn the display off immediately
//   - POST /brightness: set the global brightness
//   - GET  /history: the last accepted full-grid writes, newest first
//
// The server is designed for graceful shutdown via context
// cancellation.
type Server struct {
	sink       display.Sink
	history    *history.Ring
	autoOff    *autooff.Scheduler
	host       string
	port       int
	origin     string
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a [Server]. It is not started until [Server.Start] is
// called.
func New(cfg Config) *Server {
	return &Server{
		sink:    cfg.Sink,
		history: cfg.History,
		autoOff: cfg.AutoOff,
		host:    cfg.Host,
		port:    cfg.Port,
		origin:  cfg.AllowedOrigin,
		logger:  cfg.Logger,
	}
}

// Handler returns the full request handler: the route mux wrapped in
// the CORS and panic-recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/grid", s.handleGrid)
	mux.HandleFunc("/pixel", s.handlePixel)
	mux.HandleFunc("/clear", s.handleClear)
	mux.HandleFunc("/brightness", s.handleBrightness)
	mux.HandleFunc("/history", s.handleHistory)

	return s.recoverPanics(s.cors(mux))
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the
// server is listening. The server runs until the context is
// cancelled, then shuts down gracefully with a bounded timeout.
//
// Returns an error if the server fails to bind to the configured
// address.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler: s.Handler(),
		// BaseContext derives all request contexts from the server
		// context, so cancelling ctx also cancels in-flight requests.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"hardware_available": s.sink.Hardware(),
		"grid_size": map[string]int{
			"width":  matrix.Width,
			"height": matrix.Height,
		},
	})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Grid [][]matrix.ColorInput `json:"grid"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, "update grid", err)
		return
	}
	if req.Grid == nil {
		s.writeError(w, http.StatusBadRequest, `request must include "grid" field`)
		return
	}

	g, err := matrix.ParseGrid(req.Grid)
	if err != nil {
		s.respondError(w, "update grid", err)
		return
	}

	for y := 0; y < matrix.Height; y++ {
		for x := 0; x < matrix.Width; x++ {
			s.sink.SetPixel(x, y, g[y][x])
		}
	}
	if err := s.sink.Render(); err != nil {
		s.respondError(w, "update grid", fmt.Errorf("render: %w", err))
		return
	}

	s.autoOff.Schedule()
	s.history.Record(g)

	s.logger.Info("grid updated", "history_len", s.history.Len())
	s.writeSuccess(w, "Grid updated")
}

func (s *Server) handlePixel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		X     *int               `json:"x"`
		Y     *int               `json:"y"`
		Color *matrix.ColorInput `json:"color"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, "update pixel", err)
		return
	}
	if req.X == nil || req.Y == nil {
		s.writeError(w, http.StatusBadRequest, "x and y coordinates are required")
		return
	}
	x, y := *req.X, *req.Y
	if x < 0 || x >= matrix.Width || y < 0 || y >= matrix.Height {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("coordinates must be within 0-%d", matrix.Width-1))
		return
	}
	if req.Color == nil {
		s.writeError(w, http.StatusBadRequest, "color object is required")
		return
	}

	c, err := matrix.ParseColor(*req.Color)
	if err != nil {
		s.respondError(w, "update pixel", err)
		return
	}

	s.sink.SetPixel(x, y, c)
	if err := s.sink.Render(); err != nil {
		s.respondError(w, "update pixel", fmt.Errorf("render: %w", err))
		return
	}

	s.autoOff.Schedule()

	s.logger.Info("pixel updated", "x", x, "y", y, "r", c.R, "g", c.G, "b", c.B)
	s.writeSuccess(w, fmt.Sprintf("Pixel (%d, %d) updated", x, y))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// an explicit clear bypasses the idle delay entirely
	s.autoOff.Cancel()
	if err := s.sink.PowerOff(); err != nil {
		s.respondError(w, "clear", fmt.Errorf("power off: %w", err))
		return
	}

	s.logger.Info("grid cleared")
	s.writeSuccess(w, "Grid cleared")
}

func (s *Server) handleBrightness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Brightness *float64 `json:"brightness"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, "set brightness", err)
		return
	}
	if req.Brightness == nil {
		s.writeError(w, http.StatusBadRequest, "brightness value is required")
		return
	}
	b := *req.Brightness
	if b < 0 || b > 1 {
		s.writeError(w, http.StatusBadRequest, "brightness must be a number between 0 and 1")
		return
	}

	if err := s.sink.SetBrightness(b); err != nil {
		s.respondError(w, "set brightness", fmt.Errorf("set brightness: %w", err))
		return
	}
	if err := s.sink.Render(); err != nil {
		s.respondError(w, "set brightness", fmt.Errorf("render: %w", err))
		return
	}

	// brightness changes deliberately do not rearm the auto-off timer;
	// only pixel and grid writes reset the countdown
	s.logger.Info("brightness set", "brightness", b)
	s.writeSuccess(w, fmt.Sprintf("Brightness set to %g", b))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"grids": s.history.Snapshot(),
	})
}

// --- middleware ---

// cors restricts cross-origin access to the single configured frontend
// origin. Requests from any other origin get no CORS headers; the
// browser enforces the block.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && origin == s.origin {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", allowedMethods)
				h.Set("Access-Control-Allow-Headers", allowedHeaders)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		if r.Method == http.MethodOptions {
			// preflight from a disallowed origin gets no approval headers
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverPanics converts handler panics into opaque 500 responses. The
// full stack is logged with a correlation ID so a client report can be
// matched to server logs.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				correlationID := uuid.NewString()
				s.logger.Error("handler panic",
					"correlation_id", correlationID,
					"path", r.URL.Path,
					"panic", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
				)
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// --- response helpers ---

// decodeJSON reads a size-limited request body into v. Decode failures
// are client errors.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return matrix.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

// respondError maps an error to a client response: validation errors
// surface verbatim with 400, anything else becomes an opaque 500 with
// the detail logged server-side.
func (s *Server) respondError(w http.ResponseWriter, op string, err error) {
	var verr *matrix.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, http.StatusBadRequest, verr.Error())
		return
	}

	correlationID := uuid.NewString()
	s.logger.Error("request failed",
		"op", op,
		"correlation_id", correlationID,
		"error", err,
	)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) writeSuccess(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
