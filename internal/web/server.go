package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/config"
	ssnet "github.com/peterkuimelis/stackshuffle/internal/net"
)

//go:embed static
var staticFiles embed.FS

// Server is the stackshuffle web UI server.
type Server struct {
	cfg    config.Config
	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/config", s.handleConfig)
	s.mux.HandleFunc("GET /api/reconstruct", s.handleGenerate(ssnet.KindReconstruct))
	s.mux.HandleFunc("GET /api/simulate", s.handleGenerate(ssnet.KindSimulate))

	// Instruction stream
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleGenerate(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseQuery(kind, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := ssnet.Generate(req, s.cfg, s.logger)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}

func parseQuery(kind string, r *http.Request) (ssnet.ClientMessage, error) {
	q := r.URL.Query()
	req := ssnet.ClientMessage{Type: kind}

	var err error
	if req.Cards, err = strconv.Atoi(q.Get("cards")); err != nil {
		return req, errors.New("cards must be an integer")
	}
	if kind == ssnet.KindSimulate {
		if req.Stacks, err = strconv.Atoi(q.Get("stacks")); err != nil {
			return req, errors.New("stacks must be an integer")
		}
	}
	if seed := q.Get("seed"); seed != "" {
		if req.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return req, errors.New("seed must be a non-negative integer")
		}
	}
	return req, nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// One request per connection
	_, data, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Debug("websocket read request", zap.Error(err))
		return
	}

	var req ssnet.ClientMessage
	if err := json.Unmarshal(data, &req); err != nil {
		wsConn.Close(websocket.StatusPolicyViolation, "expected a JSON request")
		return
	}

	res, err := ssnet.Generate(req, s.cfg, s.logger)
	if err != nil {
		s.write(r, wsConn, ssnet.ServerMessage{Type: "error", Error: err.Error()})
		wsConn.Close(websocket.StatusNormalClosure, "request rejected")
		return
	}

	for i := range res.Instructions {
		msg := ssnet.ServerMessage{Type: "instruction", Instruction: &res.Instructions[i]}
		if err := s.write(r, wsConn, msg); err != nil {
			return
		}
	}

	// The instructions were already streamed; the summary only carries the deck.
	summary := *res
	summary.Instructions = nil
	if err := s.write(r, wsConn, ssnet.ServerMessage{Type: "done", Result: &summary}); err != nil {
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "done")
}

func (s *Server) write(r *http.Request, c *websocket.Conn, msg ssnet.ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := c.Write(r.Context(), websocket.MessageText, data); err != nil {
		s.logger.Debug("websocket write", zap.Error(err))
		return err
	}
	return nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
