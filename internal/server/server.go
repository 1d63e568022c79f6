package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fabrules/fab-engine-go/internal/cards"
	"github.com/fabrules/fab-engine-go/internal/config"
	"github.com/fabrules/fab-engine-go/internal/game"
	"github.com/fabrules/fab-engine-go/internal/repository"
)

// pendingPlayer is a connected client waiting for an opponent.
type pendingPlayer struct {
	conn   *websocket.Conn
	hero   string
	weapon string
}

// Server matches WebSocket clients into sessions and runs them. Matchmaking
// is first come, first paired: one waiting slot, the next arrival starts the
// game.
type Server struct {
	cfg     config.ServerConfig
	eng     *game.Engine
	store   *cards.Store
	matches *repository.MatchRepository
	logger  *zap.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu       sync.Mutex
	waiting  *pendingPlayer
	sessions sync.WaitGroup
	shutdown context.Context
	cancel   context.CancelFunc
}

// New creates a server. matches and store may be nil; games then use random
// test decks and results are not persisted.
func New(cfg config.ServerConfig, eng *game.Engine, store *cards.Store, matches *repository.MatchRepository, logger *zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		eng:     eng,
		store:   store,
		matches: matches,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		shutdown: ctx,
		cancel:   cancel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.httpSrv = &http.Server{
		Addr:        cfg.Addr,
		Handler:     mux,
		ReadTimeout: cfg.ReadTimeout,
	}
	return s
}

// ListenAndServe blocks serving connections until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, cancels running sessions, and waits
// for them to finish within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	s.mu.Lock()
	if s.waiting != nil {
		s.waiting.conn.Close()
		s.waiting = nil
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("shutdown timed out waiting for sessions")
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	player := &pendingPlayer{
		conn:   conn,
		hero:   r.URL.Query().Get("hero"),
		weapon: r.URL.Query().Get("weapon"),
	}

	s.mu.Lock()
	if s.waiting == nil {
		s.waiting = player
		s.mu.Unlock()
		s.logger.Info("player waiting for opponent", zap.String("remote", conn.RemoteAddr().String()))
		return
	}
	opponent := s.waiting
	s.waiting = nil
	s.mu.Unlock()

	s.startSession(opponent, player)
}

func (s *Server) startSession(p0, p1 *pendingPlayer) {
	g := s.eng.NewGame(time.Now().UnixNano(), s.playerConfig(p0), s.playerConfig(p1))
	sess := NewSession(s.eng, g, [2]*websocket.Conn{p0.conn, p1.conn}, s.matches, s.cfg.WriteTimeout, s.logger)

	s.sessions.Add(1)
	go func() {
		defer s.sessions.Done()
		if err := sess.Run(s.shutdown); err != nil {
			s.logger.Info("session ended", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}()
}

// playerConfig resolves a requested hero and weapon against the card store.
// Unknown names and a nil store fall back to the engine's defaults.
func (s *Server) playerConfig(p *pendingPlayer) game.PlayerConfig {
	cfg := game.PlayerConfig{}
	if s.store == nil {
		return cfg
	}
	if p.hero != "" {
		cfg.Hero = s.store.Hero(p.hero)
	}
	if p.weapon != "" {
		cfg.Weapon = s.store.Weapon(p.weapon)
	}
	return cfg
}
