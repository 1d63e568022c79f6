package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fabrules/fab-engine-go/internal/game"
	"github.com/fabrules/fab-engine-go/internal/repository"
)

const (
	msgWelcome  = "welcome"
	msgState    = "state"
	msgActions  = "actions"
	msgEvent    = "event"
	msgGameOver = "game_over"
	msgError    = "error"

	msgAct = "act"
)

// Session drives one game between two connected clients. It owns both
// connections for its lifetime and runs the engine loop on a single
// goroutine: enumerate, prompt the actor, apply, broadcast.
type Session struct {
	ID      string
	eng     *game.Engine
	g       *game.Game
	replay  *game.Replay
	conns   [2]*websocket.Conn
	matches *repository.MatchRepository
	logger  *zap.Logger

	writeTimeout time.Duration
	startedAt    time.Time
}

func NewSession(eng *game.Engine, g *game.Game, conns [2]*websocket.Conn, matches *repository.MatchRepository, writeTimeout time.Duration, logger *zap.Logger) *Session {
	return &Session{
		ID:           g.ID,
		eng:          eng,
		g:            g,
		replay:       game.NewReplay(g.ID),
		conns:        conns,
		matches:      matches,
		logger:       logger.With(zap.String("session_id", g.ID)),
		writeTimeout: writeTimeout,
		startedAt:    time.Now(),
	}
}

// Run plays the session to completion. It returns when the game ends, a
// client disconnects, or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	for seat := 0; seat < 2; seat++ {
		if err := s.send(seat, ServerMessage{Type: msgWelcome, Seat: seat, GameID: s.ID}); err != nil {
			return err
		}
	}
	s.logger.Info("session started",
		zap.String("hero0", s.g.State.Players[0].Hero.Name),
		zap.String("hero1", s.g.State.Players[1].Hero.Name),
	)

	actions := 0
	for !s.g.State.Terminal() {
		if err := ctx.Err(); err != nil {
			return err
		}
		actor := game.CurrentActorIndex(s.g.State)
		legal := s.eng.EnumerateLegalActions(s.g.State)
		if len(legal) == 0 {
			return fmt.Errorf("no legal actions for player %d", actor)
		}
		if err := s.broadcastState(); err != nil {
			return err
		}
		if err := s.send(actor, ServerMessage{Type: msgActions, State: viewPtr(s.g.State, actor), Actions: actionDTOs(legal)}); err != nil {
			return err
		}

		choice, err := s.readChoice(actor, len(legal))
		if err != nil {
			return err
		}

		next, _, ev := s.eng.ApplyAction(s.g.State, legal[choice])
		s.g.State = next
		actions++
		s.replay.RecordEntry(actor, legal[choice], ev, next)
		s.broadcast(ServerMessage{Type: msgEvent, Event: &ev})
	}

	winner := s.g.State.Winner()
	s.logger.Info("session finished", zap.Int("winner", winner), zap.Int("actions", actions))
	if err := s.broadcastState(); err != nil {
		return err
	}
	s.broadcast(ServerMessage{Type: msgGameOver, Winner: winner})
	s.persist(ctx, winner, actions)
	return nil
}

func (s *Session) readChoice(seat, legal int) (int, error) {
	for {
		_, data, err := s.conns[seat].ReadMessage()
		if err != nil {
			return 0, fmt.Errorf("read from player %d: %w", seat, err)
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.send(seat, ServerMessage{Type: msgError, Error: "malformed message"})
			continue
		}
		if msg.Type != msgAct {
			s.send(seat, ServerMessage{Type: msgError, Error: "unexpected message type " + msg.Type})
			continue
		}
		if msg.Index < 0 || msg.Index >= legal {
			s.send(seat, ServerMessage{Type: msgError, Error: "action index out of range"})
			continue
		}
		return msg.Index, nil
	}
}

func (s *Session) broadcastState() error {
	for seat := 0; seat < 2; seat++ {
		if err := s.send(seat, ServerMessage{Type: msgState, State: viewPtr(s.g.State, seat)}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) broadcast(msg ServerMessage) {
	for seat := 0; seat < 2; seat++ {
		if err := s.send(seat, msg); err != nil {
			s.logger.Debug("broadcast failed", zap.Int("seat", seat), zap.Error(err))
		}
	}
}

func (s *Session) send(seat int, msg ServerMessage) error {
	conn := s.conns[seat]
	if s.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return conn.WriteJSON(msg)
}

func (s *Session) persist(ctx context.Context, winner, actions int) {
	if s.matches == nil {
		return
	}
	rec := repository.MatchRecord{
		ID:         uuid.MustParse(s.g.ID),
		Winner:     winner,
		Hero0:      s.g.State.Players[0].Hero.Name,
		Hero1:      s.g.State.Players[1].Hero.Name,
		Actions:    actions,
		Seed:       s.g.State.Seed,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now(),
	}
	if err := s.matches.Save(ctx, rec); err != nil {
		s.logger.Warn("persist match result", zap.Error(err))
	}
}

func (s *Session) close() {
	for _, conn := range s.conns {
		conn.Close()
	}
}

func viewPtr(gs *game.GameState, seat int) *StateView {
	v := stateView(gs, seat)
	return &v
}
