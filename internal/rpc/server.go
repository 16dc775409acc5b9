// Package rpc exposes the game services over NATS request/reply. Every
// request and reply is a JSON document; replies travel in a Response
// envelope carrying either the payload or a classified error.
package rpc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deadwatch/horde/internal/arena"
	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/identity"
	"github.com/deadwatch/horde/internal/leaderboard"
	"github.com/deadwatch/horde/internal/saves"
	"github.com/deadwatch/horde/internal/weapon"
)

// Queue is the queue group all rpc handlers join, so concurrent servers
// split the request load.
const Queue = "horde-rpc"

// Transport registers request handlers on subjects.
type Transport interface {
	Ready() <-chan struct{}
	Handle(subject, queue string, handler func(data []byte) []byte) (func(), error)
}

// PlayerStore manages player profiles.
type PlayerStore interface {
	Create(ctx context.Context, name string) (identity.Owner, error)
	Get(ctx context.Context, id string) (identity.Owner, error)
	Touch(ctx context.Context, id string) error
}

// SaveStore persists and retrieves game saves.
type SaveStore interface {
	Save(ctx context.Context, ownerID string, st *game.GameState) (*saves.Receipt, error)
	Load(ctx context.Context, saveID, ownerID string) (*game.GameState, error)
	List(ctx context.Context, ownerID string) ([]saves.Summary, error)
	Delete(ctx context.Context, saveID, ownerID string) error
}

// Board records and ranks final scores.
type Board interface {
	Submit(ctx context.Context, ownerID string, sub leaderboard.Submission) (*leaderboard.Result, error)
	Top(ctx context.Context, page, size int) (*leaderboard.Page, error)
	UserRank(ctx context.Context, ownerID string) (*leaderboard.Standing, error)
}

// ArenaOps drives live runs.
type ArenaOps interface {
	StartRun(ctx context.Context, ownerID string) (*arena.Session, error)
	ResumeRun(ctx context.Context, ownerID string, st *game.GameState) (*arena.Session, error)
	Move(ownerID string, pos, rot game.Vector3) error
	Fire(ownerID string, dir game.Vector3) (*weapon.FireResult, bool, error)
	Reload(ownerID string) (bool, error)
	SwitchSlot(ownerID string, slot int) (bool, error)
	CycleWeapon(ownerID string, backward bool) (bool, error)
	Quit(ownerID string) error
	State(ownerID string) (*game.GameState, error)
	SaveRun(ctx context.Context, ownerID string) (*saves.Receipt, error)
}

// Server routes rpc subjects to the game services.
type Server struct {
	transport Transport
	players   PlayerStore
	saves     SaveStore
	board     Board
	arena     ArenaOps
}

func NewServer(transport Transport, players PlayerStore, saves SaveStore, board Board, arena ArenaOps) *Server {
	return &Server{
		transport: transport,
		players:   players,
		saves:     saves,
		board:     board,
		arena:     arena,
	}
}

func (s *Server) routes(ctx context.Context) map[string]func([]byte) []byte {
	return map[string]func([]byte) []byte{
		"horde.player.create": func(data []byte) []byte { return s.handlePlayerCreate(ctx, data) },
		"horde.player.get":    func(data []byte) []byte { return s.handlePlayerGet(ctx, data) },
		"horde.save.create":   func(data []byte) []byte { return s.handleSaveCreate(ctx, data) },
		"horde.save.load":     func(data []byte) []byte { return s.handleSaveLoad(ctx, data) },
		"horde.save.list":     func(data []byte) []byte { return s.handleSaveList(ctx, data) },
		"horde.save.delete":   func(data []byte) []byte { return s.handleSaveDelete(ctx, data) },
		"horde.board.submit":  func(data []byte) []byte { return s.handleBoardSubmit(ctx, data) },
		"horde.board.top":     func(data []byte) []byte { return s.handleBoardTop(ctx, data) },
		"horde.board.rank":    func(data []byte) []byte { return s.handleBoardRank(ctx, data) },
		"horde.arena.start":   func(data []byte) []byte { return s.handleArenaStart(ctx, data) },
		"horde.arena.input":   func(data []byte) []byte { return s.handleArenaInput(ctx, data) },
		"horde.arena.state":   func(data []byte) []byte { return s.handleArenaState(ctx, data) },
		"horde.arena.save":    func(data []byte) []byte { return s.handleArenaSave(ctx, data) },
	}
}

// Start registers every handler once the transport is ready, then blocks
// until the context ends.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-s.transport.Ready():
	case <-ctx.Done():
		return nil
	}

	routes := s.routes(ctx)

	var unsubs []func()
	for subject, handler := range routes {
		unsub, err := s.transport.Handle(subject, Queue, handler)
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			return game.Transient(fmt.Errorf("registering %s: %w", subject, err))
		}
		unsubs = append(unsubs, unsub)
	}

	slog.InfoContext(ctx, "rpc handlers registered", "subjects", len(routes))

	<-ctx.Done()
	for _, u := range unsubs {
		u()
	}
	return nil
}
