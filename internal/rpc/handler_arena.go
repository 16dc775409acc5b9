package rpc

import (
	"context"
	"encoding/json"

	"github.com/deadwatch/horde/internal/arena"
	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/snapshot"
)

type arenaStartRequest struct {
	OwnerID string `json:"ownerId"`
	// SaveID, when set, resumes the named save instead of starting fresh.
	SaveID string `json:"saveId"`
}

type arenaStartResponse struct {
	SessionID string `json:"sessionId"`
}

type arenaInputRequest struct {
	OwnerID   string        `json:"ownerId"`
	Action    string        `json:"action"`
	Position  *game.Vector3 `json:"position"`
	Rotation  *game.Vector3 `json:"rotation"`
	Direction *game.Vector3 `json:"direction"`
	Slot      *int          `json:"slot"`
	Backward  bool          `json:"backward"`
}

type arenaOwnerRequest struct {
	OwnerID string `json:"ownerId"`
}

type hitResponse struct {
	TargetID string `json:"targetId"`
	Damage   int    `json:"damage"`
}

type fireResponse struct {
	Fired    bool          `json:"fired"`
	WeaponID string        `json:"weaponId,omitempty"`
	Rays     int           `json:"rays,omitempty"`
	Hits     []hitResponse `json:"hits,omitempty"`
	Damage   int           `json:"damage,omitempty"`
	AmmoLeft int           `json:"ammoLeft"`
}

type toggleResponse struct {
	Done bool `json:"done"`
}

func (s *Server) handleArenaStart(ctx context.Context, data []byte) []byte {
	var req arenaStartRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	// Starting a run counts as activity, and proves the owner exists before
	// any session state is built.
	if err := s.players.Touch(ctx, req.OwnerID); err != nil {
		return fail(err)
	}

	sess, err := s.startOrResume(ctx, req)
	if err != nil {
		return fail(err)
	}
	return ok(arenaStartResponse{SessionID: sess.ID()})
}

func (s *Server) startOrResume(ctx context.Context, req arenaStartRequest) (*arena.Session, error) {
	if req.SaveID == "" {
		return s.arena.StartRun(ctx, req.OwnerID)
	}

	st, err := s.saves.Load(ctx, req.SaveID, req.OwnerID)
	if err != nil {
		return nil, err
	}
	return s.arena.ResumeRun(ctx, req.OwnerID, st)
}

func (s *Server) handleArenaInput(ctx context.Context, data []byte) []byte {
	var req arenaInputRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	switch req.Action {
	case "move":
		if req.Position == nil || req.Rotation == nil {
			return fail(game.Reject("move requires position and rotation"))
		}
		if err := s.arena.Move(req.OwnerID, *req.Position, *req.Rotation); err != nil {
			return fail(err)
		}
		return okEmpty()

	case "fire":
		if req.Direction == nil {
			return fail(game.Reject("fire requires direction"))
		}
		res, fired, err := s.arena.Fire(req.OwnerID, *req.Direction)
		if err != nil {
			return fail(err)
		}
		if !fired {
			return ok(fireResponse{})
		}
		hits := make([]hitResponse, 0, len(res.Hits))
		for _, h := range res.Hits {
			hits = append(hits, hitResponse{TargetID: h.TargetID, Damage: h.Damage})
		}
		return ok(fireResponse{
			Fired:    true,
			WeaponID: res.WeaponID,
			Rays:     res.Rays,
			Hits:     hits,
			Damage:   res.Damage,
			AmmoLeft: res.AmmoLeft,
		})

	case "reload":
		started, err := s.arena.Reload(req.OwnerID)
		if err != nil {
			return fail(err)
		}
		return ok(toggleResponse{Done: started})

	case "switch":
		if req.Slot == nil {
			return fail(game.Reject("switch requires slot"))
		}
		switched, err := s.arena.SwitchSlot(req.OwnerID, *req.Slot)
		if err != nil {
			return fail(err)
		}
		return ok(toggleResponse{Done: switched})

	case "cycle":
		switched, err := s.arena.CycleWeapon(req.OwnerID, req.Backward)
		if err != nil {
			return fail(err)
		}
		return ok(toggleResponse{Done: switched})

	case "quit":
		if err := s.arena.Quit(req.OwnerID); err != nil {
			return fail(err)
		}
		return okEmpty()

	default:
		return fail(game.Reject("unknown action %q", req.Action))
	}
}

func (s *Server) handleArenaState(ctx context.Context, data []byte) []byte {
	var req arenaOwnerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	st, err := s.arena.State(req.OwnerID)
	if err != nil {
		return fail(err)
	}

	doc, err := snapshot.Marshal(st)
	if err != nil {
		return fail(err)
	}
	return okRaw(doc)
}

func (s *Server) handleArenaSave(ctx context.Context, data []byte) []byte {
	var req arenaOwnerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	receipt, err := s.arena.SaveRun(ctx, req.OwnerID)
	if err != nil {
		return fail(err)
	}
	return ok(receiptResponse(receipt))
}
