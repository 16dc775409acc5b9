package rpc

import (
	"context"
	"encoding/json"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/identity"
)

type playerCreateRequest struct {
	Name string `json:"name"`
}

type playerGetRequest struct {
	OwnerID string `json:"ownerId"`
}

type playerResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"createdAt"`
	LastSeenAt int64  `json:"lastSeenAt"`
}

func playerFromOwner(o identity.Owner) playerResponse {
	return playerResponse{
		ID:         o.ID,
		Name:       o.Name,
		CreatedAt:  o.CreatedAt.UnixMilli(),
		LastSeenAt: o.LastSeenAt.UnixMilli(),
	}
}

func (s *Server) handlePlayerCreate(ctx context.Context, data []byte) []byte {
	var req playerCreateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	owner, err := s.players.Create(ctx, req.Name)
	if err != nil {
		return fail(err)
	}
	return ok(playerFromOwner(owner))
}

func (s *Server) handlePlayerGet(ctx context.Context, data []byte) []byte {
	var req playerGetRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	owner, err := s.players.Get(ctx, req.OwnerID)
	if err != nil {
		return fail(err)
	}
	return ok(playerFromOwner(owner))
}
