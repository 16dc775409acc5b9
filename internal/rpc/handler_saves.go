package rpc

import (
	"context"
	"encoding/json"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/saves"
	"github.com/deadwatch/horde/internal/snapshot"
)

type saveCreateRequest struct {
	OwnerID   string          `json:"ownerId"`
	GameState json.RawMessage `json:"gameState"`
}

type saveRefRequest struct {
	OwnerID string `json:"ownerId"`
	SaveID  string `json:"saveId"`
}

type saveListRequest struct {
	OwnerID string `json:"ownerId"`
}

type saveReceiptResponse struct {
	SaveID  string `json:"saveId"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	SavedAt int64  `json:"savedAt"`
}

type saveSummaryResponse struct {
	ID          string `json:"id"`
	WaveReached int    `json:"waveReached"`
	Score       int    `json:"score"`
	SavedAt     int64  `json:"savedAt"`
}

func receiptResponse(r *saves.Receipt) saveReceiptResponse {
	return saveReceiptResponse{
		SaveID:  r.SaveID,
		Success: true,
		Message: "Game saved successfully",
		SavedAt: r.SavedAt.UnixMilli(),
	}
}

// handleSaveCreate validates the submitted document before anything touches
// storage, so a malformed state can never land in a save row.
func (s *Server) handleSaveCreate(ctx context.Context, data []byte) []byte {
	var req saveCreateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}
	if len(req.GameState) == 0 {
		return fail(game.Reject("gameState must be set"))
	}

	st, err := snapshot.Unmarshal(req.GameState)
	if err != nil {
		return fail(err)
	}

	receipt, err := s.saves.Save(ctx, req.OwnerID, st)
	if err != nil {
		return fail(err)
	}
	return ok(receiptResponse(receipt))
}

func (s *Server) handleSaveLoad(ctx context.Context, data []byte) []byte {
	var req saveRefRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	st, err := s.saves.Load(ctx, req.SaveID, req.OwnerID)
	if err != nil {
		return fail(err)
	}

	doc, err := snapshot.Marshal(st)
	if err != nil {
		return fail(err)
	}
	return okRaw(doc)
}

func (s *Server) handleSaveList(ctx context.Context, data []byte) []byte {
	var req saveListRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	summaries, err := s.saves.List(ctx, req.OwnerID)
	if err != nil {
		return fail(err)
	}

	out := make([]saveSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, saveSummaryResponse{
			ID:          sum.ID,
			WaveReached: sum.WaveReached,
			Score:       sum.Score,
			SavedAt:     sum.SavedAt.UnixMilli(),
		})
	}
	return ok(out)
}

func (s *Server) handleSaveDelete(ctx context.Context, data []byte) []byte {
	var req saveRefRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	if err := s.saves.Delete(ctx, req.SaveID, req.OwnerID); err != nil {
		return fail(err)
	}
	return okEmpty()
}
