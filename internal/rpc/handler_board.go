package rpc

import (
	"context"
	"encoding/json"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/leaderboard"
)

type boardSubmitRequest struct {
	OwnerID         string `json:"ownerId"`
	Score           int    `json:"score"`
	WaveReached     int    `json:"waveReached"`
	ZombiesKilled   int    `json:"zombiesKilled"`
	PlayTimeSeconds int64  `json:"playTimeSeconds"`
}

type boardSubmitResponse struct {
	EntryID  string `json:"entryId"`
	Success  bool   `json:"success"`
	Rank     int    `json:"rank"`
	IsTopTen bool   `json:"isTopTen"`
	Message  string `json:"message"`
}

type boardTopRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type boardEntryResponse struct {
	ID              string `json:"id"`
	OwnerID         string `json:"ownerId"`
	PlayerName      string `json:"playerName"`
	Score           int    `json:"score"`
	WaveReached     int    `json:"waveReached"`
	ZombiesKilled   int    `json:"zombiesKilled"`
	PlayTimeSeconds int64  `json:"playTimeSeconds"`
	AchievedAt      int64  `json:"achievedAt"`
	Rank            int    `json:"rank"`
}

type boardPageResponse struct {
	Entries []boardEntryResponse `json:"entries"`
	Page    int                  `json:"page"`
	Size    int                  `json:"size"`
	Total   int                  `json:"total"`
}

type boardRankRequest struct {
	OwnerID string `json:"ownerId"`
}

// boardStandingResponse reports an owner's best result. Rank stays null
// until the owner has something on the board.
type boardStandingResponse struct {
	OwnerID      string `json:"ownerId"`
	PlayerName   string `json:"playerName"`
	HighestScore int    `json:"highestScore"`
	Rank         *int   `json:"rank"`
	WaveReached  int    `json:"waveReached"`
}

func (s *Server) handleBoardSubmit(ctx context.Context, data []byte) []byte {
	var req boardSubmitRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	res, err := s.board.Submit(ctx, req.OwnerID, leaderboard.Submission{
		Score:           req.Score,
		WaveReached:     req.WaveReached,
		ZombiesKilled:   req.ZombiesKilled,
		PlayTimeSeconds: req.PlayTimeSeconds,
	})
	if err != nil {
		return fail(err)
	}

	return ok(boardSubmitResponse{
		EntryID:  res.EntryID,
		Success:  true,
		Rank:     res.Rank,
		IsTopTen: res.IsTopTen,
		Message:  res.Message,
	})
}

func (s *Server) handleBoardTop(ctx context.Context, data []byte) []byte {
	var req boardTopRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	page, err := s.board.Top(ctx, req.Page, req.Size)
	if err != nil {
		return fail(err)
	}

	entries := make([]boardEntryResponse, 0, len(page.Entries))
	for _, e := range page.Entries {
		entries = append(entries, boardEntryResponse{
			ID:              e.ID,
			OwnerID:         e.OwnerID,
			PlayerName:      e.PlayerName,
			Score:           e.Score,
			WaveReached:     e.WaveReached,
			ZombiesKilled:   e.ZombiesKilled,
			PlayTimeSeconds: e.PlayTimeSeconds,
			AchievedAt:      e.AchievedAt.UnixMilli(),
			Rank:            e.Rank,
		})
	}

	return ok(boardPageResponse{
		Entries: entries,
		Page:    page.Page,
		Size:    page.Size,
		Total:   page.Total,
	})
}

func (s *Server) handleBoardRank(ctx context.Context, data []byte) []byte {
	var req boardRankRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(game.Reject("malformed request: %v", err))
	}

	standing, err := s.board.UserRank(ctx, req.OwnerID)
	if err != nil {
		return fail(err)
	}

	return ok(boardStandingResponse{
		OwnerID:      standing.OwnerID,
		PlayerName:   standing.PlayerName,
		HighestScore: standing.HighestScore,
		Rank:         standing.Rank,
		WaveReached:  standing.WaveReached,
	})
}
