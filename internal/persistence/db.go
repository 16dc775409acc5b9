// Package persistence provides SQLite-backed storage for players, game
// saves, and leaderboard entries.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/deadwatch/horde/internal/game"
)

// DB wraps a SQLite connection for service state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		last_seen_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_saves (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES players(id),
		game_state_json TEXT NOT NULL,
		wave_reached INTEGER NOT NULL,
		score INTEGER NOT NULL,
		saved_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leaderboard (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES players(id),
		score INTEGER NOT NULL,
		wave_reached INTEGER NOT NULL,
		zombies_killed INTEGER NOT NULL,
		play_time_seconds INTEGER NOT NULL,
		achieved_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_owner ON game_saves(owner_id);
	CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score DESC);
	CREATE INDEX IF NOT EXISTS idx_leaderboard_owner ON leaderboard(owner_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// PlayerRow is a row of the players table. Timestamps are unix milliseconds.
type PlayerRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	CreatedAt  int64  `db:"created_at"`
	LastSeenAt int64  `db:"last_seen_at"`
}

// InsertPlayer writes a new player row.
func (db *DB) InsertPlayer(ctx context.Context, row PlayerRow) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO players (id, name, created_at, last_seen_at) VALUES (?, ?, ?, ?)",
		row.ID, row.Name, row.CreatedAt, row.LastSeenAt,
	)
	if err != nil {
		return fmt.Errorf("insert player %s: %w", row.ID, err)
	}
	return nil
}

// GetPlayer reads a player row by id.
func (db *DB) GetPlayer(ctx context.Context, id string) (PlayerRow, error) {
	var row PlayerRow
	err := db.conn.GetContext(ctx, &row,
		"SELECT id, name, created_at, last_seen_at FROM players WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerRow{}, game.ErrPlayerNotFound
	}
	if err != nil {
		return PlayerRow{}, fmt.Errorf("get player %s: %w", id, err)
	}
	return row, nil
}

// TouchPlayer updates a player's last-seen timestamp.
func (db *DB) TouchPlayer(ctx context.Context, id string, at int64) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE players SET last_seen_at = ? WHERE id = ?", at, id)
	if err != nil {
		return fmt.Errorf("touch player %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return game.ErrPlayerNotFound
	}
	return nil
}

// SaveRow is a row of the game_saves table. SavedAt is unix milliseconds.
type SaveRow struct {
	ID          string `db:"id"`
	OwnerID     string `db:"owner_id"`
	StateJSON   string `db:"game_state_json"`
	WaveReached int    `db:"wave_reached"`
	Score       int    `db:"score"`
	SavedAt     int64  `db:"saved_at"`
}

// InsertSave appends a save row.
func (db *DB) InsertSave(ctx context.Context, row SaveRow) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO game_saves (id, owner_id, game_state_json, wave_reached, score, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		row.ID, row.OwnerID, row.StateJSON, row.WaveReached, row.Score, row.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("insert save %s: %w", row.ID, err)
	}
	return nil
}

// ReplaceLatestSave removes the owner's most recent save, if any, and inserts
// the given row in the same transaction.
func (db *DB) ReplaceLatestSave(ctx context.Context, row SaveRow) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM game_saves WHERE id IN (
			SELECT id FROM game_saves WHERE owner_id = ?
			ORDER BY saved_at DESC, rowid DESC LIMIT 1
		)`, row.OwnerID)
	if err != nil {
		return fmt.Errorf("drop latest save for %s: %w", row.OwnerID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO game_saves (id, owner_id, game_state_json, wave_reached, score, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		row.ID, row.OwnerID, row.StateJSON, row.WaveReached, row.Score, row.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("insert save %s: %w", row.ID, err)
	}

	return tx.Commit()
}

// GetSave reads a save row scoped to its owner. A save belonging to a
// different owner reads the same as a missing one.
func (db *DB) GetSave(ctx context.Context, id, ownerID string) (SaveRow, error) {
	var row SaveRow
	err := db.conn.GetContext(ctx, &row,
		`SELECT id, owner_id, game_state_json, wave_reached, score, saved_at
		 FROM game_saves WHERE id = ? AND owner_id = ?`, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return SaveRow{}, game.ErrSaveNotFound
	}
	if err != nil {
		return SaveRow{}, fmt.Errorf("get save %s: %w", id, err)
	}
	return row, nil
}

// ListSaves reads an owner's save rows most recent first, without the state
// document.
func (db *DB) ListSaves(ctx context.Context, ownerID string) ([]SaveRow, error) {
	var rows []SaveRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT id, owner_id, wave_reached, score, saved_at
		 FROM game_saves WHERE owner_id = ?
		 ORDER BY saved_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list saves for %s: %w", ownerID, err)
	}
	return rows, nil
}

// DeleteSave removes a save row scoped to its owner.
func (db *DB) DeleteSave(ctx context.Context, id, ownerID string) error {
	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM game_saves WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete save %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return game.ErrSaveNotFound
	}
	return nil
}

// EntryRow is a row of the leaderboard table. PlayerName and Rank are filled
// only by queries that compute them. AchievedAt is unix milliseconds.
type EntryRow struct {
	ID              string `db:"id"`
	OwnerID         string `db:"owner_id"`
	PlayerName      string `db:"player_name"`
	Score           int    `db:"score"`
	WaveReached     int    `db:"wave_reached"`
	ZombiesKilled   int    `db:"zombies_killed"`
	PlayTimeSeconds int64  `db:"play_time_seconds"`
	AchievedAt      int64  `db:"achieved_at"`
	Rank            int    `db:"player_rank"`
}

// InsertEntry appends a leaderboard row.
func (db *DB) InsertEntry(ctx context.Context, row EntryRow) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO leaderboard (id, owner_id, score, wave_reached, zombies_killed, play_time_seconds, achieved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.OwnerID, row.Score, row.WaveReached, row.ZombiesKilled, row.PlayTimeSeconds, row.AchievedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", row.ID, err)
	}
	return nil
}

// CountHigherScores returns how many entries beat the given score.
func (db *DB) CountHigherScores(ctx context.Context, score int) (int, error) {
	var count int
	err := db.conn.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM leaderboard WHERE score > ?", score)
	if err != nil {
		return 0, fmt.Errorf("count higher scores: %w", err)
	}
	return count, nil
}

// CountEntries returns the total number of leaderboard entries.
func (db *DB) CountEntries(ctx context.Context) (int, error) {
	var count int
	err := db.conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM leaderboard")
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// TopEntries reads a page of entries ordered by score descending, ties going
// to the earlier achievement. Each row carries the player name and its dense
// rank.
func (db *DB) TopEntries(ctx context.Context, limit, offset int) ([]EntryRow, error) {
	var rows []EntryRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT l.id, l.owner_id, p.name AS player_name, l.score, l.wave_reached,
		        l.zombies_killed, l.play_time_seconds, l.achieved_at,
		        (SELECT COUNT(*) FROM leaderboard h WHERE h.score > l.score) + 1 AS player_rank
		 FROM leaderboard l
		 JOIN players p ON p.id = l.owner_id
		 ORDER BY l.score DESC, l.achieved_at ASC, l.rowid ASC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("top entries: %w", err)
	}
	return rows, nil
}

// BestEntry reads an owner's highest-scoring entry.
func (db *DB) BestEntry(ctx context.Context, ownerID string) (EntryRow, error) {
	var row EntryRow
	err := db.conn.GetContext(ctx, &row,
		`SELECT l.id, l.owner_id, p.name AS player_name, l.score, l.wave_reached,
		        l.zombies_killed, l.play_time_seconds, l.achieved_at
		 FROM leaderboard l
		 JOIN players p ON p.id = l.owner_id
		 WHERE l.owner_id = ?
		 ORDER BY l.score DESC, l.achieved_at ASC LIMIT 1`, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return EntryRow{}, game.ErrEntryNotFound
	}
	if err != nil {
		return EntryRow{}, fmt.Errorf("best entry for %s: %w", ownerID, err)
	}
	return row, nil
}
