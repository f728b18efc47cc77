package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/dropfour/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame archives a finished game. Saving the same game twice overwrites
// the outcome, so a rematch that reuses the ID keeps only the latest result.
func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	boardJSON, err := json.Marshal(domain.ToInts(rec.Board))
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	query := `
	INSERT INTO games (game_id, mode, bot_difficulty, winner, reason, total_moves, duration_seconds, created_at, finished_at, board_state)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		created_at = EXCLUDED.created_at,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.Mode, rec.BotDifficulty, nullableWinner(rec.Winner), rec.Reason,
		rec.TotalMoves, rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt, boardJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

const selectGameColumns = `
	SELECT game_id, mode, bot_difficulty, winner, reason, total_moves,
	       duration_seconds, created_at, finished_at, board_state
	FROM games`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (domain.GameRecord, error) {
	var rec domain.GameRecord
	var winner sql.NullInt16
	var boardJSON []byte

	err := row.Scan(
		&rec.GameID,
		&rec.Mode,
		&rec.BotDifficulty,
		&winner,
		&rec.Reason,
		&rec.TotalMoves,
		&rec.DurationSeconds,
		&rec.CreatedAt,
		&rec.FinishedAt,
		&boardJSON,
	)
	if err != nil {
		return rec, err
	}

	if winner.Valid {
		rec.Winner = domain.Player(winner.Int16)
	}

	var cells [][]int
	if err := json.Unmarshal(boardJSON, &cells); err != nil {
		return rec, fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	if rec.Board, err = domain.FromInts(cells); err != nil {
		return rec, fmt.Errorf("stored board for game %s: %w", rec.GameID, err)
	}
	return rec, nil
}

// GetGameByID returns the archived game, or domain.ErrGameNotFound.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	row := r.DB.QueryRowContext(ctx, selectGameColumns+` WHERE game_id = $1;`, gameID)

	rec, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return &rec, nil
}

// ListRecentGames returns the latest finished games, newest first.
func (r *GameRepo) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	rows, err := r.DB.QueryContext(ctx, selectGameColumns+` ORDER BY finished_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, rec)
	}
	return games, rows.Err()
}

// DeleteGamesOlderThan prunes the archive and returns the number of rows removed.
func (r *GameRepo) DeleteGamesOlderThan(ctx context.Context, days int) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM games WHERE finished_at < NOW() - make_interval(days => $1);`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old games: %w", err)
	}
	return res.RowsAffected()
}

func nullableWinner(p domain.Player) sql.NullInt16 {
	if p == domain.Empty {
		return sql.NullInt16{}
	}
	return sql.NullInt16{Int16: int16(p), Valid: true}
}
