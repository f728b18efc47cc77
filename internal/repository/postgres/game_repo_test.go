package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/dropfour/internal/domain"
)

func newMockRepo(t *testing.T) (*GameRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGameRepo(db), mock
}

func sampleRecord() domain.GameRecord {
	g := domain.NewGame()
	for _, c := range []int{1, 2, 1, 2, 1, 2, 1} {
		g.PlacePiece(c)
	}
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return domain.GameRecord{
		GameID:          "g1",
		Mode:            "local",
		Winner:          domain.PlayerA,
		Reason:          domain.ReasonFourInARow,
		TotalMoves:      g.MoveCount(),
		DurationSeconds: 42,
		CreatedAt:       created,
		FinishedAt:      created.Add(42 * time.Second),
		Board:           g.Grid(),
	}
}

var gameColumns = []string{
	"game_id", "mode", "bot_difficulty", "winner", "reason", "total_moves",
	"duration_seconds", "created_at", "finished_at", "board_state",
}

func TestSaveGame(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()
	board, _ := json.Marshal(domain.ToInts(rec.Board))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO games")).
		WithArgs(rec.GameID, rec.Mode, "", sql.NullInt16{Int16: 1, Valid: true}, rec.Reason,
			7, 42, rec.CreatedAt, rec.FinishedAt, board).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveGame(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDrawStoresNullWinner(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()
	rec.Winner = domain.Empty
	rec.Reason = domain.ReasonDraw

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO games")).
		WithArgs(rec.GameID, rec.Mode, "", sql.NullInt16{}, rec.Reason,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveGame(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()
	board, _ := json.Marshal(domain.ToInts(rec.Board))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE game_id = $1")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(gameColumns).AddRow(
			rec.GameID, rec.Mode, "", int64(1), rec.Reason, rec.TotalMoves,
			rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt, board))

	got, err := repo.GetGameByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE game_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(gameColumns))

	_, err := repo.GetGameByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestListRecentGames(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()
	board, _ := json.Marshal(domain.ToInts(rec.Board))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY finished_at DESC LIMIT $1")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(gameColumns).
			AddRow("g2", "bot", "hard", nil, domain.ReasonDraw, 25, 90, rec.CreatedAt, rec.FinishedAt, board).
			AddRow(rec.GameID, rec.Mode, "", int64(1), rec.Reason, 7, 42, rec.CreatedAt, rec.FinishedAt, board))

	games, err := repo.ListRecentGames(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "g2", games[0].GameID)
	assert.Equal(t, domain.Empty, games[0].Winner)
	assert.Equal(t, "hard", games[0].BotDifficulty)
	assert.Equal(t, domain.PlayerA, games[1].Winner)
}

func TestListRecentGamesRejectsCorruptBoard(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY finished_at DESC")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(gameColumns).
			AddRow(rec.GameID, rec.Mode, "", nil, rec.Reason, 7, 42, rec.CreatedAt, rec.FinishedAt, []byte(`[[1]]`)))

	_, err := repo.ListRecentGames(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
}

func TestDeleteGamesOlderThan(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM games")).
		WithArgs(30).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteGamesOlderThan(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRunMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS games")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, RunMigrations(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("sqlite", "file::memory:", 1, 1, 1)
	assert.Error(t, err)
}
