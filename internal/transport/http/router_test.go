package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/dropfour/internal/domain"
	cacherepo "github.com/iamasit07/dropfour/internal/repository/redis"
	"github.com/iamasit07/dropfour/internal/service/game"
	"github.com/iamasit07/dropfour/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeArchive struct {
	games []domain.GameRecord
	limit int
}

func (f *fakeArchive) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	for _, g := range f.games {
		if g.GameID == gameID {
			return &g, nil
		}
	}
	return nil, domain.ErrGameNotFound
}

func (f *fakeArchive) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	f.limit = limit
	return f.games, nil
}

type testServer struct {
	engine *gin.Engine
	tokens *auth.SeatTokens
	sm     *game.SessionManager
}

func newTestServer(t *testing.T, archive GameArchive) *testServer {
	t.Helper()
	return newTestServerWithCache(t, archive, nil)
}

func newTestServerWithCache(t *testing.T, archive GameArchive, cache game.CacheRepository) *testServer {
	t.Helper()
	tokens := auth.NewSeatTokens("test-secret", time.Hour)
	sm := game.NewSessionManager(nil, cache, nil, tokens, game.Options{BotMoveDelay: time.Hour, BotDepth: 2, SnapshotTTL: time.Hour})
	rt := Router{
		Games:   NewGameHandler(sm, false, time.Hour),
		History: NewHistoryHandler(archive),
		Watch:   NewWatchHandler(sm),
		Seats:   tokens,
	}
	return &testServer{engine: rt.Engine(), tokens: tokens, sm: sm}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) create(t *testing.T, mode string) createGameResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/games", "", gin.H{"mode": mode})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp createGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) domain.State {
	t.Helper()
	var s domain.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestCreateGame(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/games", "", gin.H{"mode": "local"})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp createGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.GameID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.StatusInProgress, resp.State.Status)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "seat_"+resp.GameID+"=")

	w = s.do(t, http.MethodPost, "/api/games", "", nil)
	assert.Equal(t, http.StatusCreated, w.Code, "empty body defaults to a local game")

	w = s.do(t, http.MethodPost, "/api/games", "", gin.H{"mode": "ranked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/games", "", gin.H{"mode": "bot", "difficulty": "godlike"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMakeMoveStatusCodes(t *testing.T) {
	s := newTestServer(t, nil)
	g := s.create(t, "local")
	movePath := "/api/games/" + g.GameID + "/moves"

	w := s.do(t, http.MethodPost, movePath, "", gin.H{"column": 0})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for i := 0; i < domain.Rows; i++ {
		w = s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": 0})
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, domain.Rows, decodeState(t, w).MoveCount)

	// full column is a silent no-op
	w = s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Rows, decodeState(t, w).MoveCount)

	w = s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": domain.Columns})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, movePath, g.Token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/games/"+g.GameID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Rows, decodeState(t, w).MoveCount)
}

func TestMakeMoveOutOfTurnInBotGame(t *testing.T) {
	s := newTestServer(t, nil)
	g := s.create(t, "bot")
	movePath := "/api/games/" + g.GameID + "/moves"

	w := s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": 2})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NoError(t, s.sm.RemoveSession(g.GameID))
}

func TestUnknownGame(t *testing.T) {
	s := newTestServer(t, nil)
	token, err := s.tokens.Generate("missing", auth.SeatAny)
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/games/missing/moves", token, gin.H{"column": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/games/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoveResumesEvictedGame(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := newTestServerWithCache(t, nil, cacherepo.NewRedisCache(client))
	g := s.create(t, "local")
	movePath := "/api/games/" + g.GameID + "/moves"

	w := s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, s.sm.RemoveSession(g.GameID))

	w = s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decodeState(t, w)
	assert.Equal(t, 2, state.MoveCount)
	assert.Equal(t, domain.PlayerB, state.Board[3][1])

	_, ok := s.sm.GetSession(g.GameID)
	assert.True(t, ok)

	require.NoError(t, mr.Set("game:"+g.GameID, "not json"))
	require.NoError(t, s.sm.RemoveSession(g.GameID))
	w = s.do(t, http.MethodPost, movePath, g.Token, gin.H{"column": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, mr.Exists("game:"+g.GameID))
}

func TestResignAndRematch(t *testing.T) {
	s := newTestServer(t, nil)
	g := s.create(t, "local")
	base := "/api/games/" + g.GameID

	w := s.do(t, http.MethodPost, base+"/moves", g.Token, gin.H{"column": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, base+"/resign", g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.Equal(t, domain.StatusWon, state.Status)
	assert.Equal(t, domain.PlayerA, state.Winner)

	w = s.do(t, http.MethodPost, base+"/resign", g.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/watch", "", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodPost, base+"/rematch", g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeState(t, w).MoveCount)

	w = s.do(t, http.MethodGet, "/api/watch", "", nil)
	var live []game.GameSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &live))
	require.Len(t, live, 1)
	assert.Equal(t, g.GameID, live[0].GameID)
}

func TestHistoryDisabled(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/api/history", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/api/history/x", "", nil).Code)
}

func TestHistory(t *testing.T) {
	archive := &fakeArchive{games: []domain.GameRecord{{GameID: "g1", Mode: "local", Winner: domain.PlayerB, Reason: domain.ReasonFourInARow}}}
	s := newTestServer(t, archive)

	w := s.do(t, http.MethodGet, "/api/history?limit=500", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxHistoryLimit, archive.limit)
	var games []domain.GameRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, domain.PlayerB, games[0].Winner)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/history?limit=abc", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/history/g1", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/history/g2", "", nil).Code)
}
