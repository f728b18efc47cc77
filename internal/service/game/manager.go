package game

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/repository/redis"
	"github.com/iamasit07/dropfour/internal/service/bot"
	"github.com/iamasit07/dropfour/pkg/auth"
	"github.com/iamasit07/dropfour/pkg/uid"
)

// Mode selects who sits in seat B.
type Mode string

const (
	ModeLocal Mode = "local" // both colours from one browser
	ModeBot   Mode = "bot"   // browser is A, the bot is B
)

type GameRepository interface {
	SaveGame(ctx context.Context, rec domain.GameRecord) error
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
}

// Notifier fans a message out to everyone watching a game.
type Notifier interface {
	Broadcast(gameID string, msg domain.ServerMessage)
}

type TokenIssuer interface {
	Generate(gameID string, seat auth.Seat) (string, error)
}

type Options struct {
	BotMoveDelay time.Duration
	BotDepth     int
	SnapshotTTL  time.Duration
}

// GameSummary is the watch-list view of a live game.
type GameSummary struct {
	GameID        string            `json:"gameId"`
	Mode          Mode              `json:"mode"`
	BotDifficulty string            `json:"botDifficulty,omitempty"`
	MoveCount     int               `json:"moveCount"`
	CurrentPlayer domain.Player     `json:"currentPlayer"`
	Status        domain.GameStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// SessionManager manages active game sessions
type SessionManager struct {
	Session map[string]*GameSession // gameID → GameSession
	mu      sync.RWMutex

	repo     GameRepository  // nil when the archive is disabled
	cache    CacheRepository // nil when redis is unavailable
	notifier Notifier
	tokens   TokenIssuer
	opts     Options

	archives sync.WaitGroup
}

func NewSessionManager(repo GameRepository, cache CacheRepository, notifier Notifier, tokens TokenIssuer, opts Options) *SessionManager {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &SessionManager{
		Session:  make(map[string]*GameSession),
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		tokens:   tokens,
		opts:     opts,
	}
}

// CreateSession starts a new game and returns it with the creator's seat token.
func (sm *SessionManager) CreateSession(mode Mode, difficulty string) (*GameSession, string, error) {
	seat := auth.SeatAny
	switch mode {
	case ModeLocal:
		difficulty = ""
	case ModeBot:
		if difficulty == "" {
			difficulty = bot.DifficultyMedium
		}
		if !bot.IsValidDifficulty(difficulty) {
			return nil, "", domain.ErrInvalidDifficulty
		}
		seat = auth.SeatA
	default:
		return nil, "", domain.ErrInvalidMode
	}

	session := newGameSession(uid.GenerateGameID(), mode, difficulty, sm)
	token, err := sm.tokens.Generate(session.GameID, seat)
	if err != nil {
		return nil, "", err
	}

	sm.mu.Lock()
	sm.Session[session.GameID] = session
	sm.mu.Unlock()

	session.mu.Lock()
	session.storeSnapshotLocked()
	session.mu.Unlock()

	log.Printf("[SESSION] Created %s session %s (difficulty: %q)", mode, session.GameID, difficulty)
	return session, token, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.Session[gameID]
	if !exists {
		return domain.ErrGameNotFound
	}
	session.stopBot()
	delete(sm.Session, gameID)

	log.Printf("[SESSION] Removed session %s", gameID)
	return nil
}

// ActiveGames lists unfinished games, newest first.
func (sm *SessionManager) ActiveGames() []GameSummary {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	games := make([]GameSummary, 0, len(sessions))
	for _, s := range sessions {
		summary := s.Summary()
		if summary.Status == domain.StatusInProgress {
			games = append(games, summary)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	return games
}

// Snapshot returns the live state of a game, falling back to the cached
// snapshot once the session has been evicted from memory.
func (sm *SessionManager) Snapshot(ctx context.Context, gameID string) (domain.State, error) {
	if session, ok := sm.GetSession(gameID); ok {
		return session.State(), nil
	}

	snap, err := sm.loadSnapshot(ctx, gameID)
	if err != nil {
		return domain.State{}, err
	}
	return snap.State, nil
}

// ResumeSession returns the live session for gameID, rebuilding it from the
// cached snapshot when it has been evicted from memory.
func (sm *SessionManager) ResumeSession(ctx context.Context, gameID string) (*GameSession, error) {
	if session, ok := sm.GetSession(gameID); ok {
		return session, nil
	}

	snap, err := sm.loadSnapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}

	restored, err := domain.RestoreGame(snap.State)
	if err != nil || (snap.Mode != ModeLocal && snap.Mode != ModeBot) {
		log.Printf("[SESSION] Unusable snapshot for %s, dropping it", gameID)
		sm.dropSnapshot(ctx, gameID)
		return nil, domain.ErrGameNotFound
	}

	session := newGameSession(gameID, snap.Mode, snap.BotDifficulty, sm)
	session.game = restored
	session.CreatedAt = snap.CreatedAt
	session.FinishedAt = snap.FinishedAt
	session.Reason = snap.Reason
	if _, won := restored.HasWinner(); !won && snap.State.Status == domain.StatusWon {
		session.resignWinner = snap.State.Winner
	}

	sm.mu.Lock()
	if existing, ok := sm.Session[gameID]; ok {
		sm.mu.Unlock()
		return existing, nil
	}
	sm.Session[gameID] = session
	sm.mu.Unlock()

	session.mu.Lock()
	if session.IsBot() && !session.isFinishedLocked() && restored.CurrentPlayer() == domain.PlayerB {
		session.scheduleBotLocked()
	}
	session.mu.Unlock()

	log.Printf("[SESSION] Resumed session %s from snapshot (%d moves)", gameID, restored.MoveCount())
	return session, nil
}

// CleanupOldSessions evicts finished games after finishedTTL and abandoned
// ones after idle. It returns how many were removed.
func (sm *SessionManager) CleanupOldSessions(idle, finishedTTL time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	now := time.Now()

	for gameID, session := range sm.Session {
		if session.expired(now, idle, finishedTTL) {
			session.stopBot()
			delete(sm.Session, gameID)
			count++
		}
	}

	if count > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", count)
	}
	return count
}

// WaitForArchives blocks until pending archive writes have finished.
func (sm *SessionManager) WaitForArchives() {
	sm.archives.Wait()
}

// Saves game data to database in background to avoid blocking game_over messages
func (sm *SessionManager) saveGameAsync(rec domain.GameRecord) {
	if sm.repo == nil {
		return
	}

	sm.archives.Add(1)
	go func() {
		defer sm.archives.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, rec); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", rec.GameID, err)
		} else {
			log.Printf("[GAME] Game %s saved successfully", rec.GameID)
		}
	}()
}

// sessionSnapshot is the cached form of a session.
type sessionSnapshot struct {
	Mode          Mode         `json:"mode"`
	BotDifficulty string       `json:"botDifficulty,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	FinishedAt    time.Time    `json:"finishedAt"`
	Reason        string       `json:"reason,omitempty"`
	State         domain.State `json:"state"`
}

func (sm *SessionManager) storeSnapshot(gameID string, snap sessionSnapshot) {
	if sm.cache == nil {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[SESSION] Error encoding snapshot for %s: %v", gameID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sm.cache.Set(ctx, snapshotKey(gameID), data, sm.opts.SnapshotTTL); err != nil {
		log.Printf("[SESSION] Error caching snapshot for %s: %v", gameID, err)
	}
}

func (sm *SessionManager) loadSnapshot(ctx context.Context, gameID string) (sessionSnapshot, error) {
	var snap sessionSnapshot
	if sm.cache == nil {
		return snap, domain.ErrGameNotFound
	}

	data, err := sm.cache.Get(ctx, snapshotKey(gameID))
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			log.Printf("[SESSION] Error reading snapshot for %s: %v", gameID, err)
		}
		return snap, domain.ErrGameNotFound
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("[SESSION] Corrupt snapshot for %s: %v", gameID, err)
		sm.dropSnapshot(ctx, gameID)
		return sessionSnapshot{}, domain.ErrGameNotFound
	}
	return snap, nil
}

func (sm *SessionManager) dropSnapshot(ctx context.Context, gameID string) {
	if err := sm.cache.Del(ctx, snapshotKey(gameID)); err != nil {
		log.Printf("[SESSION] Error dropping snapshot for %s: %v", gameID, err)
	}
}

func snapshotKey(gameID string) string {
	return "game:" + gameID
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(string, domain.ServerMessage) {}
