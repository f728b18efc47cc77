package game

import (
	"log"
	"sync"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/service/bot"
	"github.com/iamasit07/dropfour/pkg/auth"
)

// GameSession wraps one engine. The engine is single-threaded; every access
// goes through mu.
type GameSession struct {
	GameID        string
	Mode          Mode
	BotDifficulty string
	CreatedAt     time.Time
	FinishedAt    time.Time
	Reason        string

	game         *domain.Game
	resignWinner domain.Player // set when a game ends by resignation
	lastActivity time.Time
	botTimer     *time.Timer
	mu           sync.Mutex
	manager      *SessionManager
}

func newGameSession(gameID string, mode Mode, difficulty string, sm *SessionManager) *GameSession {
	now := time.Now()
	return &GameSession{
		GameID:        gameID,
		Mode:          mode,
		BotDifficulty: difficulty,
		CreatedAt:     now,
		game:          domain.NewGame(),
		lastActivity:  now,
		manager:       sm,
	}
}

func (gs *GameSession) IsBot() bool {
	return gs.Mode == ModeBot
}

func (gs *GameSession) State() domain.State {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.stateLocked()
}

func (gs *GameSession) Summary() GameSummary {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	state := gs.stateLocked()
	return GameSummary{
		GameID:        gs.GameID,
		Mode:          gs.Mode,
		BotDifficulty: gs.BotDifficulty,
		MoveCount:     state.MoveCount,
		CurrentPlayer: state.CurrentPlayer,
		Status:        state.Status,
		CreatedAt:     gs.CreatedAt,
	}
}

// HandleMove places a piece for the player to move. A move into a full column
// or a decided game returns the unchanged state and no error.
func (gs *GameSession) HandleMove(seat auth.Seat, column int) (domain.State, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if !domain.IsValidColumn(column) {
		return gs.stateLocked(), domain.ErrInvalidColumn
	}
	if gs.isFinishedLocked() {
		return gs.stateLocked(), nil
	}
	if gs.IsBot() && seat != auth.SeatA {
		return gs.stateLocked(), domain.ErrNotYourTurn
	}
	if !seatMayMove(seat, gs.game.CurrentPlayer()) {
		return gs.stateLocked(), domain.ErrNotYourTurn
	}

	return gs.applyMoveLocked(column)
}

// applyMoveLocked runs one placement through the engine and publishes the
// outcome if it changed the board.
func (gs *GameSession) applyMoveLocked(column int) (domain.State, error) {
	before := gs.game.MoveCount()
	state, err := gs.game.PlacePiece(column)
	if err != nil {
		return state, err
	}
	if state.MoveCount == before {
		return state, nil
	}

	gs.lastActivity = time.Now()
	gs.manager.notifier.Broadcast(gs.GameID, domain.ServerMessage{
		Type:   domain.MsgMoveMade,
		GameID: gs.GameID,
		Move:   state.LastMove,
		State:  &state,
	})

	switch state.Status {
	case domain.StatusWon:
		gs.finishLocked(state.Winner, domain.ReasonFourInARow)
	case domain.StatusDraw:
		gs.finishLocked(domain.Empty, domain.ReasonDraw)
	default:
		gs.storeSnapshotLocked()
		if gs.IsBot() && state.CurrentPlayer == domain.PlayerB {
			gs.scheduleBotLocked()
		}
	}

	return state, nil
}

// Rematch resets the board in place. The game ID and seat tokens stay valid.
func (gs *GameSession) Rematch() domain.State {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.stopBotLocked()
	gs.game.Reset()
	gs.resignWinner = domain.Empty
	gs.Reason = ""
	gs.CreatedAt = time.Now()
	gs.FinishedAt = time.Time{}
	gs.lastActivity = gs.CreatedAt

	state := gs.stateLocked()
	log.Printf("[REMATCH] Game %s reset", gs.GameID)
	gs.manager.notifier.Broadcast(gs.GameID, domain.ServerMessage{
		Type:   domain.MsgGameStart,
		GameID: gs.GameID,
		State:  &state,
	})
	gs.storeSnapshotLocked()
	return state
}

// Resign ends the game in favour of the resigning player's opponent. With a
// hot-seat token the player to move resigns.
func (gs *GameSession) Resign(seat auth.Seat) (domain.State, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.isFinishedLocked() {
		return gs.stateLocked(), domain.ErrGameOver
	}

	loser := gs.game.CurrentPlayer()
	switch seat {
	case auth.SeatA:
		loser = domain.PlayerA
	case auth.SeatB:
		loser = domain.PlayerB
	}

	gs.stopBotLocked()
	gs.resignWinner = loser.Opponent()
	log.Printf("[TERMINATE] Player %s resigned game %s", loser, gs.GameID)
	gs.finishLocked(gs.resignWinner, domain.ReasonResign)
	return gs.stateLocked(), nil
}

func (gs *GameSession) finishLocked(winner domain.Player, reason string) {
	gs.FinishedAt = time.Now()
	gs.Reason = reason
	gs.lastActivity = gs.FinishedAt

	state := gs.stateLocked()
	gs.manager.notifier.Broadcast(gs.GameID, domain.ServerMessage{
		Type:   domain.MsgGameOver,
		GameID: gs.GameID,
		Winner: winner,
		Reason: reason,
		State:  &state,
	})
	gs.storeSnapshotLocked()

	gs.manager.saveGameAsync(domain.GameRecord{
		GameID:          gs.GameID,
		Mode:            string(gs.Mode),
		BotDifficulty:   gs.BotDifficulty,
		Winner:          winner,
		Reason:          reason,
		TotalMoves:      state.MoveCount,
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
		Board:           state.Board,
	})
	log.Printf("[GAME] Game %s over: winner=%s reason=%s", gs.GameID, winner, reason)
}

func (gs *GameSession) scheduleBotLocked() {
	gs.stopBotLocked()
	gs.botTimer = time.AfterFunc(gs.manager.opts.BotMoveDelay, gs.playBotMove)
}

func (gs *GameSession) playBotMove() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	// the game may have been reset or resigned while the timer was pending
	if !gs.IsBot() || gs.isFinishedLocked() || gs.game.CurrentPlayer() != domain.PlayerB {
		return
	}

	column := bot.CalculateBestMove(gs.game.Grid(), domain.PlayerB, gs.BotDifficulty, gs.manager.opts.BotDepth)
	if column < 0 {
		return
	}
	if _, err := gs.applyMoveLocked(column); err != nil {
		log.Printf("[BOT] Error handling bot move in %s: %v", gs.GameID, err)
		return
	}
	if move, ok := gs.game.LastMove(); ok {
		log.Printf("[BOT] Game %s: bot (%s) played column %d row %d", gs.GameID, gs.BotDifficulty, move.Column, move.Row)
	}
}

func (gs *GameSession) stopBot() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.stopBotLocked()
}

func (gs *GameSession) stopBotLocked() {
	if gs.botTimer != nil {
		gs.botTimer.Stop()
		gs.botTimer = nil
	}
}

func (gs *GameSession) stateLocked() domain.State {
	state := gs.game.State()
	if gs.resignWinner != domain.Empty {
		state.Winner = gs.resignWinner
		state.Status = domain.StatusWon
	}
	return state
}

func (gs *GameSession) isFinishedLocked() bool {
	return gs.resignWinner != domain.Empty || gs.game.IsFinished()
}

func (gs *GameSession) storeSnapshotLocked() {
	gs.manager.storeSnapshot(gs.GameID, sessionSnapshot{
		Mode:          gs.Mode,
		BotDifficulty: gs.BotDifficulty,
		CreatedAt:     gs.CreatedAt,
		FinishedAt:    gs.FinishedAt,
		Reason:        gs.Reason,
		State:         gs.stateLocked(),
	})
}

func (gs *GameSession) expired(now time.Time, idle, finishedTTL time.Duration) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.isFinishedLocked() {
		return now.Sub(gs.FinishedAt) > finishedTTL
	}
	return now.Sub(gs.lastActivity) > idle
}

func seatMayMove(seat auth.Seat, current domain.Player) bool {
	switch seat {
	case auth.SeatAny:
		return true
	case auth.SeatA:
		return current == domain.PlayerA
	case auth.SeatB:
		return current == domain.PlayerB
	}
	return false
}
