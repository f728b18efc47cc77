package domain

import "time"

// GameRecord is the archived outcome of a finished game.
type GameRecord struct {
	GameID          string    `json:"gameId"`
	Mode            string    `json:"mode"`
	BotDifficulty   string    `json:"botDifficulty,omitempty"`
	Winner          Player    `json:"winner"` // Empty for a draw
	Reason          string    `json:"reason"`
	TotalMoves      int       `json:"totalMoves"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	Board           Grid      `json:"board"`
}
