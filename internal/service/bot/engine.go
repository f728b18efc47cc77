package bot

import (
	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// IsValidDifficulty reports whether d names a known bot level.
func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// CalculateBestMove selects a column for botPlayer, or -1 if none is playable.
// depth only applies to the hard level.
func CalculateBestMove(grid domain.Grid, botPlayer domain.Player, difficulty string, depth int) int {
	switch difficulty {
	case DifficultyEasy:
		return calculateEasyMove(grid, botPlayer)
	case DifficultyHard:
		return calculateMinimaxMove(grid, botPlayer, depth)
	default:
		return calculateMediumMove(grid, botPlayer)
	}
}

// winningColumns lists the columns where player wins immediately.
func winningColumns(grid domain.Grid, player domain.Player) []int {
	var cols []int
	for _, col := range domain.ValidColumns(grid) {
		next, _, _ := domain.SimulateMove(grid, col, player)
		if domain.HasLine(next, player) {
			cols = append(cols, col)
		}
	}
	return cols
}

func distanceFromCenter(col int) int {
	d := col - domain.Columns/2
	if d < 0 {
		return -d
	}
	return d
}
