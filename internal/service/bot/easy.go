package bot

import (
	"math/rand"

	"github.com/iamasit07/dropfour/internal/domain"
)

// calculateEasyMove wins if it can, blocks if it must, otherwise plays anywhere.
func calculateEasyMove(grid domain.Grid, botPlayer domain.Player) int {
	validColumns := domain.ValidColumns(grid)
	if len(validColumns) == 0 {
		return -1
	}

	if wins := winningColumns(grid, botPlayer); len(wins) > 0 {
		return wins[0]
	}
	if blocks := winningColumns(grid, botPlayer.Opponent()); len(blocks) > 0 {
		return blocks[0]
	}

	return validColumns[rand.Intn(len(validColumns))]
}
