package bot

import (
	"github.com/iamasit07/dropfour/internal/domain"
)

func calculateMediumMove(grid domain.Grid, botPlayer domain.Player) int {
	validColumns := domain.ValidColumns(grid)
	if len(validColumns) == 0 {
		return -1
	}

	opponent := botPlayer.Opponent()
	scores := make(map[int]int, len(validColumns))
	currentOpponentThreat := evaluateWinningThreat(grid, opponent)

	for _, col := range validColumns {
		botGrid, _, _ := domain.SimulateMove(grid, col, botPlayer)
		oppGrid, _, _ := domain.SimulateMove(grid, col, opponent)

		// Immediate wins and blocks dominate everything else.
		if domain.HasLine(botGrid, botPlayer) {
			scores[col] += SCORE_WIN_NOW
		}
		if domain.HasLine(oppGrid, opponent) {
			scores[col] += SCORE_BLOCK_WIN
		}

		scores[col] += evaluateWinningThreat(botGrid, botPlayer)

		// Never hand the opponent a win by filling the cell under it.
		if len(winningColumns(botGrid, opponent)) > 0 && !domain.HasLine(botGrid, botPlayer) {
			scores[col] -= SCORE_BLOCK_WIN
		}
		if evaluateWinningThreat(botGrid, opponent) < currentOpponentThreat {
			scores[col] += SCORE_BLOCK_WIN_THREAT
		}

		scores[col] += evaluateBoard(botGrid, botPlayer)

		switch distanceFromCenter(col) {
		case 0:
			scores[col] += SCORE_CENTER
		case 1:
			scores[col] += SCORE_NEAR_CENTER
		default:
			scores[col] += SCORE_EDGE
		}
	}

	return findBestColumn(scores)
}

// findBestColumn picks the highest score, breaking ties toward the centre.
func findBestColumn(scores map[int]int) int {
	bestColumn := -1
	bestScore := 0

	for col := 0; col < domain.Columns; col++ {
		score, exists := scores[col]
		if !exists {
			continue
		}
		if bestColumn == -1 || score > bestScore ||
			(score == bestScore && distanceFromCenter(col) < distanceFromCenter(bestColumn)) {
			bestColumn = col
			bestScore = score
		}
	}

	return bestColumn
}
