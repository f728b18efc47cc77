package bot

import (
	"math"

	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	MINIMAX_DEFAULT_DEPTH = 6
	MINIMAX_WIN           = 1000000
	MINIMAX_LOSS          = -1000000
)

// calculateMinimaxMove searches depth plies with alpha-beta pruning.
func calculateMinimaxMove(grid domain.Grid, botPlayer domain.Player, depth int) int {
	validColumns := orderedColumns(grid)
	if len(validColumns) == 0 {
		return -1
	}
	if depth <= 0 {
		depth = MINIMAX_DEFAULT_DEPTH
	}

	opponent := botPlayer.Opponent()
	bestCol := validColumns[0]
	bestScore := math.MinInt32
	alpha := math.MinInt32
	beta := math.MaxInt32

	for _, col := range validColumns {
		next, _, _ := domain.SimulateMove(grid, col, botPlayer)

		// If this move wins immediately, take it
		if domain.HasLine(next, botPlayer) {
			return col
		}

		score := minimax(next, depth-1, depth, alpha, beta, false, botPlayer, opponent)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}

	return bestCol
}

func minimax(grid domain.Grid, depth, maxDepth int, alpha, beta int, isMaximizing bool, botPlayer, opponent domain.Player) int {
	validColumns := orderedColumns(grid)

	if depth == 0 || len(validColumns) == 0 {
		return evaluateBoard(grid, botPlayer)
	}

	if isMaximizing {
		maxEval := math.MinInt32
		for _, col := range validColumns {
			next, _, _ := domain.SimulateMove(grid, col, botPlayer)
			if domain.HasLine(next, botPlayer) {
				return MINIMAX_WIN - (maxDepth - depth) // prefer quicker wins
			}

			eval := minimax(next, depth-1, maxDepth, alpha, beta, false, botPlayer, opponent)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, col := range validColumns {
		next, _, _ := domain.SimulateMove(grid, col, opponent)
		if domain.HasLine(next, opponent) {
			return MINIMAX_LOSS + (maxDepth - depth) // prefer delaying losses
		}

		eval := minimax(next, depth-1, maxDepth, alpha, beta, true, botPlayer, opponent)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}

// orderedColumns visits centre columns first, which prunes far more.
func orderedColumns(grid domain.Grid) []int {
	cols := domain.ValidColumns(grid)
	ordered := make([]int, 0, len(cols))
	for d := 0; d <= domain.Columns/2; d++ {
		for _, c := range cols {
			if distanceFromCenter(c) == d {
				ordered = append(ordered, c)
			}
		}
	}
	return ordered
}
