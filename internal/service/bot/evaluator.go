package bot

import (
	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	SCORE_WIN_NOW           = 100000
	SCORE_BLOCK_WIN         = 10000
	SCORE_CREATE_WIN_THREAT = 8000
	SCORE_BLOCK_WIN_THREAT  = 5000
	SCORE_CENTER            = 30
	SCORE_NEAR_CENTER       = 20
	SCORE_EDGE              = 5

	WINDOW_THREE = 50
	WINDOW_TWO   = 10
	WINDOW_ONE   = 1
	CENTER_CELL  = 3
)

// evaluateBoard scores a position from botPlayer's point of view by sliding a
// ToWin-sized window along every scan line. A window only counts for a
// player if the opponent has no piece in it.
func evaluateBoard(grid domain.Grid, botPlayer domain.Player) int {
	opponent := botPlayer.Opponent()
	score := 0

	for _, line := range domain.Lines() {
		for start := 0; start+domain.ToWin <= len(line.Cells); start++ {
			mine, theirs := 0, 0
			for _, p := range line.Cells[start : start+domain.ToWin] {
				switch grid[p.Column][p.Row] {
				case botPlayer:
					mine++
				case opponent:
					theirs++
				}
			}
			score += windowScore(mine, theirs) - windowScore(theirs, mine)
		}
	}

	center := domain.Columns / 2
	for row := 0; row < domain.Rows; row++ {
		switch grid[center][row] {
		case botPlayer:
			score += CENTER_CELL
		case opponent:
			score -= CENTER_CELL
		}
	}

	return score
}

func windowScore(own, other int) int {
	if other > 0 {
		return 0
	}
	switch own {
	case 3:
		return WINDOW_THREE
	case 2:
		return WINDOW_TWO
	case 1:
		return WINDOW_ONE
	}
	return 0
}

// evaluateWinningThreat rates how forcing player's position is: two or more
// immediate wins cannot both be blocked.
func evaluateWinningThreat(grid domain.Grid, player domain.Player) int {
	wins := winningColumns(grid, player)

	if len(wins) >= 2 {
		return SCORE_CREATE_WIN_THREAT
	}

	if len(wins) == 1 {
		// After the block, does player still have a winning drop?
		blocked, _, _ := domain.SimulateMove(grid, wins[0], player.Opponent())
		if len(winningColumns(blocked, player)) > 0 {
			return SCORE_CREATE_WIN_THREAT / 2
		}
		return SCORE_CREATE_WIN_THREAT / 4
	}

	return 0
}
