package domain

// Line is one straight run of cells along an axis, in walk order.
type Line struct {
	Axis  Axis       `json:"axis"`
	Cells []Position `json:"cells"`
}

// lines is every row, column and diagonal long enough to hold ToWin pieces,
// ordered horizontal, vertical, ascending, descending.
var lines = buildLines()

// Lines returns the scan lines. Callers must not modify them.
func Lines() []Line {
	return lines
}

func buildLines() []Line {
	var out []Line

	for r := 0; r < Rows; r++ {
		out = appendWalk(out, AxisHorizontal, Position{Column: 0, Row: r}, 1, 0)
	}
	for c := 0; c < Columns; c++ {
		out = appendWalk(out, AxisVertical, Position{Column: c, Row: 0}, 0, 1)
	}

	// Ascending diagonals start on the left edge or the bottom edge.
	for r := Rows - 1; r >= 0; r-- {
		out = appendWalk(out, AxisAscending, Position{Column: 0, Row: r}, 1, 1)
	}
	for c := 1; c < Columns; c++ {
		out = appendWalk(out, AxisAscending, Position{Column: c, Row: 0}, 1, 1)
	}

	// Descending diagonals start on the left edge or the top edge.
	for r := 0; r < Rows; r++ {
		out = appendWalk(out, AxisDescending, Position{Column: 0, Row: r}, 1, -1)
	}
	for c := 1; c < Columns; c++ {
		out = appendWalk(out, AxisDescending, Position{Column: c, Row: Rows - 1}, 1, -1)
	}

	return out
}

// appendWalk walks from start by (dCol, dRow) while in bounds and keeps the
// line only if it can contain a win.
func appendWalk(out []Line, axis Axis, start Position, dCol, dRow int) []Line {
	var buf [max(Columns, Rows)]Position
	n := 0
	for p := start; p.inBounds(); p = (Position{Column: p.Column + dCol, Row: p.Row + dRow}) {
		buf[n] = p
		n++
	}
	if n < ToWin {
		return out
	}
	cells := make([]Position, n)
	copy(cells, buf[:n])
	return append(out, Line{Axis: axis, Cells: cells})
}

// scanLine counts consecutive cells of player, resetting on any break, and
// stops the moment the run reaches ToWin. It returns the index of the cell
// that completed the run.
func scanLine(grid Grid, line Line, player Player) (int, bool) {
	count := 0
	for i, p := range line.Cells {
		if grid[p.Column][p.Row] == player {
			count++
			if count >= ToWin {
				return i, true
			}
		} else {
			count = 0
		}
	}
	return -1, false
}

// FindLine returns the first winning run for player, trimmed to ToWin cells.
func FindLine(grid Grid, player Player) (Line, bool) {
	if player != PlayerA && player != PlayerB {
		return Line{}, false
	}
	for _, line := range lines {
		end, ok := scanLine(grid, line, player)
		if !ok {
			continue
		}
		cells := make([]Position, ToWin)
		copy(cells, line.Cells[end-ToWin+1:end+1])
		return Line{Axis: line.Axis, Cells: cells}, true
	}
	return Line{}, false
}

// HasLine reports whether player owns ToWin consecutive cells on any axis.
func HasLine(grid Grid, player Player) bool {
	_, ok := FindLine(grid, player)
	return ok
}

// DetectWinner checks the player who just moved before the opponent, so a
// fresh win is never masked by a line the opponent already had.
func DetectWinner(grid Grid, mover Player) (Player, bool) {
	if HasLine(grid, mover) {
		return mover, true
	}
	if opp := mover.Opponent(); opp != Empty && HasLine(grid, opp) {
		return opp, true
	}
	return Empty, false
}
