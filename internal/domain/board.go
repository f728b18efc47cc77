package domain

func IsValidColumn(column int) bool {
	return column >= 0 && column < Columns
}

// IsColumnFull reports whether the top cell of the column is taken.
// Out-of-range columns count as full.
func IsColumnFull(grid Grid, column int) bool {
	if !IsValidColumn(column) {
		return true
	}
	return grid[column][Rows-1] != Empty
}

// LowestEmptyRow returns the row a piece dropped into column would settle in,
// or -1 when the column is full.
func LowestEmptyRow(grid Grid, column int) int {
	if !IsValidColumn(column) {
		return -1
	}
	for row := 0; row < Rows; row++ {
		if grid[column][row] == Empty {
			return row
		}
	}
	return -1
}

// DropPiece applies gravity: the piece settles into the lowest empty row.
func DropPiece(grid *Grid, column int, player Player) (int, bool) {
	row := LowestEmptyRow(*grid, column)
	if row < 0 {
		return -1, false
	}
	grid[column][row] = player
	return row, true
}

func IsBoardFull(grid Grid) bool {
	for c := 0; c < Columns; c++ {
		if !IsColumnFull(grid, c) {
			return false
		}
	}
	return true
}

func CountPieces(grid Grid) int {
	count := 0
	for c := 0; c < Columns; c++ {
		for r := 0; r < Rows; r++ {
			if grid[c][r] != Empty {
				count++
			}
		}
	}
	return count
}

// ValidColumns lists the columns that still accept a piece, left to right.
func ValidColumns(grid Grid) []int {
	valid := make([]int, 0, Columns)
	for c := 0; c < Columns; c++ {
		if !IsColumnFull(grid, c) {
			valid = append(valid, c)
		}
	}
	return valid
}

// SimulateMove drops a piece into a copy of the grid and leaves the original alone.
func SimulateMove(grid Grid, column int, player Player) (Grid, int, bool) {
	row, ok := DropPiece(&grid, column, player)
	return grid, row, ok
}

// checkGravity rejects grids with a piece floating above an empty cell.
func checkGravity(grid Grid) error {
	for c := 0; c < Columns; c++ {
		seenEmpty := false
		for r := 0; r < Rows; r++ {
			switch grid[c][r] {
			case Empty:
				seenEmpty = true
			case PlayerA, PlayerB:
				if seenEmpty {
					return ErrInvalidGrid
				}
			default:
				return ErrInvalidGrid
			}
		}
	}
	return nil
}

// ToInts flattens the grid into plain ints for storage and the wire.
func ToInts(grid Grid) [][]int {
	out := make([][]int, Columns)
	for c := range grid {
		out[c] = make([]int, Rows)
		for r := range grid[c] {
			out[c][r] = int(grid[c][r])
		}
	}
	return out
}

// FromInts is the inverse of ToInts. The shape must match the board exactly.
func FromInts(cells [][]int) (Grid, error) {
	var grid Grid
	if len(cells) != Columns {
		return grid, ErrInvalidGrid
	}
	for c := range cells {
		if len(cells[c]) != Rows {
			return grid, ErrInvalidGrid
		}
		for r := range cells[c] {
			grid[c][r] = Player(cells[c][r])
		}
	}
	if err := checkGravity(grid); err != nil {
		return Grid{}, err
	}
	return grid, nil
}
