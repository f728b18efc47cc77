package domain

// Player identifies the owner of a cell. Empty doubles as "no player".
type Player int

const (
	Empty   Player = 0
	PlayerA Player = 1 // moves first
	PlayerB Player = 2
)

// Opponent returns the other player. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "empty"
}

const (
	Columns = 5
	Rows    = 5
	ToWin   = 4
)

// Grid is column-major: Grid[col][row], row 0 is the bottom of the column.
type Grid [Columns][Rows]Player

// Position addresses one cell of the grid.
type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

func (p Position) inBounds() bool {
	return p.Column >= 0 && p.Column < Columns && p.Row >= 0 && p.Row < Rows
}

// Axis is one of the four scan directions.
type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
	AxisAscending  Axis = "ascending"  // up-right
	AxisDescending Axis = "descending" // down-right
)

// to represent the game status
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusDraw       GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn Error = "invalid column"
	ErrInvalidGrid   Error = "invalid grid"
	ErrGameNotFound  Error = "game not found"
	ErrNotYourTurn   Error = "not your turn"
	ErrGameOver      Error = "game is over"

	ErrInvalidMode       Error = "invalid game mode"
	ErrInvalidDifficulty Error = "invalid bot difficulty"
)
