package domain

// Move is one accepted placement.
type Move struct {
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Player Player `json:"player"`
	Number int    `json:"number"` // 0-based move index
}

// State is an immutable snapshot of a game, safe to hand to renderers.
type State struct {
	Board         Grid       `json:"board"`
	MoveCount     int        `json:"moveCount"`
	CurrentPlayer Player     `json:"currentPlayer"`
	Winner        Player     `json:"winner"`
	Status        GameStatus `json:"status"`
	WinningLine   *Line      `json:"winningLine,omitempty"`
	LastMove      *Move      `json:"lastMove,omitempty"`
}

// Game is the board engine. It is not safe for concurrent use; callers that
// share a Game across goroutines must serialise access.
type Game struct {
	grid      Grid
	moveCount int
	winner    Player
	lastMove  *Move
}

func NewGame() *Game {
	return &Game{}
}

// NewGameFromGrid builds a game around an existing position. Turn alternation
// is not enforced, only gravity; the move count is the number of pieces.
func NewGameFromGrid(grid Grid) (*Game, error) {
	if err := checkGravity(grid); err != nil {
		return nil, err
	}
	g := &Game{grid: grid, moveCount: CountPieces(grid)}
	if g.moveCount > 0 {
		// the piece count's parity tells who placed the last one
		mover := PlayerA
		if g.moveCount%2 == 0 {
			mover = PlayerB
		}
		if w, ok := DetectWinner(grid, mover); ok {
			g.winner = w
		}
	}
	return g, nil
}

// RestoreGame rebuilds a game from a snapshot.
func RestoreGame(s State) (*Game, error) {
	g, err := NewGameFromGrid(s.Board)
	if err != nil {
		return nil, err
	}
	if s.LastMove != nil {
		m := *s.LastMove
		g.lastMove = &m
	}
	return g, nil
}

// PlacePiece drops the current player's piece into column. An out-of-range
// column is a contract violation and returns ErrInvalidColumn. A full column
// or a decided game is silently ignored.
func (g *Game) PlacePiece(column int) (State, error) {
	if !IsValidColumn(column) {
		return g.State(), ErrInvalidColumn
	}
	if g.winner != Empty {
		return g.State(), nil
	}

	player := g.CurrentPlayer()
	row, ok := DropPiece(&g.grid, column, player)
	if !ok {
		return g.State(), nil
	}

	g.lastMove = &Move{Column: column, Row: row, Player: player, Number: g.moveCount}
	g.moveCount++

	if w, won := DetectWinner(g.grid, player); won {
		g.winner = w
	}

	return g.State(), nil
}

// HasWinner is a plain read; it never rescans the board.
func (g *Game) HasWinner() (Player, bool) {
	return g.winner, g.winner != Empty
}

func (g *Game) CurrentPlayer() Player {
	if g.moveCount%2 == 0 {
		return PlayerA
	}
	return PlayerB
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

func (g *Game) Grid() Grid {
	return g.grid
}

func (g *Game) LastMove() (Move, bool) {
	if g.lastMove == nil {
		return Move{}, false
	}
	return *g.lastMove, true
}

// Status derives the game phase. A full board with no line is a draw.
func (g *Game) Status() GameStatus {
	if g.winner != Empty {
		return StatusWon
	}
	if IsBoardFull(g.grid) {
		return StatusDraw
	}
	return StatusInProgress
}

func (g *Game) IsFinished() bool {
	return g.Status() != StatusInProgress
}

func (g *Game) IsColumnFull(column int) bool {
	return IsColumnFull(g.grid, column)
}

func (g *Game) ValidColumns() []int {
	if g.winner != Empty {
		return []int{}
	}
	return ValidColumns(g.grid)
}

// Reset clears the board in place for a rematch.
func (g *Game) Reset() {
	*g = Game{}
}

func (g *Game) State() State {
	s := State{
		Board:         g.grid,
		MoveCount:     g.moveCount,
		CurrentPlayer: g.CurrentPlayer(),
		Winner:        g.winner,
		Status:        g.Status(),
	}
	if g.winner != Empty {
		if line, ok := FindLine(g.grid, g.winner); ok {
			s.WinningLine = &line
		}
	}
	if g.lastMove != nil {
		m := *g.lastMove
		s.LastMove = &m
	}
	return s
}
