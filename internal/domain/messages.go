package domain

// ServerMessage is pushed to browsers over the websocket.
type ServerMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	GameID  string `json:"gameId,omitempty"`
	State   *State `json:"state,omitempty"`
	Move    *Move  `json:"move,omitempty"`
	Winner  Player `json:"winner,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ClientMessage is what a browser sends over the websocket.
// Column is nil when the message carries none.
type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
	Token  string `json:"token,omitempty"`
}

const (
	MsgGameState = "game_state"
	MsgGameStart = "game_start"
	MsgMoveMade  = "move_made"
	MsgGameOver  = "game_over"
	MsgError     = "error"

	MsgMakeMove     = "make_move"
	MsgRequestState = "request_state"
	MsgRematch      = "rematch"
)

// end reasons recorded in the archive
const (
	ReasonFourInARow = "four_in_a_row"
	ReasonDraw       = "draw"
	ReasonResign     = "resign"
)
