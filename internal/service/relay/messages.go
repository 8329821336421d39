package relay

const (
	MsgAssigned             = "assigned"
	MsgBoard                = "board"
	MsgYourTurn             = "your_turn"
	MsgWait                 = "wait"
	MsgWin                  = "win"
	MsgDraw                 = "draw"
	MsgOpponentDisconnected = "opponent_disconnected"
	MsgServerShutdown       = "server_shutdown"
	MsgError                = "error"

	MsgMove = "move"
)

// ServerMessage is everything the relay sends to a client.
type ServerMessage struct {
	Type          string  `json:"type"`
	Room          string  `json:"room,omitempty"`
	Player        int     `json:"player,omitempty"`
	Board         [][]int `json:"board,omitempty"`
	CurrentPlayer int     `json:"current_player,omitempty"`
	Winner        int     `json:"winner,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// ClientMessage is what a client may send. Column is a pointer so a missing column is
// distinguishable from column 0.
type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column"`
}
