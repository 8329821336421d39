package domain

// Cell is the content of one board square.
type Cell int

const (
	Empty       Cell = 0
	PlayerPiece Cell = 1
	AIPiece     Cell = 2
)

// Valid reports whether c is one of the three known cell values.
func (c Cell) Valid() bool {
	return c == Empty || c == PlayerPiece || c == AIPiece
}

// Opponent returns the other piece. Empty has no opponent and is returned as is.
func Opponent(piece Cell) Cell {
	switch piece {
	case PlayerPiece:
		return AIPiece
	case AIPiece:
		return PlayerPiece
	}
	return Empty
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4

	// FullColumn is returned by LandingRow when the column has no empty cell
	FullColumn = -1
)

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove  Error = "invalid move"
	ErrColumnFull   Error = "column is full"
	ErrNoLegalMoves Error = "no legal moves"
	ErrNotYourTurn  Error = "not your turn"
	ErrGameFinished Error = "game is finished"
	ErrInvalidBoard Error = "invalid board"
)
