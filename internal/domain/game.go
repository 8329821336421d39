package domain

// Game is the authoritative state of one match between two sides. The relay and the
// terminal front end both drive a Game; the search engine only ever sees its Board.
type Game struct {
	Board         Board
	CurrentPlayer Cell
	Status        GameStatus
	Winner        Cell
	MoveCount     int
}

func NewGame(first Cell) *Game {
	if first != PlayerPiece && first != AIPiece {
		first = PlayerPiece
	}
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: first,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

// MakeMove drops player's piece into column and advances the turn.
// It returns the row the piece landed on.
func (g *Game) MakeMove(player Cell, column int) (int, error) {
	if g.Status != StatusActive {
		return FullColumn, ErrGameFinished
	}
	if player != g.CurrentPlayer {
		return FullColumn, ErrNotYourTurn
	}
	if column < 0 || column >= Columns {
		return FullColumn, ErrInvalidMove
	}

	row := LandingRow(g.Board, column)
	if row == FullColumn {
		return FullColumn, ErrColumnFull
	}

	g.Board = Drop(g.Board, row, column, player)
	g.MoveCount++

	if CheckWinAt(g.Board, row, column, player) {
		g.Status = StatusWon
		g.Winner = player
		return row, nil
	}

	if len(LegalColumns(g.Board)) == 0 {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = Opponent(g.CurrentPlayer)
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
