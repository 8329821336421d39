package domain

import (
	"fmt"
	"strings"
)

// Board is the 6x7 grid. Row 0 is the top (where pieces enter) and row 5 the bottom.
// It is a value type: assigning or passing a Board copies it.
type Board [Rows][Columns]Cell

func NewBoard() Board {
	return Board{}
}

// LegalColumns returns every column whose top cell is empty, in ascending order.
func LegalColumns(b Board) []int {
	cols := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		// here b[0] represents the top row (0 -> top and 5 -> bottom)
		if b[0][col] == Empty {
			cols = append(cols, col)
		}
	}
	return cols
}

// LandingRow scans the column from the bottom up and returns the first empty row,
// or FullColumn when there is none.
func LandingRow(b Board, col int) int {
	if col < 0 || col >= Columns {
		return FullColumn
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][col] == Empty {
			return row
		}
	}
	return FullColumn
}

// Drop returns a copy of b with (row, col) set to piece.
// A FullColumn row leaves the board unchanged.
func Drop(b Board, row, col int, piece Cell) Board {
	if row == FullColumn || row < 0 || row >= Rows || col < 0 || col >= Columns {
		return b
	}
	b[row][col] = piece
	return b
}

// IsWinningLine reports whether piece has four in a row anywhere on the board.
func IsWinningLine(b Board, piece Cell) bool {
	// horizontal
	for r := 0; r < Rows; r++ {
		for c := 0; c <= Columns-ToWin; c++ {
			if b[r][c] == piece && b[r][c+1] == piece && b[r][c+2] == piece && b[r][c+3] == piece {
				return true
			}
		}
	}

	// vertical
	for c := 0; c < Columns; c++ {
		for r := 0; r <= Rows-ToWin; r++ {
			if b[r][c] == piece && b[r+1][c] == piece && b[r+2][c] == piece && b[r+3][c] == piece {
				return true
			}
		}
	}

	// diagonal \ going down-right from a top-left anchor
	for r := 0; r <= Rows-ToWin; r++ {
		for c := 0; c <= Columns-ToWin; c++ {
			if b[r][c] == piece && b[r+1][c+1] == piece && b[r+2][c+2] == piece && b[r+3][c+3] == piece {
				return true
			}
		}
	}

	// diagonal / going down-left from a top-right anchor
	for r := 0; r <= Rows-ToWin; r++ {
		for c := ToWin - 1; c < Columns; c++ {
			if b[r][c] == piece && b[r+1][c-1] == piece && b[r+2][c-2] == piece && b[r+3][c-3] == piece {
				return true
			}
		}
	}

	return false
}

func IsFull(b Board) bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

// IsTerminal is true when either side has won or the board is full.
func IsTerminal(b Board) bool {
	return IsWinningLine(b, PlayerPiece) || IsWinningLine(b, AIPiece) || IsFull(b)
}

// FromRows converts a decoded JSON grid into a Board, rejecting anything that is not
// exactly Rows x Columns or holds an unknown cell value.
func FromRows(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(rows))
	}
	for r, row := range rows {
		if len(row) != Columns {
			return b, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidBoard, r, len(row), Columns)
		}
		for c, v := range row {
			cell := Cell(v)
			if !cell.Valid() {
				return b, fmt.Errorf("%w: cell (%d,%d) has value %d", ErrInvalidBoard, r, c, v)
			}
			b[r][c] = cell
		}
	}
	return b, nil
}

// Rows converts the board back into the JSON friendly grid form.
func (b Board) Rows() [][]int {
	out := make([][]int, Rows)
	for r := range b {
		out[r] = make([]int, Columns)
		for c, cell := range b[r] {
			out[r][c] = int(cell)
		}
	}
	return out
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if c > 0 {
				sb.WriteString(" | ")
			}
			if b[r][c] == Empty {
				sb.WriteByte('.')
			} else {
				fmt.Fprintf(&sb, "%d", b[r][c])
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat("-", Columns*4-3))
	sb.WriteByte('\n')
	return sb.String()
}
