package domain

import (
	"errors"
	"testing"
)

// boardFrom builds a board from text rows, '.' for empty, '1' and '2' for pieces.
func boardFrom(t *testing.T, rows ...string) Board {
	t.Helper()
	if len(rows) != Rows {
		t.Fatalf("fixture needs %d rows, got %d", Rows, len(rows))
	}
	var b Board
	for r, line := range rows {
		if len(line) != Columns {
			t.Fatalf("fixture row %d has %d columns", r, len(line))
		}
		for c, ch := range line {
			switch ch {
			case '.':
				b[r][c] = Empty
			case '1':
				b[r][c] = PlayerPiece
			case '2':
				b[r][c] = AIPiece
			default:
				t.Fatalf("bad fixture char %q", ch)
			}
		}
	}
	return b
}

func TestIsWinningLineOrientations(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		piece Cell
	}{
		{
			name: "horizontal",
			board: boardFrom(t,
				".......",
				".......",
				".......",
				".......",
				".......",
				"..2222.",
			),
			piece: AIPiece,
		},
		{
			name: "vertical",
			board: boardFrom(t,
				".......",
				".......",
				"1......",
				"1......",
				"1......",
				"1......",
			),
			piece: PlayerPiece,
		},
		{
			name: "diagonal down-right",
			board: boardFrom(t,
				".......",
				".......",
				"...2...",
				"...12..",
				"...112.",
				"...1112",
			),
			piece: AIPiece,
		},
		{
			name: "diagonal down-left",
			board: boardFrom(t,
				".......",
				".......",
				"...1...",
				"..12...",
				".122...",
				"1222...",
			),
			piece: PlayerPiece,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsWinningLine(tt.board, tt.piece) {
				t.Fatalf("expected a winning line for %d\n%s", tt.piece, tt.board)
			}
			if IsWinningLine(tt.board, Opponent(tt.piece)) {
				t.Fatalf("opponent %d should not have a winning line\n%s", Opponent(tt.piece), tt.board)
			}
			if !IsTerminal(tt.board) {
				t.Fatalf("board with a winning line must be terminal")
			}
		})
	}
}

func TestIsWinningLineThreeIsNotEnough(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		".......",
		"2......",
		"21.....",
		"2112...",
	)
	if IsWinningLine(b, AIPiece) || IsWinningLine(b, PlayerPiece) {
		t.Fatalf("no side has four in a row\n%s", b)
	}
	if IsTerminal(b) {
		t.Fatalf("board is not terminal")
	}
}

func TestIsWinningLineMatchesCheckWinAt(t *testing.T) {
	// Play a fixed sequence and compare the full scan with the local check after each drop.
	moves := []int{3, 3, 4, 2, 5, 6, 2, 4, 1, 1, 0, 5, 5, 6, 6, 6, 0, 2, 4, 1}
	b := NewBoard()
	piece := PlayerPiece
	for i, col := range moves {
		row := LandingRow(b, col)
		if row == FullColumn {
			t.Fatalf("move %d: column %d unexpectedly full", i, col)
		}
		before := IsWinningLine(b, piece)
		b = Drop(b, row, col, piece)
		local := CheckWinAt(b, row, col, piece)
		full := IsWinningLine(b, piece)
		if !before && local != full {
			t.Fatalf("move %d col %d: CheckWinAt=%v IsWinningLine=%v\n%s", i, col, local, full, b)
		}
		if full {
			break
		}
		piece = Opponent(piece)
	}
}

func TestLegalColumnsAndLandingRow(t *testing.T) {
	b := boardFrom(t,
		"1.2....",
		"2.1....",
		"1.2....",
		"2.1....",
		"1.2....",
		"2.11...",
	)

	got := LegalColumns(b)
	want := []int{1, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("legal columns: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("legal columns: got %v want %v", got, want)
		}
	}

	if row := LandingRow(b, 0); row != FullColumn {
		t.Fatalf("column 0 is full, got row %d", row)
	}
	if row := LandingRow(b, 1); row != Rows-1 {
		t.Fatalf("column 1 is empty, expected bottom row, got %d", row)
	}
	if row := LandingRow(b, 3); row != Rows-2 {
		t.Fatalf("column 3 has one piece, expected row %d, got %d", Rows-2, row)
	}
	if row := LandingRow(b, Columns); row != FullColumn {
		t.Fatalf("out of range column should report FullColumn, got %d", row)
	}
}

func TestDropCopiesAndIgnoresFullColumn(t *testing.T) {
	b := NewBoard()
	next := Drop(b, Rows-1, 3, AIPiece)
	if b[Rows-1][3] != Empty {
		t.Fatalf("Drop mutated its input")
	}
	if next[Rows-1][3] != AIPiece {
		t.Fatalf("Drop did not place the piece")
	}

	same := Drop(next, FullColumn, 3, PlayerPiece)
	if same != next {
		t.Fatalf("Drop with FullColumn must return the board unchanged")
	}
}

func TestIsTerminalOnFullBoard(t *testing.T) {
	b := boardFrom(t,
		"1122112",
		"2211221",
		"1122112",
		"2211221",
		"1122112",
		"2211221",
	)
	if IsWinningLine(b, PlayerPiece) || IsWinningLine(b, AIPiece) {
		t.Fatalf("fixture should be a draw\n%s", b)
	}
	if !IsFull(b) || !IsTerminal(b) {
		t.Fatalf("full board must be terminal")
	}
	if len(LegalColumns(b)) != 0 {
		t.Fatalf("full board has no legal columns")
	}
}

func TestFromRows(t *testing.T) {
	rows := NewBoard().Rows()
	rows[5][2] = 2
	b, err := FromRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b[5][2] != AIPiece {
		t.Fatalf("cell not copied")
	}

	bad := [][]int{{0, 0}}
	if _, err := FromRows(bad); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard for short board, got %v", err)
	}

	rows[0][0] = 7
	if _, err := FromRows(rows); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard for bad cell, got %v", err)
	}
}
