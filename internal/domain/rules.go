package domain

// CheckWinAt reports whether the piece at (row, column) is part of four in a row.
// Only lines passing through that cell are scanned, which is all a caller needs right
// after a drop.
func CheckWinAt(b Board, row, column int, piece Cell) bool {
	if row < 0 || row >= Rows || column < 0 || column >= Columns {
		return false
	}

	directions := [][2]int{
		{0, 1},  // horizontal
		{1, 0},  // vertical
		{1, 1},  // diagonal \
		{1, -1}, // diagonal /
	}

	for _, dir := range directions {
		total := 1 +
			countInDirection(b, row, column, dir[0], dir[1], piece) +
			countInDirection(b, row, column, -dir[0], -dir[1], piece)
		if total >= ToWin {
			return true
		}
	}
	return false
}

// this counts the number of pieces in a specific direction, not including the start cell
func countInDirection(b Board, row, column, deltaRow, deltaCol int, piece Cell) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for r >= 0 && r < Rows && c >= 0 && c < Columns && b[r][c] == piece {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}
