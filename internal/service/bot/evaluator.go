package bot

import (
	"github.com/iamasit07/connect4-ai/internal/domain"
)

const windowLength = 4

// Window weights. Own near-wins are rewarded more than the opponent's are punished,
// while a completed four counts the same both ways.
const (
	SCORE_FOUR          = 100000
	SCORE_THREE         = 100
	SCORE_TWO           = 10
	SCORE_OPP_FOUR      = -100000
	SCORE_OPP_THREE     = -80
	SCORE_OPP_TWO       = -5
	CENTER_WEIGHT       = 3
	HEIGHT_WEIGHT       = 0.5
	DOUBLE_THREAT_BONUS = 100
	DOUBLE_THREAT_MALUS = 120
)

// Evaluate scores b from piece's point of view. It never mutates b.
func Evaluate(b domain.Board, piece domain.Cell) float64 {
	score := 0.0
	opp := domain.Opponent(piece)

	// center column
	center := domain.Columns / 2
	centerCount := 0
	for r := 0; r < domain.Rows; r++ {
		if b[r][center] == piece {
			centerCount++
		}
	}
	score += float64(centerCount * CENTER_WEIGHT)

	var window [windowLength]domain.Cell

	// horizontal, the only orientation where a 3+1 window needs a playable gap
	for r := 0; r < domain.Rows; r++ {
		for c := 0; c <= domain.Columns-windowLength; c++ {
			for i := 0; i < windowLength; i++ {
				window[i] = b[r][c+i]
			}
			score += float64(scoreWindow(window, piece, opp, func(offset int) bool {
				return isPlayable(b, r, c+offset)
			}))
		}
	}

	// vertical
	for c := 0; c < domain.Columns; c++ {
		for r := 0; r <= domain.Rows-windowLength; r++ {
			for i := 0; i < windowLength; i++ {
				window[i] = b[r+i][c]
			}
			score += float64(scoreWindow(window, piece, opp, nil))
		}
	}

	// diagonal \
	for r := 0; r <= domain.Rows-windowLength; r++ {
		for c := 0; c <= domain.Columns-windowLength; c++ {
			for i := 0; i < windowLength; i++ {
				window[i] = b[r+i][c+i]
			}
			score += float64(scoreWindow(window, piece, opp, nil))
		}
	}

	// diagonal /
	for r := 0; r <= domain.Rows-windowLength; r++ {
		for c := 0; c <= domain.Columns-windowLength; c++ {
			for i := 0; i < windowLength; i++ {
				window[i] = b[r+3-i][c+i]
			}
			score += float64(scoreWindow(window, piece, opp, nil))
		}
	}

	// height: row indices grow towards the bottom, so deeper pieces weigh more
	for r := 0; r < domain.Rows; r++ {
		for c := 0; c < domain.Columns; c++ {
			if b[r][c] == piece {
				score += float64(r+1) * HEIGHT_WEIGHT
			}
		}
	}

	// multi-directional threats
	for c := 0; c < domain.Columns; c++ {
		r := domain.LandingRow(b, c)
		if r == domain.FullColumn {
			continue
		}

		if n := threatDirections(domain.Drop(b, r, c, piece), r, c, piece); n > 1 {
			score += float64(DOUBLE_THREAT_BONUS * n)
		}
		if n := threatDirections(domain.Drop(b, r, c, opp), r, c, opp); n > 1 {
			score -= float64(DOUBLE_THREAT_MALUS * n)
		}
	}

	return score
}

// scoreWindow scores one 4-cell window. playable, when non-nil, gates the 3+1 tier on
// the empty cell at the given offset being reachable on the next drop.
func scoreWindow(window [windowLength]domain.Cell, piece, opp domain.Cell, playable func(offset int) bool) int {
	own, theirs, empty := 0, 0, 0
	emptyAt := -1
	for i, cell := range window {
		switch cell {
		case piece:
			own++
		case opp:
			theirs++
		case domain.Empty:
			empty++
			if emptyAt < 0 {
				emptyAt = i
			}
		}
	}

	score := 0
	switch {
	case own == 4:
		score += SCORE_FOUR
	case own == 3 && empty == 1:
		if playable == nil || playable(emptyAt) {
			score += SCORE_THREE
		}
	case own == 2 && empty == 2:
		score += SCORE_TWO
	}

	switch {
	case theirs == 4:
		score += SCORE_OPP_FOUR
	case theirs == 3 && empty == 1:
		if playable == nil || playable(emptyAt) {
			score += SCORE_OPP_THREE
		}
	case theirs == 2 && empty == 2:
		score += SCORE_OPP_TWO
	}

	return score
}

// Check if a space is actually playable (respects gravity)
func isPlayable(b domain.Board, row, col int) bool {
	// Bottom row is always playable
	if row == domain.Rows-1 {
		return true
	}
	// Otherwise, must have a piece (any player) directly below
	return b[row+1][col] != domain.Empty
}

// threatDirections counts the windows anchored at (r, c) that hold exactly three of
// piece and one empty cell. Vertical and both diagonals only look downwards since
// nothing can sit above a freshly dropped piece.
func threatDirections(b domain.Board, r, c int, piece domain.Cell) int {
	anchored := [][2]int{
		{0, 1},  // horizontal
		{1, 0},  // vertical down
		{1, 1},  // diagonal down-right
		{1, -1}, // diagonal down-left
	}

	count := 0
	for _, dir := range anchored {
		endRow := r + dir[0]*(windowLength-1)
		endCol := c + dir[1]*(windowLength-1)
		if endRow < 0 || endRow >= domain.Rows || endCol < 0 || endCol >= domain.Columns {
			continue
		}

		own, empty := 0, 0
		for i := 0; i < windowLength; i++ {
			switch b[r+dir[0]*i][c+dir[1]*i] {
			case piece:
				own++
			case domain.Empty:
				empty++
			}
		}
		if own == 3 && empty == 1 {
			count++
		}
	}
	return count
}
