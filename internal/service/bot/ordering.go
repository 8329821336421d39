package bot

import (
	"sort"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// ScoredMove is a candidate column with the board it produces and its one-ply score.
type ScoredMove struct {
	Column int
	Score  float64
	Board  domain.Board
}

// OrderMoves drops piece into each column, evaluates the result for piece and returns
// the moves best first. Equal scores keep the order of cols.
func OrderMoves(b domain.Board, cols []int, piece domain.Cell) []ScoredMove {
	moves := make([]ScoredMove, 0, len(cols))
	for _, col := range cols {
		row := domain.LandingRow(b, col)
		if row == domain.FullColumn {
			continue
		}
		next := domain.Drop(b, row, col, piece)
		moves = append(moves, ScoredMove{
			Column: col,
			Score:  Evaluate(next, piece),
			Board:  next,
		})
	}

	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
	return moves
}
