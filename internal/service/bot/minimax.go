package bot

import (
	"math"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

const (
	DEFAULT_DEPTH = 5
	MINIMAX_WIN   = 10000000
	MINIMAX_LOSS  = -1000000
	MINIMAX_DRAW  = 0

	// NoColumn marks a result that carries only a score (leaves and terminal nodes).
	NoColumn = -1
)

// SearchResult is a chosen column and its score from the AI's point of view.
type SearchResult struct {
	Column int
	Score  float64
}

func (r SearchResult) HasColumn() bool {
	return r.Column != NoColumn
}

// Searcher runs alpha-beta minimax for one AI piece against one cache.
type Searcher struct {
	cache *Cache
	ai    domain.Cell
	opp   domain.Cell

	Nodes     int
	CacheHits int
}

// NewSearcher returns a searcher playing ai. A nil cache disables memoization.
func NewSearcher(cache *Cache, ai domain.Cell) *Searcher {
	return &Searcher{
		cache: cache,
		ai:    ai,
		opp:   domain.Opponent(ai),
	}
}

// Search returns the best column for the side to move and the minimax score of b,
// looking depth plies ahead. maximizing is true when the AI is to move.
func (s *Searcher) Search(b domain.Board, depth int, alpha, beta float64, maximizing bool) SearchResult {
	s.Nodes++
	key := CacheKey{Board: b, Depth: depth, Maximizing: maximizing}

	if s.cache != nil {
		if e, ok := s.cache.Probe(key); ok {
			switch {
			case e.Bound == BoundExact,
				e.Bound == BoundLower && e.Result.Score >= beta,
				e.Bound == BoundUpper && e.Result.Score <= alpha:
				s.CacheHits++
				return e.Result
			}
		}
	}

	if depth <= 0 || domain.IsTerminal(b) {
		result := SearchResult{Column: NoColumn, Score: s.leafScore(b)}
		s.store(key, result, BoundExact)
		return result
	}

	validColumns := domain.LegalColumns(b)
	if len(validColumns) == 0 {
		result := SearchResult{Column: NoColumn, Score: MINIMAX_DRAW}
		s.store(key, result, BoundExact)
		return result
	}

	alphaOrig, betaOrig := alpha, beta
	best := SearchResult{Column: NoColumn}

	if maximizing {
		best.Score = math.Inf(-1)
		for _, mv := range OrderMoves(b, validColumns, s.ai) {
			eval := s.Search(mv.Board, depth-1, alpha, beta, false).Score
			if eval > best.Score {
				best = SearchResult{Column: mv.Column, Score: eval}
			}
			alpha = math.Max(alpha, best.Score)
			if alpha >= beta {
				break // beta cutoff
			}
		}
	} else {
		best.Score = math.Inf(1)
		for _, mv := range OrderMoves(b, validColumns, s.opp) {
			eval := s.Search(mv.Board, depth-1, alpha, beta, true).Score
			if eval < best.Score {
				best = SearchResult{Column: mv.Column, Score: eval}
			}
			beta = math.Min(beta, best.Score)
			if alpha >= beta {
				break // alpha cutoff
			}
		}
	}

	bound := BoundExact
	if best.Score <= alphaOrig {
		bound = BoundUpper
	} else if best.Score >= betaOrig {
		bound = BoundLower
	}
	s.store(key, best, bound)
	return best
}

// leafScore scores a node the search does not expand.
func (s *Searcher) leafScore(b domain.Board) float64 {
	switch {
	case domain.IsWinningLine(b, s.ai):
		return MINIMAX_WIN
	case domain.IsWinningLine(b, s.opp):
		return MINIMAX_LOSS
	case domain.IsFull(b):
		return MINIMAX_DRAW
	}
	return Evaluate(b, s.ai)
}

func (s *Searcher) store(key CacheKey, result SearchResult, bound Bound) {
	if s.cache != nil {
		s.cache.Store(key, result, bound)
	}
}
