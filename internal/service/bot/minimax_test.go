package bot

import (
	"math"
	"testing"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// exhaustive is plain minimax with no pruning and no cache.
func exhaustive(s *Searcher, b domain.Board, depth int, maximizing bool) float64 {
	if depth == 0 || domain.IsTerminal(b) {
		return s.leafScore(b)
	}
	piece := s.opp
	best := math.Inf(1)
	if maximizing {
		piece = s.ai
		best = math.Inf(-1)
	}
	for _, mv := range OrderMoves(b, domain.LegalColumns(b), piece) {
		v := exhaustive(s, mv.Board, depth-1, !maximizing)
		if maximizing && v > best || !maximizing && v < best {
			best = v
		}
	}
	return best
}

func midgameBoards(t *testing.T) map[string]domain.Board {
	return map[string]domain.Board{
		"empty": domain.NewBoard(),
		"opening": boardFrom(t,
			".......",
			".......",
			".......",
			".......",
			"...1...",
			"..12...",
		),
		"threats": boardFrom(t,
			".......",
			".......",
			"...2...",
			"..11...",
			"..221..",
			".1122..",
		),
		"crowded": boardFrom(t,
			"..1....",
			"..2.1..",
			"..1.2..",
			".22.1..",
			"211.2..",
			"1221121",
		),
	}
}

func TestSearchMatchesExhaustiveMinimax(t *testing.T) {
	for name, b := range midgameBoards(t) {
		for depth := 0; depth <= 4; depth++ {
			for _, ai := range []domain.Cell{domain.AIPiece, domain.PlayerPiece} {
				ref := exhaustive(NewSearcher(nil, ai), b, depth, true)

				plain := NewSearcher(nil, ai).Search(b, depth, math.Inf(-1), math.Inf(1), true)
				if plain.Score != ref {
					t.Fatalf("%s depth %d ai %d: pruned score %v, exhaustive %v", name, depth, ai, plain.Score, ref)
				}

				cached := NewSearcher(NewCache(0), ai).Search(b, depth, math.Inf(-1), math.Inf(1), true)
				if cached.Score != ref {
					t.Fatalf("%s depth %d ai %d: cached score %v, exhaustive %v", name, depth, ai, cached.Score, ref)
				}

				if depth > 0 && !domain.IsTerminal(b) {
					if !cached.HasColumn() {
						t.Fatalf("%s depth %d: expected a column", name, depth)
					}
					child := domain.Drop(b, domain.LandingRow(b, cached.Column), cached.Column, ai)
					if got := exhaustive(NewSearcher(nil, ai), child, depth-1, false); got != ref {
						t.Fatalf("%s depth %d: column %d is worth %v, best is %v", name, depth, cached.Column, got, ref)
					}
				}
			}
		}
	}
}

func TestSearchRecognisesWinAtAnyDepth(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		".......",
		".......",
		".111...",
		"2222...",
	)
	for depth := 0; depth <= 5; depth++ {
		got := NewSearcher(NewCache(0), domain.AIPiece).Search(b, depth, math.Inf(-1), math.Inf(1), true)
		if got.Score != MINIMAX_WIN {
			t.Fatalf("depth %d: got score %v want %v", depth, got.Score, float64(MINIMAX_WIN))
		}
		if got.HasColumn() {
			t.Fatalf("depth %d: terminal node should carry no column, got %d", depth, got.Column)
		}
	}
}

func TestSearchOpponentWinAndDraw(t *testing.T) {
	lost := boardFrom(t,
		".......",
		".......",
		"1......",
		"1......",
		"12.....",
		"122....",
	)
	if got := NewSearcher(nil, domain.AIPiece).Search(lost, 3, math.Inf(-1), math.Inf(1), true); got.Score != MINIMAX_LOSS {
		t.Fatalf("opponent four: got %v want %v", got.Score, float64(MINIMAX_LOSS))
	}

	draw := boardFrom(t,
		"1122112",
		"2211221",
		"1122112",
		"2211221",
		"1122112",
		"2211221",
	)
	if got := NewSearcher(nil, domain.AIPiece).Search(draw, 3, math.Inf(-1), math.Inf(1), true); got.Score != MINIMAX_DRAW || got.HasColumn() {
		t.Fatalf("full board: got %+v want draw with no column", got)
	}
}

func TestCacheReplayIsDeterministic(t *testing.T) {
	b := midgameBoards(t)["threats"]
	cache := NewCache(0)

	first := NewSearcher(cache, domain.AIPiece).Search(b, 4, math.Inf(-1), math.Inf(1), true)
	if cache.Len() == 0 {
		t.Fatalf("search stored nothing")
	}

	warm := NewSearcher(cache, domain.AIPiece)
	again := warm.Search(b, 4, math.Inf(-1), math.Inf(1), true)
	if again != first {
		t.Fatalf("warm cache changed the result: %+v vs %+v", again, first)
	}
	if warm.CacheHits == 0 {
		t.Fatalf("warm search should hit the cache")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("Clear left %d entries", cache.Len())
	}
	replay := NewSearcher(cache, domain.AIPiece).Search(b, 4, math.Inf(-1), math.Inf(1), true)
	if replay != first {
		t.Fatalf("replay after clear differs: %+v vs %+v", replay, first)
	}
}

func TestCacheTrimClearsWholesale(t *testing.T) {
	c := NewCache(2)
	for depth := 0; depth < 3; depth++ {
		c.Store(CacheKey{Board: domain.NewBoard(), Depth: depth}, SearchResult{Column: NoColumn}, BoundExact)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	if !c.Trim() {
		t.Fatalf("Trim should clear a table over its limit")
	}
	if c.Len() != 0 || c.Clears() != 1 {
		t.Fatalf("after trim: len=%d clears=%d", c.Len(), c.Clears())
	}
	if c.Trim() {
		t.Fatalf("empty table must not be cleared again")
	}
}

func TestCacheKeyIgnoresMoveOrder(t *testing.T) {
	a := domain.NewBoard()
	a = domain.Drop(a, domain.LandingRow(a, 0), 0, domain.AIPiece)
	a = domain.Drop(a, domain.LandingRow(a, 6), 6, domain.PlayerPiece)
	a = domain.Drop(a, domain.LandingRow(a, 3), 3, domain.AIPiece)

	b := domain.NewBoard()
	b = domain.Drop(b, domain.LandingRow(b, 3), 3, domain.AIPiece)
	b = domain.Drop(b, domain.LandingRow(b, 6), 6, domain.PlayerPiece)
	b = domain.Drop(b, domain.LandingRow(b, 0), 0, domain.AIPiece)

	c := NewCache(0)
	c.Store(CacheKey{Board: a, Depth: 2, Maximizing: false}, SearchResult{Column: 4, Score: 1}, BoundExact)
	if _, ok := c.Probe(CacheKey{Board: b, Depth: 2, Maximizing: false}); !ok {
		t.Fatalf("transposed board should share the cache entry")
	}
	if _, ok := c.Probe(CacheKey{Board: b, Depth: 3, Maximizing: false}); ok {
		t.Fatalf("different depth must not share the cache entry")
	}
	if _, ok := c.Probe(CacheKey{Board: b, Depth: 2, Maximizing: true}); ok {
		t.Fatalf("different side to move must not share the cache entry")
	}
}
