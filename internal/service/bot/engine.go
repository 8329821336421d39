package bot

import (
	"context"
	"math"
	"slices"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// Engine picks moves for one game session. It owns that session's transposition
// cache, so an Engine must not be used from two goroutines at once.
type Engine struct {
	depth int
	cache *Cache
	ai    domain.Cell

	// pick returns a value in [0, n); swapped out in tests
	pick func(n int) int

	LastNodes     int
	LastCacheHits int
	LastScore     float64
	// LastFallback is set when the returned column came from the random fallback
	LastFallback bool
}

type Option func(*Engine)

func WithDepth(depth int) Option {
	return func(e *Engine) {
		if depth >= 0 {
			e.depth = depth
		}
	}
}

func WithMaxCacheEntries(n int) Option {
	return func(e *Engine) {
		e.cache = NewCache(n)
	}
}

func WithRandom(pick func(n int) int) Option {
	return func(e *Engine) {
		if pick != nil {
			e.pick = pick
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		depth: DEFAULT_DEPTH,
		pick:  frand.Intn,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewCache(DefaultMaxCacheEntries)
	}
	return e
}

func (e *Engine) Depth() int {
	return e.depth
}

func (e *Engine) Cache() *Cache {
	return e.cache
}

// NewGame wipes everything remembered from earlier games.
func (e *Engine) NewGame() {
	e.cache.Clear()
}

// SelectMove returns the column ai should play on b. candidates is the caller's list of
// legal columns; it is re-checked against the board and never trusted as is.
func (e *Engine) SelectMove(ctx context.Context, b domain.Board, ai domain.Cell, candidates []int, newGame bool) (int, error) {
	if len(candidates) == 0 {
		return NoColumn, domain.ErrNoLegalMoves
	}
	if ai != domain.PlayerPiece && ai != domain.AIPiece {
		return NoColumn, domain.ErrInvalidMove
	}

	verified := make([]int, 0, len(candidates))
	for _, col := range candidates {
		if domain.LandingRow(b, col) != domain.FullColumn && !slices.Contains(verified, col) {
			verified = append(verified, col)
		}
	}
	if len(verified) == 0 {
		return NoColumn, domain.ErrNoLegalMoves
	}

	if err := ctx.Err(); err != nil {
		return NoColumn, err
	}

	if newGame {
		e.cache.Clear()
		log.Debug().Msg("[ENGINE] new game, transposition cache cleared")
	}
	if e.ai != ai {
		// scores are stored from the AI's side, so switching sides invalidates them
		if e.ai != domain.Empty {
			e.cache.Clear()
		}
		e.ai = ai
	}
	if e.cache.Trim() {
		log.Info().Int("max_entries", e.cache.MaxEntries()).Msg("[ENGINE] transposition cache over limit, cleared")
	}

	searcher := NewSearcher(e.cache, ai)
	result := searcher.Search(b, e.depth, math.Inf(-1), math.Inf(1), true)
	e.LastNodes = searcher.Nodes
	e.LastCacheHits = searcher.CacheHits
	e.LastScore = result.Score

	col := result.Column
	e.LastFallback = false
	if !result.HasColumn() || !slices.Contains(verified, col) {
		fallback := verified[e.pick(len(verified))]
		if result.HasColumn() {
			log.Warn().Int("search_column", col).Ints("verified", verified).Int("fallback", fallback).
				Msg("[ENGINE] search picked a column outside the verified set")
		}
		col = fallback
		e.LastFallback = true
	}

	log.Debug().
		Int("column", col).
		Float64("score", result.Score).
		Int("depth", e.depth).
		Int("nodes", searcher.Nodes).
		Int("cache_hits", searcher.CacheHits).
		Int("cache_size", e.cache.Len()).
		Msg("[ENGINE] move selected")

	return col, nil
}
