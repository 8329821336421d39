package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/bot"
)

type fakeMoveCache struct {
	mu      sync.Mutex
	entries map[string]int
	getErr  error
	sets    int
}

func newFakeMoveCache() *fakeMoveCache {
	return &fakeMoveCache{entries: make(map[string]int)}
}

func fakeKey(b domain.Board, ai domain.Cell, depth int) string {
	return b.String() + string(rune('0'+ai)) + string(rune('0'+depth))
}

func (f *fakeMoveCache) Get(_ context.Context, b domain.Board, ai domain.Cell, depth int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, false, f.getErr
	}
	col, ok := f.entries[fakeKey(b, ai, depth)]
	return col, ok, nil
}

func (f *fakeMoveCache) Set(_ context.Context, b domain.Board, ai domain.Cell, depth int, column int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[fakeKey(b, ai, depth)] = column
	f.sets++
	return nil
}

// bottomRowThree has AIPiece one move away from a horizontal four in column 3.
func bottomRowThree() domain.Board {
	b := domain.NewBoard()
	for col := 0; col < 3; col++ {
		b = domain.Drop(b, domain.LandingRow(b, col), col, domain.AIPiece)
	}
	return b
}

func TestSelectMoveUsesDefaultSession(t *testing.T) {
	sm := NewSessionManager(nil, bot.WithDepth(3))
	b := bottomRowThree()

	col, err := sm.SelectMove(context.Background(), "", b, domain.AIPiece, domain.LegalColumns(b), true)
	if err != nil {
		t.Fatal(err)
	}
	if col != 3 {
		t.Fatalf("expected winning column 3, got %d", col)
	}
	if _, ok := sm.GetSession(DefaultSessionID); !ok {
		t.Fatalf("request without id should land in the default session")
	}

	stats := sm.Stats()
	if stats.ActiveSessions != 1 || stats.MovesServed != 1 || stats.CacheEntries == 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.SearchDepth != 3 || stats.SharedCacheInUse {
		t.Fatalf("unexpected engine stats %+v", stats)
	}
}

func TestSessionsHaveSeparateEngines(t *testing.T) {
	sm := NewSessionManager(nil, bot.WithDepth(2))
	a := sm.CreateSession()
	b := sm.CreateSession()
	if a.ID == b.ID {
		t.Fatalf("sessions share id %q", a.ID)
	}
	if a.Engine == b.Engine || a.Engine.Cache() == b.Engine.Cache() {
		t.Fatalf("sessions must not share an engine or cache")
	}

	board := domain.NewBoard()
	if _, err := sm.SelectMove(context.Background(), a.ID, board, domain.AIPiece, domain.LegalColumns(board), true); err != nil {
		t.Fatal(err)
	}
	if b.Engine.Cache().Len() != 0 {
		t.Fatalf("search in one session filled another session's cache")
	}
}

func TestSelectMovePropagatesNoLegalMoves(t *testing.T) {
	sm := NewSessionManager(nil)
	_, err := sm.SelectMove(context.Background(), "s", domain.NewBoard(), domain.AIPiece, nil, false)
	if !errors.Is(err, domain.ErrNoLegalMoves) {
		t.Fatalf("expected ErrNoLegalMoves, got %v", err)
	}
	if sm.Stats().MovesServed != 0 {
		t.Fatalf("failed request counted as a move")
	}
}

func TestSharedMoveCache(t *testing.T) {
	cache := newFakeMoveCache()
	sm := NewSessionManager(cache, bot.WithDepth(3))
	ctx := context.Background()
	b := bottomRowThree()

	col, err := sm.SelectMove(ctx, "first", b, domain.AIPiece, domain.LegalColumns(b), true)
	if err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Fatalf("searched move should be shared, sets=%d", cache.sets)
	}

	second := sm.GetOrCreate("second")
	got, err := sm.SelectMove(ctx, "second", b, domain.AIPiece, domain.LegalColumns(b), true)
	if err != nil {
		t.Fatal(err)
	}
	if got != col {
		t.Fatalf("shared hit returned %d, first session chose %d", got, col)
	}
	if second.Engine.Cache().Len() != 0 {
		t.Fatalf("shared hit should skip the search")
	}
	if sm.Stats().SharedCacheHits != 1 {
		t.Fatalf("expected one shared hit, got %d", sm.Stats().SharedCacheHits)
	}

	// a cached column the caller no longer offers is ignored
	got, err = sm.SelectMove(ctx, "third", b, domain.AIPiece, []int{5}, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Fatalf("expected the only candidate 5, got %d", got)
	}
}

func TestSharedMoveCacheErrorFallsBackToSearch(t *testing.T) {
	cache := newFakeMoveCache()
	cache.getErr = errors.New("connection refused")
	sm := NewSessionManager(cache, bot.WithDepth(2))
	b := bottomRowThree()

	col, err := sm.SelectMove(context.Background(), "s", b, domain.AIPiece, domain.LegalColumns(b), true)
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if col != 3 {
		t.Fatalf("expected local search to find column 3, got %d", col)
	}
}

func TestEndAndCleanupSessions(t *testing.T) {
	sm := NewSessionManager(nil, bot.WithDepth(1))
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	old := sm.GetOrCreate("old")
	now = now.Add(20 * time.Minute)
	sm.GetOrCreate("fresh")
	now = now.Add(15 * time.Minute)

	if removed := sm.CleanupIdleSessions(30 * time.Minute); removed != 1 {
		t.Fatalf("expected one idle session removed, got %d", removed)
	}
	if _, ok := sm.GetSession(old.ID); ok {
		t.Fatalf("idle session survived cleanup")
	}

	if !sm.EndSession("fresh") {
		t.Fatalf("EndSession should report the removal")
	}
	if sm.EndSession("fresh") {
		t.Fatalf("ending an unknown session must report false")
	}
	if sm.Stats().ActiveSessions != 0 {
		t.Fatalf("sessions left behind: %+v", sm.Stats())
	}
}

func TestConcurrentMovesOnOneSession(t *testing.T) {
	sm := NewSessionManager(nil, bot.WithDepth(2))
	b := domain.NewBoard()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sm.SelectMove(context.Background(), "shared", b, domain.AIPiece, domain.LegalColumns(b), false); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	if got := sm.Stats().MovesServed; got != 8 {
		t.Fatalf("expected 8 moves served, got %d", got)
	}
}
