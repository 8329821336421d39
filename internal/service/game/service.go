package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/bot"
	"github.com/iamasit07/connect4-ai/pkg/uid"
)

// DefaultSessionID is used for move requests that do not name a session.
const DefaultSessionID = "default"

// MoveCache is a cross-process store of chosen columns. The redis repository
// implements it; a nil MoveCache disables the lookup.
type MoveCache interface {
	Get(ctx context.Context, b domain.Board, ai domain.Cell, depth int) (int, bool, error)
	Set(ctx context.Context, b domain.Board, ai domain.Cell, depth int, column int) error
}

// Session is one game against the engine. Its Engine owns the transposition cache,
// so every search on it runs under mu.
type Session struct {
	ID        string
	Engine    *bot.Engine
	CreatedAt time.Time

	mu           sync.Mutex
	lastUsed     atomic.Int64 // unix nanos
	moves        atomic.Int64
	cacheEntries atomic.Int64
}

func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// SessionManager manages active engine sessions
type SessionManager struct {
	Session map[string]*Session // sessionID → Session
	mu      sync.RWMutex

	engineOpts []bot.Option
	moveCache  MoveCache
	depth      int
	now        func() time.Time
	sharedHits atomic.Int64
}

func NewSessionManager(moveCache MoveCache, engineOpts ...bot.Option) *SessionManager {
	sm := &SessionManager{
		Session:    make(map[string]*Session),
		engineOpts: engineOpts,
		moveCache:  moveCache,
		now:        time.Now,
	}
	// the depth is part of the shared cache key, so read it off a throwaway engine
	sm.depth = bot.NewEngine(engineOpts...).Depth()
	return sm
}

// CreateSession registers a fresh session under a generated id.
func (sm *SessionManager) CreateSession() *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	id := uid.GenerateSessionID()
	session := sm.newSessionLocked(id)
	log.Info().Str("session", id).Msg("[SESSION] created")
	return session
}

func (sm *SessionManager) newSessionLocked(id string) *Session {
	session := &Session{
		ID:        id,
		Engine:    bot.NewEngine(sm.engineOpts...),
		CreatedAt: sm.now(),
	}
	session.touch(session.CreatedAt)
	sm.Session[id] = session
	return session
}

// GetOrCreate returns the session for id, creating it on first use.
func (sm *SessionManager) GetOrCreate(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	sm.mu.RLock()
	session, exists := sm.Session[id]
	sm.mu.RUnlock()
	if exists {
		return session
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if session, exists = sm.Session[id]; exists {
		return session
	}
	log.Debug().Str("session", id).Msg("[SESSION] created on first move")
	return sm.newSessionLocked(id)
}

func (sm *SessionManager) GetSession(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[id]
	return session, exists
}

// SelectMove runs the engine of session id on b. A search already in progress on the
// same session finishes before this one starts.
func (sm *SessionManager) SelectMove(ctx context.Context, id string, b domain.Board, ai domain.Cell, candidates []int, newGame bool) (int, error) {
	session := sm.GetOrCreate(id)

	session.mu.Lock()
	defer session.mu.Unlock()
	defer func() { session.touch(sm.now()) }()

	if newGame {
		session.Engine.NewGame()
	}

	if col, ok := sm.lookupShared(ctx, b, ai, candidates); ok {
		session.moves.Add(1)
		log.Debug().Str("session", session.ID).Int("column", col).Msg("[SESSION] move served from shared cache")
		return col, nil
	}

	col, err := session.Engine.SelectMove(ctx, b, ai, candidates, false)
	if err != nil {
		return col, err
	}
	session.moves.Add(1)
	session.cacheEntries.Store(int64(session.Engine.Cache().Len()))

	if sm.moveCache != nil && !session.Engine.LastFallback {
		if err := sm.moveCache.Set(ctx, b, ai, sm.depth, col); err != nil {
			log.Warn().Err(err).Str("session", session.ID).Msg("[SESSION] could not store move in shared cache")
		}
	}
	return col, nil
}

// lookupShared consults the shared cache. A hit is only used when the column is still
// among the caller's playable candidates.
func (sm *SessionManager) lookupShared(ctx context.Context, b domain.Board, ai domain.Cell, candidates []int) (int, bool) {
	if sm.moveCache == nil || !ai.Valid() || ai == domain.Empty {
		return bot.NoColumn, false
	}
	col, ok, err := sm.moveCache.Get(ctx, b, ai, sm.depth)
	if err != nil {
		log.Warn().Err(err).Msg("[SESSION] shared cache lookup failed, searching locally")
		return bot.NoColumn, false
	}
	if !ok || domain.LandingRow(b, col) == domain.FullColumn {
		return bot.NoColumn, false
	}
	for _, c := range candidates {
		if c == col {
			sm.sharedHits.Add(1)
			return col, true
		}
	}
	return bot.NoColumn, false
}

// EndSession drops a session together with its engine and cache.
func (sm *SessionManager) EndSession(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.Session[id]; !exists {
		return false
	}
	delete(sm.Session, id)
	log.Info().Str("session", id).Msg("[SESSION] ended")
	return true
}

// CleanupIdleSessions removes sessions unused for longer than maxIdle.
func (sm *SessionManager) CleanupIdleSessions(maxIdle time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	cutoff := sm.now().Add(-maxIdle)
	for id, session := range sm.Session {
		if session.LastUsed().Before(cutoff) {
			delete(sm.Session, id)
			count++
		}
	}

	if count > 0 {
		log.Info().Int("removed", count).Msg("[SESSION] Memory cleanup: removed idle engine sessions")
	}
	return count
}

type Stats struct {
	ActiveSessions   int   `json:"active_sessions"`
	CacheEntries     int64 `json:"cache_entries"`
	MovesServed      int64 `json:"moves_served"`
	SharedCacheHits  int64 `json:"shared_cache_hits"`
	SharedCacheInUse bool  `json:"shared_cache_enabled"`
	SearchDepth      int   `json:"search_depth"`
}

// Stats reads the per-session counters without waiting on running searches.
func (sm *SessionManager) Stats() Stats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	stats := Stats{
		ActiveSessions:   len(sm.Session),
		SharedCacheHits:  sm.sharedHits.Load(),
		SharedCacheInUse: sm.moveCache != nil,
		SearchDepth:      sm.depth,
	}
	for _, session := range sm.Session {
		stats.CacheEntries += session.cacheEntries.Load()
		stats.MovesServed += session.moves.Load()
	}
	return stats
}
