package relay

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/pkg/uid"
)

var ErrNotInRoom = errors.New("not seated in a room")

// Peer is one connected client. The websocket transport implements it.
type Peer interface {
	ID() string
	Send(msg ServerMessage) error
	Close()
}

// Room holds two peers and the game they play. seats[0] plays PlayerPiece.
type Room struct {
	ID        string
	Game      *domain.Game
	CreatedAt time.Time

	seats        [2]Peer
	// unix nanos of the last move, read without mu by the idle sweep
	lastActivity atomic.Int64
	mu           sync.Mutex
}

func (r *Room) pieceOf(peerID string) domain.Cell {
	for i, p := range r.seats {
		if p != nil && p.ID() == peerID {
			return domain.Cell(i + 1)
		}
	}
	return domain.Empty
}

func (r *Room) peer(piece domain.Cell) Peer {
	return r.seats[int(piece)-1]
}

func (r *Room) broadcast(msg ServerMessage) {
	for _, p := range r.seats {
		if err := p.Send(msg); err != nil {
			log.Debug().Err(err).Str("room", r.ID).Str("peer", p.ID()).Msg("[RELAY] send failed")
		}
	}
}

// announceTurn sends the board to both players and tells each whose move it is.
func (r *Room) announceTurn() {
	current := int(r.Game.CurrentPlayer)
	r.broadcast(ServerMessage{Type: MsgBoard, Board: r.Game.Board.Rows(), CurrentPlayer: current})
	r.peer(r.Game.CurrentPlayer).Send(ServerMessage{Type: MsgYourTurn, CurrentPlayer: current})
	r.peer(domain.Opponent(r.Game.CurrentPlayer)).Send(ServerMessage{Type: MsgWait, CurrentPlayer: current})
}

func (r *Room) closeAll() {
	for _, p := range r.seats {
		p.Close()
	}
}

// Hub pairs peers in arrival order and routes their moves.
type Hub struct {
	waiting Peer
	// closed once the waiting peer has been told its seat
	waitingReady chan struct{}

	rooms  map[string]*Room // roomID → Room
	byPeer map[string]*Room // peerID → Room
	mu     sync.Mutex
	now    func() time.Time
	games  int
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]*Room),
		byPeer: make(map[string]*Room),
		now:    time.Now,
	}
}

// Join seats p. The first peer of a pair waits as player 1; the second completes the
// room as player 2 and the game starts with player 1 to move. Sockets are written
// after h.mu is released.
func (h *Hub) Join(p Peer) {
	h.mu.Lock()
	if h.waiting == nil {
		ready := make(chan struct{})
		h.waiting = p
		h.waitingReady = ready
		h.mu.Unlock()

		p.Send(ServerMessage{Type: MsgAssigned, Player: int(domain.PlayerPiece)})
		close(ready)
		log.Info().Str("peer", p.ID()).Msg("[RELAY] waiting for an opponent")
		return
	}

	first, firstReady := h.waiting, h.waitingReady
	h.waiting, h.waitingReady = nil, nil

	room := &Room{
		ID:        uid.GenerateRoomID(),
		Game:      domain.NewGame(domain.PlayerPiece),
		CreatedAt: h.now(),
		seats:     [2]Peer{first, p},
	}
	room.lastActivity.Store(room.CreatedAt.UnixNano())

	// hold the room until the opening messages are out so no move can overtake them
	room.mu.Lock()
	defer room.mu.Unlock()

	h.rooms[room.ID] = room
	h.byPeer[first.ID()] = room
	h.byPeer[p.ID()] = room
	h.games++
	h.mu.Unlock()

	// player 1 must see its seat before the board
	<-firstReady

	p.Send(ServerMessage{Type: MsgAssigned, Room: room.ID, Player: int(domain.AIPiece)})
	log.Info().Str("room", room.ID).Str("player1", first.ID()).Str("player2", p.ID()).Msg("[RELAY] room started")
	room.announceTurn()
}

// HandleMove applies a move from peerID. Rule violations are returned to the caller,
// which reports them to the peer; the room stays as it was.
func (h *Hub) HandleMove(peerID string, column int) error {
	h.mu.Lock()
	room, exists := h.byPeer[peerID]
	h.mu.Unlock()
	if !exists {
		return ErrNotInRoom
	}

	room.mu.Lock()
	piece := room.pieceOf(peerID)
	if _, err := room.Game.MakeMove(piece, column); err != nil {
		room.mu.Unlock()
		return err
	}
	room.lastActivity.Store(h.now().UnixNano())

	if !room.Game.IsFinished() {
		room.announceTurn()
		room.mu.Unlock()
		return nil
	}

	room.broadcast(ServerMessage{Type: MsgBoard, Board: room.Game.Board.Rows(), CurrentPlayer: int(room.Game.CurrentPlayer)})
	if room.Game.Status == domain.StatusWon {
		room.broadcast(ServerMessage{Type: MsgWin, Winner: int(room.Game.Winner)})
		log.Info().Str("room", room.ID).Int("winner", int(room.Game.Winner)).Int("moves", room.Game.MoveCount).Msg("[RELAY] game won")
	} else {
		room.broadcast(ServerMessage{Type: MsgDraw})
		log.Info().Str("room", room.ID).Msg("[RELAY] game drawn")
	}
	room.mu.Unlock()

	h.removeRoom(room)
	room.closeAll()
	return nil
}

// Leave forgets peerID. If it was seated in a live room, its opponent is told and
// disconnected as well.
func (h *Hub) Leave(peerID string) {
	h.mu.Lock()
	if h.waiting != nil && h.waiting.ID() == peerID {
		h.waiting, h.waitingReady = nil, nil
		h.mu.Unlock()
		log.Info().Str("peer", peerID).Msg("[RELAY] left the queue")
		return
	}
	room, exists := h.byPeer[peerID]
	h.mu.Unlock()
	if !exists {
		return
	}

	h.removeRoom(room)

	room.mu.Lock()
	opponent := room.peer(domain.Opponent(room.pieceOf(peerID)))
	room.mu.Unlock()

	opponent.Send(ServerMessage{Type: MsgOpponentDisconnected})
	opponent.Close()
	log.Info().Str("room", room.ID).Str("peer", peerID).Msg("[RELAY] player disconnected, room closed")
}

func (h *Hub) removeRoom(room *Room) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.rooms, room.ID)
	for _, p := range room.seats {
		if h.byPeer[p.ID()] == room {
			delete(h.byPeer, p.ID())
		}
	}
}

// CleanupIdleRooms closes rooms with no move for longer than maxIdle.
func (h *Hub) CleanupIdleRooms(maxIdle time.Duration) int {
	cutoff := h.now().Add(-maxIdle)

	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.Unlock()

	var idle []*Room
	for _, room := range rooms {
		if room.lastActivity.Load() < cutoff.UnixNano() {
			idle = append(idle, room)
		}
	}

	for _, room := range idle {
		h.removeRoom(room)
		room.broadcast(ServerMessage{Type: MsgError, Message: "room closed after inactivity"})
		room.closeAll()
	}

	if len(idle) > 0 {
		log.Info().Int("removed", len(idle)).Msg("[RELAY] Memory cleanup: closed idle rooms")
	}
	return len(idle)
}

// Shutdown tells every connected peer the server is going away and closes them.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	peers := make([]Peer, 0, 2*len(h.rooms)+1)
	if h.waiting != nil {
		peers = append(peers, h.waiting)
		h.waiting, h.waitingReady = nil, nil
	}
	for _, room := range h.rooms {
		peers = append(peers, room.seats[0], room.seats[1])
	}
	h.rooms = make(map[string]*Room)
	h.byPeer = make(map[string]*Room)
	h.mu.Unlock()

	for _, p := range peers {
		p.Send(ServerMessage{Type: MsgServerShutdown})
		p.Close()
	}
	log.Info().Int("peers", len(peers)).Msg("[RELAY] shut down")
}

type Stats struct {
	ActiveRooms  int  `json:"active_rooms"`
	Waiting      bool `json:"player_waiting"`
	GamesStarted int  `json:"games_started"`
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	return Stats{
		ActiveRooms:  len(h.rooms),
		Waiting:      h.waiting != nil,
		GamesStarted: h.games,
	}
}
