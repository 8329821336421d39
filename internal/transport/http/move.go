package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/game"
	"github.com/iamasit07/connect4-ai/internal/service/relay"
)

type MoveHandler struct {
	SessionManager *game.SessionManager
	Hub            *relay.Hub
}

func NewMoveHandler(sm *game.SessionManager, hub *relay.Hub) *MoveHandler {
	return &MoveHandler{SessionManager: sm, Hub: hub}
}

type moveRequest struct {
	Board         [][]int `json:"board" binding:"required"`
	CurrentPlayer int     `json:"current_player" binding:"required"`
	ValidMoves    []int   `json:"valid_moves"`
	IsNewGame     bool    `json:"is_new_game"`
	SessionID     string  `json:"session_id"`
}

type moveResponse struct {
	Move int `json:"move"`
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": detail})
}

// SelectMove answers POST /api/connect4-move with the column the engine plays for
// current_player.
func (h *MoveHandler) SelectMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	board, err := domain.FromRows(req.Board)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	ai := domain.Cell(req.CurrentPlayer)
	if ai != domain.PlayerPiece && ai != domain.AIPiece {
		badRequest(c, "current_player must be 1 or 2")
		return
	}

	col, err := h.SessionManager.SelectMove(c.Request.Context(), req.SessionID, board, ai, req.ValidMoves, req.IsNewGame)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoLegalMoves), errors.Is(err, domain.ErrInvalidMove):
		badRequest(c, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "request cancelled"})
		return
	default:
		log.Error().Err(err).Msg("[HTTP] move selection failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
		return
	}

	log.Info().Str("session", req.SessionID).Int("player", req.CurrentPlayer).Int("move", col).Msg("[HTTP] move selected")
	c.JSON(http.StatusOK, moveResponse{Move: col})
}

func (h *MoveHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
}

func (h *MoveHandler) Stats(c *gin.Context) {
	resp := gin.H{"engine": h.SessionManager.Stats()}
	if h.Hub != nil {
		resp["relay"] = h.Hub.Stats()
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSession hands out a session id; moves sent with it get their own engine.
func (h *MoveHandler) CreateSession(c *gin.Context) {
	session := h.SessionManager.CreateSession()
	c.JSON(http.StatusCreated, gin.H{"session_id": session.ID})
}

func (h *MoveHandler) EndSession(c *gin.Context) {
	if !h.SessionManager.EndSession(c.Param("id")) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
