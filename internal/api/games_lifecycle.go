package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/service"
)

// StartGame creates a new game. Only one game may be live at a time.
func (h *GameHandler) StartGame(c *gin.Context) {
	res, err := h.svc.StartGame(c.Request.Context())
	respond(c, http.StatusCreated, res, err)
}

// ActiveGame returns the live game, active or paused.
func (h *GameHandler) ActiveGame(c *gin.Context) {
	g, err := h.svc.ActiveGame(c.Request.Context())
	respond(c, http.StatusOK, g, err)
}

func (h *GameHandler) PauseGame(c *gin.Context) {
	h.command(c, h.svc.PauseGame)
}

func (h *GameHandler) ResumeGame(c *gin.Context) {
	h.command(c, h.svc.ResumeGame)
}

func (h *GameHandler) EndGame(c *gin.Context) {
	h.command(c, h.svc.EndGame)
}

// AdvanceTurn resolves one turn. The vote tallier calls this once per round.
func (h *GameHandler) AdvanceTurn(c *gin.Context) {
	h.command(c, h.svc.AdvanceTurn)
}

// command runs a body-less per-game command.
func (h *GameHandler) command(c *gin.Context, fn func(ctx context.Context, gameID uint) (*service.Result, error)) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	res, err := fn(c.Request.Context(), id)
	respond(c, http.StatusOK, res, err)
}
