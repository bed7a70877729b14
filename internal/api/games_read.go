package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
)

// ListItems returns the item catalog.
func (h *GameHandler) ListItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchItems})
		return
	}
	respond(c, http.StatusOK, items, nil)
}

// GetGame returns the spectator snapshot of a game.
func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	snap, err := h.svc.GameState(c.Request.Context(), id)
	respond(c, http.StatusOK, snap, err)
}

// ListEvents pages through a game's journal. Clients poll with ?after=<last id>.
func (h *GameHandler) ListEvents(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var after uint64
	if s := c.Query("after"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidAfter})
			return
		}
		after = n
	}
	limit := 100
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	events, err := h.svc.ListEvents(c.Request.Context(), id, uint(after), limit)
	respond(c, http.StatusOK, events, err)
}

// GetInventory lists what a role holds.
func (h *GameHandler) GetInventory(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	role, ok := parseRole(c, c.Param("role"))
	if !ok {
		return
	}
	inv, err := h.svc.Inventory(c.Request.Context(), id, role)
	respond(c, http.StatusOK, inv, err)
}
