package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/game"
)

type RolePayload struct {
	Role string `json:"role" binding:"required"`
}

type MovePayload struct {
	Role     string      `json:"role" binding:"required"`
	Distance interface{} `json:"distance"`
}

type UseItemPayload struct {
	Role string `json:"role" binding:"required"`
	Item string `json:"item" binding:"required"`
}

type HealthPayload struct {
	Role   string `json:"role" binding:"required"`
	Amount int    `json:"amount"`
}

type StatusPayload struct {
	Role   string `json:"role" binding:"required"`
	Status string `json:"status" binding:"required"`
	Rounds int    `json:"rounds"`
}

type InventoryPayload struct {
	Role   string `json:"role" binding:"required"`
	Item   string `json:"item" binding:"required"`
	Amount int    `json:"amount"`
}

type DonationPayload struct {
	Username string `json:"username"`
	Bits     int    `json:"bits"`
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest, constants.JSONKeyDetails: err.Error()})
		return false
	}
	return true
}

func parseRole(c *gin.Context, s string) (game.Role, bool) {
	r, err := game.ParseRole(s)
	if err != nil {
		writeError(c, err)
		return "", false
	}
	return r, true
}

// Move shifts a role along the track.
func (h *GameHandler) Move(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req MovePayload
	if !bind(c, &req) {
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}
	distance, err := parseDistance(req.Distance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDistance})
		return
	}
	res, err := h.svc.Move(c.Request.Context(), id, role, distance)
	respond(c, http.StatusOK, res, err)
}

// DrawCard draws a chance card for a role outside the turn schedule.
func (h *GameHandler) DrawCard(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req RolePayload
	if !bind(c, &req) {
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}
	res, err := h.svc.DrawCard(c.Request.Context(), id, role)
	respond(c, http.StatusOK, res, err)
}

func (h *GameHandler) UseItem(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req UseItemPayload
	if !bind(c, &req) {
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}
	res, err := h.svc.UseItem(c.Request.Context(), id, role, req.Item)
	respond(c, http.StatusOK, res, err)
}

func (h *GameHandler) AdjustHealth(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req HealthPayload
	if !bind(c, &req) {
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}
	res, err := h.svc.AdjustHealth(c.Request.Context(), id, role, req.Amount)
	respond(c, http.StatusOK, res, err)
}

func (h *GameHandler) GrantStatus(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req StatusPayload
	if !bind(c, &req) {
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}
	res, err := h.svc.GrantStatus(c.Request.Context(), id, role, req.Status, req.Rounds)
	respond(c, http.StatusOK, res, err)
}

// AddInventory grants (or, with a negative amount, removes) items.
func (h *GameHandler) AddInventory(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req InventoryPayload
	if !bind(c, &req) {
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}
	res, err := h.svc.AddInventory(c.Request.Context(), id, role, req.Item, req.Amount)
	respond(c, http.StatusOK, res, err)
}

// Donate turns a viewer donation into items for the streamer.
func (h *GameHandler) Donate(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req DonationPayload
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.Donate(c.Request.Context(), id, req.Username, req.Bits)
	respond(c, http.StatusOK, res, err)
}
