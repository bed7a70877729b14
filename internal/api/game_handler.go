package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/feed"
	"github.com/ericogr/escape-the-danger/internal/service"
)

// AuthConfig controls operator authentication. An empty OperatorKey
// disables it and leaves the operator routes open.
type AuthConfig struct {
	OperatorKey   string
	SessionSecret string
	TokenTTL      time.Duration
}

// GameHandler groups all game-related HTTP handlers.
type GameHandler struct {
	svc  *service.Service
	hub  *feed.Hub
	auth AuthConfig
}

// NewGameHandler creates a GameHandler backed by svc. Spectator sockets
// subscribe to hub.
func NewGameHandler(svc *service.Service, hub *feed.Hub, auth AuthConfig) *GameHandler {
	if auth.TokenTTL <= 0 {
		auth.TokenTTL = 12 * time.Hour
	}
	return &GameHandler{svc: svc, hub: hub, auth: auth}
}

// gameID parses the :gameID path parameter, writing a 400 on failure.
func gameID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("gameID"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
		return 0, false
	}
	return uint(id), true
}
