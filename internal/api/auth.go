package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/logging"
)

type TokenRequest struct {
	Key string `json:"key" binding:"required"`
}

// IssueToken exchanges the operator key for a session token. The token is
// returned in the body and also set as a cookie for browser dashboards.
func (h *GameHandler) IssueToken(c *gin.Context) {
	if h.auth.OperatorKey == "" {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrAuthDisabled})
		return
	}
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.auth.OperatorKey)) != 1 {
		logging.Warn("rejected operator key", logging.Fields{constants.LogFieldClientIP: c.ClientIP()})
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidOperator})
		return
	}
	secret, err := getSessionSecret(h.auth.SessionSecret)
	if err != nil {
		writeError(c, err)
		return
	}
	token, exp, err := createSessionToken(secret, h.auth.TokenTTL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.SetCookie(constants.CookieSessionName, token, int(h.auth.TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyToken:     token,
		constants.JSONKeyExpiresAt: exp.UTC(),
	})
}

// OperatorRequired accepts a Bearer token or the session cookie. With
// authentication disabled every request passes.
func (h *GameHandler) OperatorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.auth.OperatorKey == "" {
			c.Next()
			return
		}
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(constants.CookieSessionName)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		secret, err := getSessionSecret(h.auth.SessionSecret)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		if _, err := parseAndValidateSession(secret, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader(constants.HeaderAuthorization)
	if !strings.HasPrefix(h, constants.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, constants.BearerPrefix))
}
