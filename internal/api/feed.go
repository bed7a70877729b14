package api

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/logging"
)

const feedWriteTimeout = 5 * time.Second

// Feed streams committed event batches of a game over a websocket. The
// socket is write-only; a client that falls behind loses messages and
// resynchronizes through the events endpoint.
func (h *GameHandler) Feed(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	if _, err := h.svc.GameState(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logging.Warn(constants.ErrWebsocketUpgrade, logging.Fields{constants.LogFieldGameID: id, "err": err.Error()})
		return
	}
	defer conn.CloseNow()

	msgs, cancel := h.hub.Subscribe(id)
	defer cancel()

	ctx := conn.CloseRead(c.Request.Context())
	logging.Debug("feed subscriber connected", logging.Fields{constants.LogFieldGameID: id, constants.LogFieldClientIP: c.ClientIP()})

	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-msgs:
			if !open {
				conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			out, err := MarshalIntoSnakeTimestamps(msg)
			if err != nil {
				conn.Close(websocket.StatusInternalError, constants.ErrInternal)
				return
			}
			wctx, done := context.WithTimeout(ctx, feedWriteTimeout)
			err = wsjson.Write(wctx, conn, out)
			done()
			if err != nil {
				return
			}
		}
	}
}
