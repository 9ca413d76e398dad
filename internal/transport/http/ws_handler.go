package http

import (
	"context"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/redischat/internal/core"
)

// Stream upgrades the request and forwards every delivery on :channel to
// the client as JSON until either side goes away. Client frames are ignored.
// GET /ws/:channel
func (h *Handlers) Stream(c *gin.Context) {
	channel := c.Param("channel")

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// CloseRead drains client frames and cancels ctx once the peer disconnects.
	ctx := conn.CloseRead(c.Request.Context())

	h.log.Debug().Str("channel", channel).Msg("ws stream opened")
	err = h.svc.Stream(ctx, channel, func(ev *core.Event) error {
		return wsjson.Write(ctx, conn, streamEventFromCore(ev))
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		if s := websocket.CloseStatus(err); s == websocket.StatusNormalClosure || s == websocket.StatusGoingAway {
			err = nil
		}
	}
	if err != nil && ctx.Err() == nil {
		h.log.Warn().Err(err).Str("channel", channel).Msg("ws stream closed with error")
		conn.Close(websocket.StatusInternalError, "stream failed")
		return
	}

	h.log.Debug().Str("channel", channel).Msg("ws stream closed")
	conn.Close(websocket.StatusNormalClosure, "closing")
}
