package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/redischat/internal/core"
	"github.com/vovakirdan/redischat/internal/proto"
	"github.com/vovakirdan/redischat/internal/store"
)

var errBadBody = errors.New("bad request body")

// Handlers serves the REST side of the bridge.
type Handlers struct {
	svc *core.Service
	log *zerolog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(svc *core.Service, logger *zerolog.Logger) *Handlers {
	return &Handlers{svc: svc, log: logger}
}

// Health reports liveness.
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Weather looks up a city.
// GET /api/weather/:city
func (h *Handlers) Weather(c *gin.Context) {
	city := c.Param("city")
	report, err := h.svc.Weather(c.Request.Context(), city)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, proto.WeatherResponse{City: city, Report: report})
}

// Fact returns a random fact.
// GET /api/fact
func (h *Handlers) Fact(c *gin.Context) {
	fact, err := h.svc.Fact(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, proto.FactResponse{Fact: fact})
}

// Profile returns a stored user profile.
// GET /api/users/:name
func (h *Handlers) Profile(c *gin.Context) {
	p, err := h.svc.Profile(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse(p))
}

// SaveProfile stores or overwrites a user profile.
// PUT /api/users/:name
func (h *Handlers) SaveProfile(c *gin.Context) {
	var req proto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid profile request")
		h.fail(c, errBadBody)
		return
	}

	p := store.Profile{
		Username: c.Param("name"),
		Age:      req.Age,
		Gender:   req.Gender,
		Location: req.Location,
	}
	if err := h.svc.SaveProfile(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info().Str("user", p.Username).Msg("profile saved")
	c.JSON(http.StatusOK, profileResponse(&p))
}

// History lists recent channel messages, oldest first.
// GET /api/history/:channel?count=N
func (h *Handlers) History(c *gin.Context) {
	channel := c.Param("channel")

	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.fail(c, fmt.Errorf("count %q: %w", raw, errBadBody))
			return
		}
		count = n
	}

	entries, err := h.svc.History(c.Request.Context(), channel, count)
	if err != nil {
		h.fail(c, err)
		return
	}
	if entries == nil {
		entries = []string{}
	}
	c.JSON(http.StatusOK, proto.HistoryResponse{Channel: channel, Messages: entries})
}

// PostChannelMessage publishes on behalf of an identified user.
// POST /api/channels/:channel/messages
func (h *Handlers) PostChannelMessage(c *gin.Context) {
	var req proto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid publish request")
		h.fail(c, errBadBody)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.svc.Profile(ctx, req.User); err != nil {
		h.fail(c, err)
		return
	}

	channel := c.Param("channel")
	line, err := h.svc.Publish(ctx, req.User, channel, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, proto.MessageResponse{Channel: channel, Message: line})
}

// PostPrivateMessage sends a direct message to :name.
// POST /api/users/:name/messages
func (h *Handlers) PostPrivateMessage(c *gin.Context) {
	var req proto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid private message request")
		h.fail(c, errBadBody)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.svc.Profile(ctx, req.User); err != nil {
		h.fail(c, err)
		return
	}

	recipient := c.Param("name")
	line, err := h.svc.PublishPrivate(ctx, req.User, recipient, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, proto.MessageResponse{Channel: core.PrivateChannel(recipient), Message: line})
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status, body := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, body)
}
