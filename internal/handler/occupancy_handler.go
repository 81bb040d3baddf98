package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stepwise/stepwise-backend/internal/middleware"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
	"github.com/stepwise/stepwise-backend/internal/response"
	"github.com/stepwise/stepwise-backend/internal/service"
	ws "github.com/stepwise/stepwise-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// OccupancyHandler streams live class occupancy to admin dashboards.
type OccupancyHandler struct {
	feed         service.OccupancyFeed
	classService *service.ClassService
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewOccupancyHandler creates a new OccupancyHandler.
func NewOccupancyHandler(feed service.OccupancyFeed, classService *service.ClassService, log zerolog.Logger, allowedOrigins []string) *OccupancyHandler {
	return &OccupancyHandler{
		feed:         feed,
		classService: classService,
		log:          log.With().Str("component", "occupancy_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/admin/classes/:id/occupancy
// Upgrades to WebSocket and forwards every occupancy change for the
// class as it happens. The first message is a snapshot of the current
// occupancy. Admin role is enforced before the upgrade.
func (h *OccupancyHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if claims.Role != model.RoleAdmin {
		response.Fail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
		return
	}

	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Str("class_id", classID.String()).
		Str("admin_id", claims.AccountID.String()).
		Logger()

	wsLog.Info().Msg("Occupancy subscriber connected")

	if err := conn.WriteTyped(ws.OccupancyEvent{
		Event:       ws.EventSnapshot,
		ClassID:     classID.String(),
		BookedSpots: class.BookedSpots,
		MaxSpots:    class.MaxSpots,
		At:          time.Now().UTC(),
	}); err != nil {
		wsLog.Warn().Err(err).Msg("Snapshot write failed")
		return
	}

	events, stop := h.feed.Subscribe(c.Request.Context(), classID)
	defer stop()

	// Reader goroutine: answers pings and detects client close. Pong
	// writes go through the same write-locked Conn as event forwards.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				_ = conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteTyped(event); err != nil {
				wsLog.Debug().Err(err).Msg("Subscriber write failed")
				return
			}
		}
	}
}
