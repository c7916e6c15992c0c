package controllers

import (
	"net/http"
	"strings"
	"time"

	"faculty-management-api/config"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
)

// EventStream pushes workflow events to connected clients, filtered by scope.
type EventStream struct {
	hub      *services.EventHub
	upgrader websocket.Upgrader
}

func NewEventStream(hub *services.EventHub) *EventStream {
	origins := config.GetenvList("CORS_ALLOWED_ORIGINS")
	return &EventStream{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				for _, o := range origins {
					if o == "*" || strings.EqualFold(strings.TrimRight(o, "/"), strings.TrimRight(origin, "/")) {
						return true
					}
				}
				return false
			},
		},
	}
}

// GET /api/v1/events/ws
func (s *EventStream) Serve(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	// Subscribe before the handshake completes so no event is missed.
	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		config.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	config.Log.Debug("event stream opened", zap.Uint("user_id", viewer.UserID))

	done := make(chan struct{})
	go s.readPump(conn, done)

	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		config.Log.Debug("event stream closed", zap.Uint("user_id", viewer.UserID))
	}()

	for {
		select {
		case <-done:
			return
		case evt, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(wsWriteWait))
				return
			}
			if !services.EventVisible(viewer, evt) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and keeps the read deadline fresh.
func (s *EventStream) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}
