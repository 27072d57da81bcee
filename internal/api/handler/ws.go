package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Rrens/mika-travel/internal/api/middleware"
	"github.com/Rrens/mika-travel/internal/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// Frame types
const (
	FrameMessage  = "message"
	FrameOpen     = "open"
	FrameClose    = "close"
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outboundFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WebSocketHandler streams chat actions for one session over a socket
type WebSocketHandler struct {
	sessions    *session.Service
	limiter     middleware.Limiter
	readTimeout time.Duration
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler. An empty or "*"
// origin list accepts any origin. A nil limiter admits every frame.
func NewWebSocketHandler(sessions *session.Service, allowedOrigins []string, limiter middleware.Limiter) *WebSocketHandler {
	anyOrigin := len(allowedOrigins) == 0 || lo.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		sessions:    sessions,
		limiter:     limiter,
		readTimeout: wsReadTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || lo.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// WithReadTimeout sets how long an idle connection may stay silent. Pings
// go out at nine tenths of it.
func (h *WebSocketHandler) WithReadTimeout(d time.Duration) *WebSocketHandler {
	h.readTimeout = d
	return h
}

// Serve upgrades the connection; each inbound frame is applied as one
// serialized session action and answered with a snapshot
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.With().Str("session_id", id).Logger()
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()

	idle := func() error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
	idle()
	conn.SetPongHandler(func(string) error { return idle() })

	go pingLoop(ctx, conn, h.readTimeout*9/10)

	res, err := h.sessions.Snapshot(ctx, id)
	if !h.reply(conn, res, err) {
		return
	}

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		if !h.admit(ctx, id) {
			if !write(conn, outboundFrame{Type: FrameError, Data: "rate limit exceeded"}) {
				return
			}
			idle()
			continue
		}

		// A slow model reply must not count as client silence.
		conn.SetReadDeadline(time.Time{})

		var res session.Result
		switch frame.Type {
		case FrameMessage:
			res, err = h.sessions.SendChatMessage(ctx, id, frame.Text)
		case FrameOpen:
			res, err = h.sessions.OpenChat(ctx, id)
		case FrameClose:
			res, err = h.sessions.CloseChat(ctx, id)
		default:
			if !write(conn, outboundFrame{Type: FrameError, Data: "unknown frame type: " + frame.Type}) {
				return
			}
			idle()
			continue
		}

		if !h.reply(conn, res, err) {
			return
		}
		idle()
	}
}

// admit counts one inbound frame against the session's request budget.
// Limiter failures let the frame through.
func (h *WebSocketHandler) admit(ctx context.Context, id string) bool {
	if h.limiter == nil {
		return true
	}
	allowed, _, _, err := h.limiter.Allow(ctx, id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("rate limiter unavailable")
		return true
	}
	return allowed
}

func (h *WebSocketHandler) reply(conn *websocket.Conn, res session.Result, err error) bool {
	if err != nil {
		log.Error().Err(err).Msg("session action failed")
		return write(conn, outboundFrame{Type: FrameError, Data: "session unavailable"})
	}
	return write(conn, outboundFrame{Type: FrameSnapshot, Data: session.Project(res.State, res.Notices)})
}

func write(conn *websocket.Conn, frame outboundFrame) bool {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		log.Debug().Err(err).Msg("websocket write failed")
		return false
	}
	return true
}

func pingLoop(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
