package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

const (
	wsTypeSnapshot = "snapshot"
	wsTypeRefresh  = "refresh"

	errSnapshotUnavailable = "snapshot unavailable"
)

// wsEnvelope is every frame sent to the dashboard.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsRequest is what the dashboard may send; only refresh is understood.
type wsRequest struct {
	Type string `json:"type"`
}

// The dashboard is served from a different origin than the API.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Live snapshot stream
// @Description  WebSocket. Pushes {"type":"snapshot","data":{"reading":...,"actuator":...}} every interval (default 1s, max 10s). Send {"type":"refresh"} for an immediate snapshot, e.g. right after issuing a command.
// @Tags         system
// @Param        interval     query  string  false  "Push interval, e.g. 2s"
// @Param        interval_ms  query  int     false  "Push interval in milliseconds"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := streamInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err, "request_id", requestID(c))
		}
		return
	}
	s := &snapshotStream{
		conn:     conn,
		source:   h.services.Monitoring,
		log:      h.log,
		interval: interval,
		refresh:  make(chan struct{}, 1),
	}
	s.serve(c.Request.Context())
}

// streamInterval reads ?interval=2s or ?interval_ms=2000; out-of-range values fall back to the default.
func streamInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// snapshotStream owns one dashboard connection. serve is the only writer.
type snapshotStream struct {
	conn     *websocket.Conn
	source   service.Monitoring
	log      *logger.Logger
	interval time.Duration
	refresh  chan struct{}
}

func (s *snapshotStream) serve(ctx context.Context) {
	defer func() { _ = s.conn.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.listen(cancel)

	tick := time.NewTicker(s.interval)
	defer tick.Stop()
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()

	if err := s.push(ctx); err != nil {
		s.debug("ws_write_failed", "err", err)
		return
	}
	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = s.conn.WriteMessage(websocket.PingMessage, nil)
		case <-tick.C:
			err = s.push(ctx)
		case <-s.refresh:
			err = s.push(ctx)
			tick.Reset(s.interval)
		}
		if err != nil {
			s.debug("ws_write_failed", "err", err)
			return
		}
	}
}

// listen consumes client frames until the connection drops, then cancels the stream.
func (s *snapshotStream) listen(cancel context.CancelFunc) {
	defer cancel()
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.debug("ws_read_closed", "err", err)
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		var req wsRequest
		if json.Unmarshal(payload, &req) != nil || req.Type != wsTypeRefresh {
			continue
		}
		select {
		case s.refresh <- struct{}{}:
		default: // one pending refresh is enough
		}
	}
}

// push sends the current snapshot. A failed lookup becomes an error frame
// and keeps the stream open; only write errors end it.
func (s *snapshotStream) push(ctx context.Context) error {
	msg := wsEnvelope{Type: wsTypeSnapshot}
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("ws_snapshot_failed", "err", err)
		}
		msg.Error = errSnapshotUnavailable
	} else {
		msg.Data = snap
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *snapshotStream) debug(key string, kv ...interface{}) {
	if s.log != nil {
		s.log.Debugw(key, kv...)
	}
}
