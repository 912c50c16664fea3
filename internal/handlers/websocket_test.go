package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestStreamInterval(t *testing.T) {
	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := streamInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func dialWS(t *testing.T, s *service.Service, query string) *websocket.Conn {
	t.Helper()
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func TestWebSocket_SnapshotStream_InitialAndPeriodic(t *testing.T) {
	s3 := 312.0
	mon := &mockMonitoring{snap: service.Snapshot{
		Reading:  &models.SensorReading{ID: 7, Sensor1Value: 27.4, Sensor2Value: 61, Sensor3Value: &s3, AllThresholdsMet: true},
		Actuator: &models.ActuatorState{ID: 3, Command: models.CommandMove},
	}}
	conn := dialWS(t, &service.Service{Monitoring: mon}, "interval_ms=20")

	// Read initial snapshot
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "snapshot" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var snap struct {
		Reading  models.SensorReading `json:"reading"`
		Actuator models.ActuatorState `json:"actuator"`
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.Reading.ID != 7 || !snap.Reading.AllThresholdsMet || snap.Actuator.Command != models.CommandMove {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	// Read a subsequent tick
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "snapshot" {
		t.Fatalf("expected type=snapshot, got %+v", env)
	}
}

func TestWebSocket_EmptySnapshotHasNullFields(t *testing.T) {
	conn := dialWS(t, &service.Service{Monitoring: &mockMonitoring{}}, "")

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if string(env.Data) != `{"reading":null,"actuator":null}` {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestWebSocket_SnapshotError_SendsErrorFrame(t *testing.T) {
	conn := dialWS(t, &service.Service{Monitoring: &mockMonitoring{err: errors.New("boom")}}, "")

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Type != "snapshot" || env.Error == "" || len(env.Data) != 0 {
		t.Fatalf("expected error frame, got %+v", env)
	}
}

func TestWebSocket_RefreshPushesImmediately(t *testing.T) {
	mon := &mockMonitoring{snap: service.Snapshot{Actuator: &models.ActuatorState{ID: 4, Command: models.CommandStop}}}
	conn := dialWS(t, &service.Service{Monitoring: mon}, "interval=10s")

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}

	// unknown requests are ignored
	if err := conn.WriteJSON(map[string]string{"type": "subscribe"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(map[string]string{"type": "refresh"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("expected a snapshot well before the 10s tick: %v", err)
	}
	if env.Type != "snapshot" || len(env.Data) == 0 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
