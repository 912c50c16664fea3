package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
)

func newTestService(store *memStore) *Service {
	return NewService(store.repos(), Deps{Log: logger.Nop(), IngestSource: "edge-function"})
}

func addThreshold(t *testing.T, svc *Service, name string, op models.ComparisonOperator, v float64) {
	t.Helper()
	_, err := svc.CreateThreshold(context.Background(), models.ThresholdConfigInsert{
		SensorName: name, ThresholdValue: v, ComparisonOperator: op, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateThreshold: %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	th := func(name string, op models.ComparisonOperator, v float64) models.ThresholdConfig {
		return models.ThresholdConfig{SensorName: name, ComparisonOperator: op, ThresholdValue: v, IsActive: true}
	}

	tests := []struct {
		name        string
		active      []models.ThresholdConfig
		sample      Sample
		wantMet     bool
		wantUnknown int
	}{
		{name: "no thresholds is not met", sample: Sample{Sensor1: 99}},
		{
			name:    "single threshold holds",
			active:  []models.ThresholdConfig{th("sensor_1", models.OpGreater, 30)},
			sample:  Sample{Sensor1: 31},
			wantMet: true,
		},
		{
			name:   "one of two fails",
			active: []models.ThresholdConfig{th("sensor_1", models.OpGreater, 30), th("sensor_2", models.OpLess, 50)},
			sample: Sample{Sensor1: 31, Sensor2: 60},
		},
		{
			name:    "value suffix accepted",
			active:  []models.ThresholdConfig{th("Sensor_2_value", models.OpGreaterEqual, 50)},
			sample:  Sample{Sensor2: 50},
			wantMet: true,
		},
		{
			name:   "absent sensor_3 is not met",
			active: []models.ThresholdConfig{th("sensor_3", models.OpLessEqual, 1000)},
			sample: Sample{},
		},
		{
			name:        "unknown sensor is not met and reported",
			active:      []models.ThresholdConfig{th("sensor_1", models.OpGreater, 0), th("humidity", models.OpGreater, 0)},
			sample:      Sample{Sensor1: 1},
			wantUnknown: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ev := evaluate(tc.active, tc.sample)
			if ev.met != tc.wantMet || len(ev.unknown) != tc.wantUnknown {
				t.Fatalf("got met=%v unknown=%d; want met=%v unknown=%d", ev.met, len(ev.unknown), tc.wantMet, tc.wantUnknown)
			}
		})
	}
}

func TestIngest_IssuesCommandOnlyOnChange(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()
	addThreshold(t, svc, "sensor_1", models.OpGreater, 30)

	steps := []struct {
		temp    float64
		wantMet bool
		wantCmd models.Command // "" means no new command
	}{
		{temp: 25, wantMet: false, wantCmd: models.CommandStop},
		{temp: 26, wantMet: false},
		{temp: 31, wantMet: true, wantCmd: models.CommandMove},
		{temp: 35, wantMet: true},
		{temp: 29, wantMet: false, wantCmd: models.CommandStop},
	}

	for i, st := range steps {
		res, err := svc.Ingest(ctx, Sample{Sensor1: st.temp, Sensor2: 40})
		if err != nil {
			t.Fatalf("step %d: Ingest: %v", i, err)
		}
		if res.ThresholdsMet != st.wantMet || res.Reading.AllThresholdsMet != st.wantMet {
			t.Fatalf("step %d: met=%v stored=%v; want %v", i, res.ThresholdsMet, res.Reading.AllThresholdsMet, st.wantMet)
		}
		switch {
		case st.wantCmd == "" && res.Command != nil:
			t.Fatalf("step %d: unexpected command %q", i, res.Command.Command)
		case st.wantCmd != "" && (res.Command == nil || res.Command.Command != st.wantCmd):
			t.Fatalf("step %d: expected command %q, got %+v", i, st.wantCmd, res.Command)
		case res.Command != nil && *res.Command.TriggeredByReadingID != res.Reading.ID:
			t.Fatalf("step %d: command must reference reading %d", i, res.Reading.ID)
		}
	}

	if len(store.commands) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(store.commands))
	}
	if len(store.logs) != 3 {
		t.Fatalf("expected one log line per command, got %d", len(store.logs))
	}
	if store.logs[0].Source != "edge-function" {
		t.Fatalf("log source: got %q", store.logs[0].Source)
	}
}

func TestIngest_UnknownSensorWritesWarning(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	addThreshold(t, svc, "pressure", models.OpGreater, 1)

	if _, err := svc.Ingest(context.Background(), Sample{Sensor1: 1, Sensor2: 2}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	var warned bool
	for _, l := range store.logs {
		if l.LogLevel == models.LevelWarning && strings.Contains(l.Message, `"pressure"`) {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected warning naming the unknown sensor, got %+v", store.logs)
	}
}

func TestIngest_CommandFailureKeepsStoredReading(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*memStore)
	}{
		{name: "insert fails", setup: func(m *memStore) { m.failCommands = errors.New("actuator table down") }},
		{name: "latest lookup fails", setup: func(m *memStore) { m.failLatest = errors.New("actuator table down") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)
			tc.setup(store)

			res, err := svc.Ingest(context.Background(), Sample{Sensor1: 20, Sensor2: 40})
			if err != nil {
				t.Fatalf("Ingest must succeed once the reading is stored, got %v", err)
			}
			if res.Reading.ID == 0 || res.Command != nil {
				t.Fatalf("unexpected result: %+v", res)
			}
			if len(store.readings) != 1 || len(store.commands) != 0 {
				t.Fatalf("readings=%d commands=%d", len(store.readings), len(store.commands))
			}
			if len(store.logs) != 1 || store.logs[0].LogLevel != models.LevelWarning ||
				!strings.Contains(store.logs[0].Message, "actuator table down") {
				t.Fatalf("expected one warning naming the failure, got %+v", store.logs)
			}
		})
	}
}

func TestIngest_RejectsNonFiniteSample(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Ingest(context.Background(), Sample{Sensor1: math.NaN(), Sensor2: 1})
	if !errors.Is(err, models.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if len(store.readings) != 0 {
		t.Fatalf("invalid sample must not be stored")
	}
}

func TestLatestReading(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.LatestReading(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	for _, v := range []float64{1, 2, 3} {
		if _, err := svc.Ingest(ctx, Sample{Sensor1: v, Sensor2: v}); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
	}
	got, err := svc.LatestReading(ctx)
	if err != nil || got.Sensor1Value != 3 {
		t.Fatalf("LatestReading = %+v, %v", got, err)
	}
}

func TestListReadings_InvalidRange(t *testing.T) {
	svc := newTestService(newMemStore())
	now := mustTimeIn(fixedZone("UTC", 0), 2025, 10, 26, 12, 0, 0)

	_, err := svc.ListReadings(context.Background(), ReadingQuery{Since: now, Until: now.Add(-1)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
