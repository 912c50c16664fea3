package models

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func jsonKeys(t *testing.T, v any) map[string]json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestInsertProjections_OmitServerAssignedFields(t *testing.T) {
	cases := []struct {
		name      string
		insert    any
		forbidden []string
		required  []string
	}{
		{
			name:      "sensor_readings",
			insert:    SensorReadingInsert{Sensor1Value: 1, Sensor2Value: 2},
			forbidden: []string{"id", "created_at"},
			required:  []string{"sensor_1_value", "sensor_2_value", "sensor_3_value", "all_thresholds_met", "notes"},
		},
		{
			name:      "actuator_states",
			insert:    ActuatorStateInsert{Command: CommandMove},
			forbidden: []string{"id", "created_at"},
			required:  []string{"command", "triggered_by_reading_id", "executed_at", "notes"},
		},
		{
			name:      "threshold_config",
			insert:    ThresholdConfigInsert{SensorName: "sensor_1", ComparisonOperator: OpGreater},
			forbidden: []string{"id", "updated_at"},
			required:  []string{"sensor_name", "threshold_value", "comparison_operator", "is_active"},
		},
		{
			name:      "system_logs",
			insert:    SystemLogInsert{LogLevel: LevelInfo, Source: "dashboard", Message: "hi"},
			forbidden: []string{"id", "created_at"},
			required:  []string{"log_level", "source", "message"},
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			keys := jsonKeys(t, c.insert)
			for _, k := range c.forbidden {
				if _, ok := keys[k]; ok {
					t.Fatalf("insert projection must not carry %q: %v", k, keys)
				}
			}
			for _, k := range c.required {
				if _, ok := keys[k]; !ok {
					t.Fatalf("insert projection is missing %q: %v", k, keys)
				}
			}
		})
	}
}

func TestUpdateProjections_EmptySubset(t *testing.T) {
	for _, u := range []any{
		SensorReadingUpdate{},
		ActuatorStateUpdate{},
		ThresholdConfigUpdate{},
		SystemLogUpdate{},
	} {
		b, err := json.Marshal(u)
		if err != nil {
			t.Fatalf("marshal %T: %v", u, err)
		}
		if string(b) != "{}" {
			t.Fatalf("%T: empty update should encode as {}, got %s", u, b)
		}
		if v, ok := u.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				t.Fatalf("%T: empty update should validate, got %v", u, err)
			}
		}
	}
}

func TestSensorReadingUpdate_NullVersusUnset(t *testing.T) {
	v := 12.5
	u := SensorReadingUpdate{
		Sensor1Value: &v,
		Sensor3Value: Null[float64](),
	}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"sensor_1_value":12.5,"sensor_3_value":null}` {
		t.Fatalf("unexpected patch body: %s", b)
	}

	want := []Change{{"sensor_1_value", 12.5}, {"sensor_3_value", nil}}
	if got := u.Changes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("changes: got %#v, want %#v", got, want)
	}
}

func TestNullable_RoundTrip(t *testing.T) {
	var u ActuatorStateUpdate
	if err := json.Unmarshal([]byte(`{"notes":null,"triggered_by_reading_id":7}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !u.Notes.IsNull() {
		t.Fatalf("notes should be explicitly null")
	}
	if id, ok := u.TriggeredByReadingID.Get(); !ok || id != 7 {
		t.Fatalf("triggered_by_reading_id: got %v, %v", id, ok)
	}
	if !u.ExecutedAt.IsZero() {
		t.Fatalf("executed_at should be unset")
	}
	if u.Command != nil {
		t.Fatalf("command should be unset")
	}
}

func TestActuatorStateUpdate_Changes(t *testing.T) {
	at := time.Date(2025, 10, 26, 9, 0, 0, 0, time.UTC)
	cmd := CommandStop
	u := ActuatorStateUpdate{Command: &cmd, ExecutedAt: Value(at)}
	want := []Change{{"command", "stop"}, {"executed_at", at}}
	if got := u.Changes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestValidate_RejectsOutOfSetValues(t *testing.T) {
	pause := Command("pause")
	neq := ComparisonOperator("!=")
	warn := LogLevel("warn")
	nan := math.NaN()

	cases := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"insert command pause", ActuatorStateInsert{Command: pause}},
		{"insert command empty", ActuatorStateInsert{}},
		{"update command pause", ActuatorStateUpdate{Command: &pause}},
		{"insert operator", ThresholdConfigInsert{SensorName: "sensor_1", ComparisonOperator: neq}},
		{"update operator", ThresholdConfigUpdate{ComparisonOperator: &neq}},
		{"insert empty sensor name", ThresholdConfigInsert{SensorName: " ", ComparisonOperator: OpLess}},
		{"insert level", SystemLogInsert{LogLevel: warn, Source: "x"}},
		{"update level", SystemLogUpdate{LogLevel: &warn}},
		{"insert nan", SensorReadingInsert{Sensor1Value: nan}},
		{"update nan", SensorReadingUpdate{Sensor3Value: Value(math.Inf(1))}},
	}
	for _, c := range cases {
		if err := c.v.Validate(); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("%s: expected ErrInvalidValue, got %v", c.name, err)
		}
	}

	move := CommandMove
	if err := (ActuatorStateUpdate{Command: &move}).Validate(); err != nil {
		t.Fatalf("move should be valid: %v", err)
	}
}

func TestThresholdConfig_Holds(t *testing.T) {
	th := ThresholdConfig{SensorName: "sensor_2", ThresholdValue: 300, ComparisonOperator: OpGreaterEqual}
	if !th.Holds(300) || th.Holds(299.9) {
		t.Fatalf("threshold >= 300 evaluated wrongly")
	}
}
