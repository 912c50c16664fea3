package models

import "time"

// SensorReading is a row of sensor_readings as read back from the store.
type SensorReading struct {
	ID               int64     `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Sensor1Value     float64   `json:"sensor_1_value"`
	Sensor2Value     float64   `json:"sensor_2_value"`
	Sensor3Value     *float64  `json:"sensor_3_value"`
	AllThresholdsMet bool      `json:"all_thresholds_met"`
	Notes            *string   `json:"notes"`
}

// SensorReadingInsert carries the client-supplied columns of a new reading.
// id and created_at are assigned by the store.
type SensorReadingInsert struct {
	Sensor1Value     float64  `json:"sensor_1_value"`
	Sensor2Value     float64  `json:"sensor_2_value"`
	Sensor3Value     *float64 `json:"sensor_3_value"`
	AllThresholdsMet bool     `json:"all_thresholds_met"`
	Notes            *string  `json:"notes"`
}

func (in SensorReadingInsert) Validate() error {
	if err := checkFinite("sensor_1_value", in.Sensor1Value); err != nil {
		return err
	}
	if err := checkFinite("sensor_2_value", in.Sensor2Value); err != nil {
		return err
	}
	if in.Sensor3Value != nil {
		return checkFinite("sensor_3_value", *in.Sensor3Value)
	}
	return nil
}

// SensorReadingUpdate is a partial write; unset fields are left untouched.
type SensorReadingUpdate struct {
	Sensor1Value     *float64          `json:"sensor_1_value,omitempty"`
	Sensor2Value     *float64          `json:"sensor_2_value,omitempty"`
	Sensor3Value     Nullable[float64] `json:"sensor_3_value,omitzero"`
	AllThresholdsMet *bool             `json:"all_thresholds_met,omitempty"`
	Notes            Nullable[string]  `json:"notes,omitzero"`
}

func (u SensorReadingUpdate) Validate() error {
	if u.Sensor1Value != nil {
		if err := checkFinite("sensor_1_value", *u.Sensor1Value); err != nil {
			return err
		}
	}
	if u.Sensor2Value != nil {
		if err := checkFinite("sensor_2_value", *u.Sensor2Value); err != nil {
			return err
		}
	}
	if v, ok := u.Sensor3Value.Get(); ok {
		return checkFinite("sensor_3_value", v)
	}
	return nil
}

// Changes returns the supplied columns in declaration order.
func (u SensorReadingUpdate) Changes() []Change {
	var out []Change
	if u.Sensor1Value != nil {
		out = append(out, Change{"sensor_1_value", *u.Sensor1Value})
	}
	if u.Sensor2Value != nil {
		out = append(out, Change{"sensor_2_value", *u.Sensor2Value})
	}
	if !u.Sensor3Value.IsZero() {
		out = append(out, Change{"sensor_3_value", u.Sensor3Value.SQLValue()})
	}
	if u.AllThresholdsMet != nil {
		out = append(out, Change{"all_thresholds_met", *u.AllThresholdsMet})
	}
	if !u.Notes.IsZero() {
		out = append(out, Change{"notes", u.Notes.SQLValue()})
	}
	return out
}
