package models

import (
	"fmt"
	"strings"
	"time"
)

// ThresholdConfig is a rule evaluated against incoming readings.
type ThresholdConfig struct {
	ID                 int64              `json:"id"`
	SensorName         string             `json:"sensor_name"`
	ThresholdValue     float64            `json:"threshold_value"`
	ComparisonOperator ComparisonOperator `json:"comparison_operator"`
	IsActive           bool               `json:"is_active"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Holds reports whether value satisfies this threshold.
func (t ThresholdConfig) Holds(value float64) bool {
	return t.ComparisonOperator.Compare(value, t.ThresholdValue)
}

// ThresholdConfigInsert omits id and updated_at, both owned by the store.
type ThresholdConfigInsert struct {
	SensorName         string             `json:"sensor_name"`
	ThresholdValue     float64            `json:"threshold_value"`
	ComparisonOperator ComparisonOperator `json:"comparison_operator"`
	IsActive           bool               `json:"is_active"`
}

func (in ThresholdConfigInsert) Validate() error {
	if strings.TrimSpace(in.SensorName) == "" {
		return fmt.Errorf("%w: sensor_name is empty", ErrInvalidValue)
	}
	if err := checkFinite("threshold_value", in.ThresholdValue); err != nil {
		return err
	}
	if !in.ComparisonOperator.Valid() {
		return fmt.Errorf("%w: comparison_operator %q", ErrInvalidValue, in.ComparisonOperator)
	}
	return nil
}

type ThresholdConfigUpdate struct {
	SensorName         *string             `json:"sensor_name,omitempty"`
	ThresholdValue     *float64            `json:"threshold_value,omitempty"`
	ComparisonOperator *ComparisonOperator `json:"comparison_operator,omitempty"`
	IsActive           *bool               `json:"is_active,omitempty"`
}

func (u ThresholdConfigUpdate) Validate() error {
	if u.SensorName != nil && strings.TrimSpace(*u.SensorName) == "" {
		return fmt.Errorf("%w: sensor_name is empty", ErrInvalidValue)
	}
	if u.ThresholdValue != nil {
		if err := checkFinite("threshold_value", *u.ThresholdValue); err != nil {
			return err
		}
	}
	if u.ComparisonOperator != nil && !u.ComparisonOperator.Valid() {
		return fmt.Errorf("%w: comparison_operator %q", ErrInvalidValue, *u.ComparisonOperator)
	}
	return nil
}

func (u ThresholdConfigUpdate) Changes() []Change {
	var out []Change
	if u.SensorName != nil {
		out = append(out, Change{"sensor_name", *u.SensorName})
	}
	if u.ThresholdValue != nil {
		out = append(out, Change{"threshold_value", *u.ThresholdValue})
	}
	if u.ComparisonOperator != nil {
		out = append(out, Change{"comparison_operator", string(*u.ComparisonOperator)})
	}
	if u.IsActive != nil {
		out = append(out, Change{"is_active", *u.IsActive})
	}
	return out
}
