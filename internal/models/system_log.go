package models

import (
	"fmt"
	"strings"
	"time"
)

// SystemLog is an operational message written by the dashboard, the device or the edge function.
type SystemLog struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LogLevel  LogLevel  `json:"log_level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}

type SystemLogInsert struct {
	LogLevel LogLevel `json:"log_level"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

func (in SystemLogInsert) Validate() error {
	if !in.LogLevel.Valid() {
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, in.LogLevel)
	}
	if strings.TrimSpace(in.Source) == "" {
		return fmt.Errorf("%w: source is empty", ErrInvalidValue)
	}
	return nil
}

type SystemLogUpdate struct {
	LogLevel *LogLevel `json:"log_level,omitempty"`
	Source   *string   `json:"source,omitempty"`
	Message  *string   `json:"message,omitempty"`
}

func (u SystemLogUpdate) Validate() error {
	if u.LogLevel != nil && !u.LogLevel.Valid() {
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, *u.LogLevel)
	}
	if u.Source != nil && strings.TrimSpace(*u.Source) == "" {
		return fmt.Errorf("%w: source is empty", ErrInvalidValue)
	}
	return nil
}

func (u SystemLogUpdate) Changes() []Change {
	var out []Change
	if u.LogLevel != nil {
		out = append(out, Change{"log_level", string(*u.LogLevel)})
	}
	if u.Source != nil {
		out = append(out, Change{"source", *u.Source})
	}
	if u.Message != nil {
		out = append(out, Change{"message", *u.Message})
	}
	return out
}
