package models

import (
	"fmt"
	"time"
)

// ActuatorState is a recorded actuator command.
// TriggeredByReadingID points at a sensor reading without owning it.
type ActuatorState struct {
	ID                   int64      `json:"id"`
	CreatedAt            time.Time  `json:"created_at"`
	Command              Command    `json:"command"`
	TriggeredByReadingID *int64     `json:"triggered_by_reading_id"`
	ExecutedAt           *time.Time `json:"executed_at"`
	Notes                *string    `json:"notes"`
}

// Executed reports whether the device acknowledged the command.
func (a ActuatorState) Executed() bool { return a.ExecutedAt != nil }

type ActuatorStateInsert struct {
	Command              Command    `json:"command"`
	TriggeredByReadingID *int64     `json:"triggered_by_reading_id"`
	ExecutedAt           *time.Time `json:"executed_at"`
	Notes                *string    `json:"notes"`
}

func (in ActuatorStateInsert) Validate() error {
	if !in.Command.Valid() {
		return fmt.Errorf("%w: command %q (want stop or move)", ErrInvalidValue, in.Command)
	}
	return nil
}

type ActuatorStateUpdate struct {
	Command              *Command            `json:"command,omitempty"`
	TriggeredByReadingID Nullable[int64]     `json:"triggered_by_reading_id,omitzero"`
	ExecutedAt           Nullable[time.Time] `json:"executed_at,omitzero"`
	Notes                Nullable[string]    `json:"notes,omitzero"`
}

func (u ActuatorStateUpdate) Validate() error {
	if u.Command != nil && !u.Command.Valid() {
		return fmt.Errorf("%w: command %q (want stop or move)", ErrInvalidValue, *u.Command)
	}
	return nil
}

func (u ActuatorStateUpdate) Changes() []Change {
	var out []Change
	if u.Command != nil {
		out = append(out, Change{"command", string(*u.Command)})
	}
	if !u.TriggeredByReadingID.IsZero() {
		out = append(out, Change{"triggered_by_reading_id", u.TriggeredByReadingID.SQLValue()})
	}
	if !u.ExecutedAt.IsZero() {
		out = append(out, Change{"executed_at", u.ExecutedAt.SQLValue()})
	}
	if !u.Notes.IsZero() {
		out = append(out, Change{"notes", u.Notes.SQLValue()})
	}
	return out
}
