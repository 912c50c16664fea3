package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidValue is returned when an enumerated column receives a value outside its set.
var ErrInvalidValue = errors.New("invalid value")

// Command is the instruction recorded for the actuator (servo).
type Command string

const (
	CommandStop Command = "stop"
	CommandMove Command = "move"
)

// Commands lists every accepted actuator command.
var Commands = []Command{CommandStop, CommandMove}

func (c Command) Valid() bool { return slices.Contains(Commands, c) }

// ParseCommand trims and lowercases s before matching it.
func ParseCommand(s string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: command %q (want stop or move)", ErrInvalidValue, s)
	}
	return c, nil
}

func (c *Command) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: command must be a string", ErrInvalidValue)
	}
	parsed, err := ParseCommand(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ComparisonOperator compares a live sensor value against a threshold.
type ComparisonOperator string

const (
	OpGreater      ComparisonOperator = ">"
	OpLess         ComparisonOperator = "<"
	OpGreaterEqual ComparisonOperator = ">="
	OpLessEqual    ComparisonOperator = "<="
	OpEqual        ComparisonOperator = "="
)

// ComparisonOperators lists every accepted operator.
var ComparisonOperators = []ComparisonOperator{OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual}

func (o ComparisonOperator) Valid() bool { return slices.Contains(ComparisonOperators, o) }

// Compare reports whether "value <op> threshold" holds. Unknown operators never hold.
func (o ComparisonOperator) Compare(value, threshold float64) bool {
	switch o {
	case OpGreater:
		return value > threshold
	case OpLess:
		return value < threshold
	case OpGreaterEqual:
		return value >= threshold
	case OpLessEqual:
		return value <= threshold
	case OpEqual:
		return value == threshold
	}
	return false
}

func ParseComparisonOperator(s string) (ComparisonOperator, error) {
	o := ComparisonOperator(strings.TrimSpace(s))
	if !o.Valid() {
		return "", fmt.Errorf("%w: comparison_operator %q (want one of > < >= <= =)", ErrInvalidValue, s)
	}
	return o, nil
}

func (o *ComparisonOperator) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: comparison_operator must be a string", ErrInvalidValue)
	}
	parsed, err := ParseComparisonOperator(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// LogLevel is the severity of a system_logs entry.
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// LogLevels lists every accepted level, least severe first.
var LogLevels = []LogLevel{LevelInfo, LevelWarning, LevelError}

func (l LogLevel) Valid() bool { return slices.Contains(LogLevels, l) }

func ParseLogLevel(s string) (LogLevel, error) {
	l := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: log_level %q (want info, warning or error)", ErrInvalidValue, s)
	}
	return l, nil
}

func (l *LogLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: log_level must be a string", ErrInvalidValue)
	}
	parsed, err := ParseLogLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
