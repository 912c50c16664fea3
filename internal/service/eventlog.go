package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

type SystemLogService struct {
	logs repository.SystemLogs
}

func NewSystemLogService(logs repository.SystemLogs) *SystemLogService {
	return &SystemLogService{logs: logs}
}

var errInvalidTimeRange = fmt.Errorf("%w: time range start must not be after its end", ErrInvalidInput)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeRange converts both bounds to UTC and rejects from > to.
func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = normalizeToUTC(from), normalizeToUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, errInvalidTimeRange
	}
	return from, to, nil
}

// normalizeLevel accepts an empty filter or any known level in any case.
func normalizeLevel(s string) (models.LogLevel, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return models.ParseLogLevel(s)
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (repository.LogFilter, error) {
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return repository.LogFilter{}, err
	}
	level, err := normalizeLevel(f.Level)
	if err != nil {
		return repository.LogFilter{}, err
	}
	return repository.LogFilter{
		From:   from,
		To:     to,
		Level:  level,
		Source: strings.TrimSpace(f.Source),
		Limit:  clampLimit(f.Limit),
	}, nil
}

func (s *SystemLogService) ListLogs(ctx context.Context, f LogFilter) ([]models.SystemLog, error) {
	rf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.logs.List(ctx, rf)
}

func (s *SystemLogService) AppendLog(ctx context.Context, in models.SystemLogInsert) (models.SystemLog, error) {
	in.Source = strings.TrimSpace(in.Source)
	return s.logs.Insert(ctx, in)
}

// auditor records notable events in system_logs. A failed write is logged
// and swallowed so it never fails the operation being audited.
type auditor struct {
	logs repository.SystemLogs
	log  *logger.Logger
}

func newAuditor(logs repository.SystemLogs, log *logger.Logger) *auditor {
	return &auditor{logs: logs, log: log}
}

func (a *auditor) record(ctx context.Context, level models.LogLevel, source, msg string) {
	_, err := a.logs.Insert(ctx, models.SystemLogInsert{LogLevel: level, Source: source, Message: msg})
	if err != nil {
		a.log.Warnw("system_log_write_failed", "source", source, "message", msg, "error", err)
	}
}
