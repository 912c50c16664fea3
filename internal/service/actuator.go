package service

import (
	"context"
	"fmt"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

const sourceDashboard = "dashboard"

type ActuatorService struct {
	repo  repository.ActuatorStates
	audit *auditor
	now   func() time.Time
}

func NewActuatorService(repo repository.ActuatorStates, audit *auditor) *ActuatorService {
	return &ActuatorService{repo: repo, audit: audit, now: time.Now}
}

func (s *ActuatorService) LatestCommand(ctx context.Context) (models.ActuatorState, error) {
	latest, err := latestCommand(ctx, s.repo)
	if err != nil {
		return models.ActuatorState{}, err
	}
	if latest == nil {
		return models.ActuatorState{}, ErrNotFound
	}
	return *latest, nil
}

// IssueCommand records a manual command from the dashboard.
func (s *ActuatorService) IssueCommand(ctx context.Context, p CommandParams) (models.ActuatorState, error) {
	cmd, err := s.repo.Insert(ctx, models.ActuatorStateInsert{
		Command:              p.Command,
		TriggeredByReadingID: p.ReadingID,
		Notes:                p.Notes,
	})
	if err != nil {
		return models.ActuatorState{}, err
	}
	s.audit.record(ctx, models.LevelInfo, sourceDashboard, fmt.Sprintf("manual actuator command %s (id %d)", cmd.Command, cmd.ID))
	return cmd, nil
}

// MarkExecuted stamps executed_at, defaulting to now. Marking an executed
// command again returns it unchanged.
func (s *ActuatorService) MarkExecuted(ctx context.Context, id int64, at time.Time) (models.ActuatorState, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.ActuatorState{}, err
	}
	if cur == nil {
		return models.ActuatorState{}, ErrNotFound
	}
	if cur.Executed() {
		return *cur, nil
	}

	if at.IsZero() {
		at = s.now()
	}
	updated, err := s.repo.Update(ctx, id, models.ActuatorStateUpdate{ExecutedAt: models.Value(at.UTC())})
	if err != nil {
		return models.ActuatorState{}, err
	}
	if updated == nil {
		return models.ActuatorState{}, ErrNotFound
	}
	return *updated, nil
}
