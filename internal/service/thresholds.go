package service

import (
	"context"
	"strings"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

type ThresholdService struct {
	repo repository.ThresholdConfigs
}

func NewThresholdService(repo repository.ThresholdConfigs) *ThresholdService {
	return &ThresholdService{repo: repo}
}

func (s *ThresholdService) ListThresholds(ctx context.Context, activeOnly bool) ([]models.ThresholdConfig, error) {
	return s.repo.List(ctx, repository.ThresholdFilter{ActiveOnly: activeOnly})
}

func (s *ThresholdService) CreateThreshold(ctx context.Context, in models.ThresholdConfigInsert) (models.ThresholdConfig, error) {
	in.SensorName = strings.TrimSpace(in.SensorName)
	return s.repo.Insert(ctx, in)
}

func (s *ThresholdService) UpdateThreshold(ctx context.Context, id int64, patch models.ThresholdConfigUpdate) (models.ThresholdConfig, error) {
	if patch.SensorName != nil {
		name := strings.TrimSpace(*patch.SensorName)
		patch.SensorName = &name
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return models.ThresholdConfig{}, err
	}
	if updated == nil {
		return models.ThresholdConfig{}, ErrNotFound
	}
	return *updated, nil
}
