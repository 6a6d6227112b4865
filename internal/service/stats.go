package service

import (
	"context"
	"fmt"

	"evento/internal/models"
)

type statsStore interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type StatsService struct {
	stats statsStore
}

func NewStatsService(stats statsStore) *StatsService {
	return &StatsService{stats: stats}
}

func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.stats.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return stats, nil
}
