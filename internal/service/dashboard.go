package service

import (
	"context"
	"fmt"
	"time"

	"go-arsip/internal/model"
	"go-arsip/internal/repository"
)

const recentActivitiesLimit = 10

type dashboardService struct {
	files      repository.FileRepository
	activities ActivityService
}

func NewDashboardService(files repository.FileRepository, activities ActivityService) DashboardService {
	return &dashboardService{
		files:      files,
		activities: activities,
	}
}

// Stats собирает агрегаты по активным файлам; последние события журнала
// включают и уже удалённые файлы
func (s *dashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	totalFiles, err := s.files.CountActive()
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	totalSize, err := s.files.SumActiveSize()
	if err != nil {
		return nil, fmt.Errorf("failed to sum file sizes: %w", err)
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayUploads, err := s.files.CountUploadedBetween(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to count today's uploads: %w", err)
	}

	categoryStats, err := s.files.CountByCategory()
	if err != nil {
		return nil, fmt.Errorf("failed to count files by category: %w", err)
	}

	recent, err := s.activities.Recent(ctx, recentActivitiesLimit)
	if err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		TotalFiles:       totalFiles,
		TotalSize:        totalSize,
		TodayUploads:     todayUploads,
		CategoryStats:    categoryStats,
		RecentActivities: recent,
	}, nil
}
