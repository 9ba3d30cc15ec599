package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-arsip/internal/model"
	"go-arsip/internal/pkg/clientinfo"
	"go-arsip/internal/repository"
	"go-arsip/internal/ws"
)

type activityService struct {
	activities repository.ActivityRepository
	users      repository.UserRepository
	feed       *ws.Feed
}

func NewActivityService(activities repository.ActivityRepository, users repository.UserRepository, feed *ws.Feed) ActivityService {
	return &activityService{
		activities: activities,
		users:      users,
		feed:       feed,
	}
}

// Log добавляет запись журнала. Журнал - требование комплаенса, поэтому
// ошибка записи поднимается наверх и валит вызвавшую операцию.
func (s *activityService) Log(ctx context.Context, fileID uint, activityType, performedBy, description, ip, userAgent string) error {
	if strings.TrimSpace(performedBy) == "" {
		performedBy = "System"
	}

	activity := &model.FileActivity{
		FileRecordID: fileID,
		ActivityType: activityType,
		Description:  description,
		PerformedBy:  performedBy,
		PerformedAt:  time.Now().UTC(),
		IPAddress:    normalizeMeta(ip),
		UserAgent:    normalizeMeta(userAgent),
	}

	if err := s.activities.Create(activity); err != nil {
		return fmt.Errorf("failed to log %s activity for file %d: %w", activityType, fileID, err)
	}

	if s.feed != nil {
		s.feed.BroadcastActivity(activity)
	}

	return nil
}

func (s *activityService) GetByFile(ctx context.Context, fileID uint) ([]*model.FileActivity, error) {
	return s.activities.FindByFile(fileID)
}

// Search ищет по всему журналу, включая историю удалённых файлов.
// Верхняя граница даты означает «по конец этого календарного дня».
func (s *activityService) Search(ctx context.Context, term, activityType string, from, to *time.Time, page, pageSize int) (*model.ActivitiesPage, error) {
	var toExclusive *time.Time
	if to != nil {
		next := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
		toExclusive = &next
	}

	activities, total, err := s.activities.SearchPaged(term, activityType, from, toExclusive, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search activities: %w", err)
	}

	return &model.ActivitiesPage{
		Activities: s.withUsers(activities),
		TotalCount: total,
	}, nil
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]model.ActivityWithUser, error) {
	activities, err := s.activities.Recent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activities: %w", err)
	}
	return s.withUsers(activities), nil
}

// withUsers разрешает отображаемые имена исполнителей по email.
// Исполнитель не обязан быть email - тогда остаётся исходная строка.
func (s *activityService) withUsers(activities []*model.FileActivity) []model.ActivityWithUser {
	seen := make(map[string]bool)
	emails := make([]string, 0, len(activities))
	for _, activity := range activities {
		if !seen[activity.PerformedBy] {
			seen[activity.PerformedBy] = true
			emails = append(emails, activity.PerformedBy)
		}
	}

	names := make(map[string]string)
	users, err := s.users.FindByEmails(emails)
	if err != nil {
		log.Printf("Failed to resolve performer names: %v", err)
	} else {
		for _, user := range users {
			names[user.Email] = user.Name
		}
	}

	result := make([]model.ActivityWithUser, 0, len(activities))
	for _, activity := range activities {
		name, ok := names[activity.PerformedBy]
		if !ok {
			name = activity.PerformedBy
		}

		item := model.ActivityWithUser{
			FileActivity:    *activity,
			PerformedByName: name,
		}
		if activity.FileRecord != nil {
			item.OriginalFileName = activity.FileRecord.OriginalFileName
		}

		result = append(result, item)
	}

	return result
}

func normalizeMeta(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == clientinfo.Unknown {
		return nil
	}
	return &trimmed
}
