package repository

import (
	"strings"
	"time"

	"go-arsip/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(activity *model.FileActivity) error
	FindByFile(fileID uint) ([]*model.FileActivity, error)
	Recent(limit int) ([]*model.FileActivity, error)
	SearchPaged(term, activityType string, from, to *time.Time, page, pageSize int) ([]*model.FileActivity, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *model.FileActivity) error {
	return r.db.Create(activity).Error
}

// FindByFile не фильтрует по активности записи: история удалённых файлов остаётся видимой
func (r *activityRepository) FindByFile(fileID uint) ([]*model.FileActivity, error) {
	var activities []*model.FileActivity
	err := r.db.Where("file_record_id = ?", fileID).
		Order("performed_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) Recent(limit int) ([]*model.FileActivity, error) {
	var activities []*model.FileActivity
	err := r.db.Preload("FileRecord").
		Order("performed_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// SearchPaged ищет по всему журналу; верхняя граница даты уже сдвинута
// вызывающей стороной на начало следующего дня и сравнивается строго
func (r *activityRepository) SearchPaged(term, activityType string, from, to *time.Time, page, pageSize int) ([]*model.FileActivity, int64, error) {
	var total int64
	err := r.filtered(term, activityType, from, to).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var activities []*model.FileActivity
	err = r.filtered(term, activityType, from, to).
		Preload("FileRecord").
		Order("file_activities.performed_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (r *activityRepository) filtered(term, activityType string, from, to *time.Time) *gorm.DB {
	tx := r.db.Model(&model.FileActivity{}).
		Joins("JOIN file_records ON file_records.id = file_activities.file_record_id")

	if strings.TrimSpace(term) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
		tx = tx.Where(
			"LOWER(file_records.original_file_name) LIKE ? OR LOWER(file_activities.performed_by) LIKE ? OR LOWER(file_activities.description) LIKE ?",
			like, like, like,
		)
	}

	if strings.TrimSpace(activityType) != "" {
		tx = tx.Where("file_activities.activity_type = ?", strings.TrimSpace(activityType))
	}

	if from != nil {
		tx = tx.Where("file_activities.performed_at >= ?", *from)
	}

	if to != nil {
		tx = tx.Where("file_activities.performed_at < ?", *to)
	}

	return tx
}
