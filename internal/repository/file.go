package repository

import (
	"strings"
	"time"

	"go-arsip/internal/model"

	"gorm.io/gorm"
)

type FileRepository interface {
	Create(record *model.FileRecord) error
	FindByID(id uint) (*model.FileRecord, error)
	FindAll() ([]*model.FileRecord, error)
	Search(term, category string, from, to *time.Time) ([]*model.FileRecord, error)
	Update(record *model.FileRecord) error
	FindInactive() ([]*model.FileRecord, error)
	CountActive() (int64, error)
	SumActiveSize() (int64, error)
	CountUploadedBetween(from, to time.Time) (int64, error)
	CountByCategory() (map[string]int64, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(record *model.FileRecord) error {
	return r.db.Create(record).Error
}

// FindByID возвращает только активные записи; мягко удалённые для чтения не существуют
func (r *fileRepository) FindByID(id uint) (*model.FileRecord, error) {
	var record model.FileRecord
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *fileRepository) FindAll() ([]*model.FileRecord, error) {
	var records []*model.FileRecord
	err := r.db.Where("is_active = ?", true).
		Order("uploaded_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileRepository) Search(term, category string, from, to *time.Time) ([]*model.FileRecord, error) {
	tx := r.db.Model(&model.FileRecord{}).Where("is_active = ?", true)

	if strings.TrimSpace(term) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
		tx = tx.Where(
			"LOWER(original_file_name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?",
			like, like, like,
		)
	}

	if strings.TrimSpace(category) != "" {
		tx = tx.Where("category = ?", strings.TrimSpace(category))
	}

	if from != nil {
		tx = tx.Where("uploaded_at >= ?", *from)
	}

	if to != nil {
		tx = tx.Where("uploaded_at <= ?", *to)
	}

	var records []*model.FileRecord
	err := tx.Order("uploaded_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileRepository) Update(record *model.FileRecord) error {
	return r.db.Save(record).Error
}

// FindInactive отдаёт мягко удалённые записи для фоновой сверки хранилища
func (r *fileRepository) FindInactive() ([]*model.FileRecord, error) {
	var records []*model.FileRecord
	err := r.db.Where("is_active = ? AND file_path <> ''", false).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.FileRecord{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *fileRepository) SumActiveSize() (int64, error) {
	var total int64
	err := r.db.Model(&model.FileRecord{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	return total, err
}

func (r *fileRepository) CountUploadedBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.FileRecord{}).
		Where("is_active = ? AND uploaded_at >= ? AND uploaded_at < ?", true, from, to).
		Count(&count).Error
	return count, err
}

func (r *fileRepository) CountByCategory() (map[string]int64, error) {
	type row struct {
		Category string
		Count    int64
	}

	var rows []row
	err := r.db.Model(&model.FileRecord{}).
		Where("is_active = ?", true).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Category] = row.Count
	}
	return stats, nil
}
