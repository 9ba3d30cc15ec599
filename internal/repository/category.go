package repository

import (
	"go-arsip/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindActive() ([]*model.FileCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindActive() ([]*model.FileCategory, error) {
	var categories []*model.FileCategory
	err := r.db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
