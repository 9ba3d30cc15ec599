package service

import (
	"context"

	"go-arsip/internal/model"
	"go-arsip/internal/repository"
)

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) GetCategories(ctx context.Context) ([]*model.FileCategory, error) {
	return s.categories.FindActive()
}
