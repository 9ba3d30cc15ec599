package service

import (
	"context"
	"io"
	"time"

	"go-arsip/internal/model"
)

type FileService interface {
	Upload(ctx context.Context, content io.Reader, size int64, originalName, uploadedBy, description, tags, category, contentType string) (*model.FileRecord, error)
	GetByID(ctx context.Context, id uint) (*model.FileRecord, error)
	ListAll(ctx context.Context) ([]*model.FileRecord, error)
	Search(ctx context.Context, term, category string, from, to *time.Time) ([]*model.FileRecord, error)
	Update(ctx context.Context, record *model.FileRecord) (*model.FileRecord, error)
	Delete(ctx context.Context, id uint, performedBy, ip, userAgent string) (bool, error)
	GetFilePath(ctx context.Context, id uint) (string, error)
	FileExists(ctx context.Context, id uint) (bool, error)
	Download(ctx context.Context, id uint, performedBy, ip, userAgent string) (*model.FileRecord, io.ReadCloser, error)
	Open(ctx context.Context, id uint) (*model.FileRecord, io.ReadCloser, error)
}

type ActivityService interface {
	Log(ctx context.Context, fileID uint, activityType, performedBy, description, ip, userAgent string) error
	GetByFile(ctx context.Context, fileID uint) ([]*model.FileActivity, error)
	Search(ctx context.Context, term, activityType string, from, to *time.Time, page, pageSize int) (*model.ActivitiesPage, error)
	Recent(ctx context.Context, limit int) ([]model.ActivityWithUser, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type CategoryService interface {
	GetCategories(ctx context.Context) ([]*model.FileCategory, error)
}

type UserService interface {
	Register(email, name, password string) (*model.User, error)
	Authenticate(email, password string) (*model.User, error)
}
