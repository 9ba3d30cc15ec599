package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go-arsip/internal/model"
	"go-arsip/internal/pkg/hashutil"
	"go-arsip/internal/repository"
	"go-arsip/internal/storage"

	"gorm.io/gorm"
)

type fileService struct {
	files      repository.FileRepository
	store      storage.Provider
	activities ActivityService
}

func NewFileService(files repository.FileRepository, store storage.Provider, activities ActivityService) FileService {
	return &fileService{
		files:      files,
		store:      store,
		activities: activities,
	}
}

// Upload пишет содержимое в хранилище, считает хэш и создаёт запись метаданных.
// Строка в базе появляется только после успешной записи байтов: читатель
// никогда не увидит запись без содержимого на диске.
func (s *fileService) Upload(ctx context.Context, content io.Reader, size int64, originalName, uploadedBy, description, tags, category, contentType string) (*model.FileRecord, error) {
	if content == nil || size == 0 {
		return nil, ErrEmptyFile
	}

	if strings.TrimSpace(category) == "" {
		category = model.DefaultCategory
	}

	extension := strings.ToLower(filepath.Ext(originalName))

	relPath, err := s.store.Save(ctx, content, extension)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	// Хэш считается перечитыванием сохранённого файла; неудача не
	// отменяет загрузку - хэш остаётся пустым
	hash := ""
	if rc, err := s.store.Open(ctx, relPath); err != nil {
		log.Printf("Failed to reopen %s for hashing: %v", relPath, err)
	} else {
		computed, hashErr := hashutil.MD5(rc)
		rc.Close()
		if hashErr != nil {
			log.Printf("Failed to hash %s: %v", relPath, hashErr)
		} else {
			hash = computed
		}
	}

	record := &model.FileRecord{
		FileName:         path.Base(relPath),
		OriginalFileName: originalName,
		FilePath:         relPath,
		FileExtension:    extension,
		MimeType:         mimeTypeFor(extension, contentType),
		FileSize:         size,
		Description:      description,
		Tags:             tags,
		Category:         category,
		UploadedBy:       uploadedBy,
		UploadedAt:       time.Now().UTC(),
		IsActive:         true,
		FileHash:         hash,
	}

	if err := s.files.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	err = s.activities.Log(ctx, record.ID, model.ActivityUpload, uploadedBy,
		fmt.Sprintf("File '%s' uploaded", originalName), "", "")
	if err != nil {
		return nil, err
	}

	log.Printf("File uploaded: %s by %s", originalName, uploadedBy)
	return record, nil
}

func (s *fileService) GetByID(ctx context.Context, id uint) (*model.FileRecord, error) {
	record, err := s.files.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load file record: %w", err)
	}
	return record, nil
}

func (s *fileService) ListAll(ctx context.Context) ([]*model.FileRecord, error) {
	return s.files.FindAll()
}

func (s *fileService) Search(ctx context.Context, term, category string, from, to *time.Time) ([]*model.FileRecord, error) {
	return s.files.Search(term, category, from, to)
}

func (s *fileService) Update(ctx context.Context, record *model.FileRecord) (*model.FileRecord, error) {
	now := time.Now().UTC()
	record.ModifiedAt = &now

	if err := s.files.Update(record); err != nil {
		return nil, fmt.Errorf("failed to update file record: %w", err)
	}

	performer := record.ModifiedBy
	if performer == "" {
		performer = "System"
	}

	err := s.activities.Log(ctx, record.ID, model.ActivityUpdate, performer,
		"File metadata updated", "", "")
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Delete мягко удаляет запись; этот шаг авторитетен и фиксируется даже если
// физическое удаление после него не удалось. Повторный вызов возвращает false.
func (s *fileService) Delete(ctx context.Context, id uint, performedBy, ip, userAgent string) (bool, error) {
	record, err := s.files.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load file record: %w", err)
	}

	// Путь запоминаем, пока запись ещё читаема
	relPath := record.FilePath

	if performedBy == "" {
		performedBy = "System"
	}

	now := time.Now().UTC()
	record.IsActive = false
	record.ModifiedAt = &now
	record.ModifiedBy = performedBy

	if err := s.files.Update(record); err != nil {
		return false, fmt.Errorf("failed to soft-delete file record: %w", err)
	}

	if relPath != "" {
		err := s.store.Remove(ctx, relPath)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error deleting physical file %s: %v", relPath, err)
		}
	}

	err = s.activities.Log(ctx, id, model.ActivityDelete, performedBy,
		fmt.Sprintf("File '%s' deleted", record.OriginalFileName), ip, userAgent)
	if err != nil {
		return false, err
	}

	log.Printf("File deleted: %s (ID: %d)", record.OriginalFileName, id)
	return true, nil
}

// GetFilePath возвращает абсолютный адрес содержимого либо пустую строку,
// когда запись или содержимое недоступны
func (s *fileService) GetFilePath(ctx context.Context, id uint) (string, error) {
	record, err := s.files.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load file record: %w", err)
	}

	abs, err := s.store.Resolve(ctx, record.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	return abs, nil
}

func (s *fileService) FileExists(ctx context.Context, id uint) (bool, error) {
	abs, err := s.GetFilePath(ctx, id)
	if err != nil {
		return false, err
	}
	return abs != "", nil
}

// Download открывает содержимое, пишет Download в журнал и штампует время
// доступа. Неудачная запись в журнал отменяет выдачу файла.
func (s *fileService) Download(ctx context.Context, id uint, performedBy, ip, userAgent string) (*model.FileRecord, io.ReadCloser, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, record.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file content: %w", err)
	}

	if performedBy == "" {
		performedBy = "Anonymous"
	}

	err = s.activities.Log(ctx, id, model.ActivityDownload, performedBy,
		fmt.Sprintf("File '%s' downloaded", record.OriginalFileName), ip, userAgent)
	if err != nil {
		rc.Close()
		return nil, nil, err
	}

	now := time.Now().UTC()
	record.LastAccessedAt = &now
	if err := s.files.Update(record); err != nil {
		log.Printf("Failed to stamp last access for file %d: %v", id, err)
	}

	return record, rc, nil
}

// Open отдаёт содержимое без записи в журнал (предпросмотр)
func (s *fileService) Open(ctx context.Context, id uint) (*model.FileRecord, io.ReadCloser, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, record.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file content: %w", err)
	}

	return record, rc, nil
}
