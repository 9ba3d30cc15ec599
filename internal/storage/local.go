package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const uploadsDir = "uploads"

// LocalStore хранит файлы на диске под <root>/uploads/<год>/<месяц>/
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(absRoot, uploadsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &LocalStore{root: absRoot}, nil
}

func (s *LocalStore) Save(ctx context.Context, content io.Reader, extension string) (string, error) {
	uniqueName := uuid.New().String() + strings.ToLower(extension)
	dateBucket := time.Now().UTC().Format("2006/01")

	dir := filepath.Join(s.root, uploadsDir, filepath.FromSlash(dateBucket))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date bucket: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, uniqueName))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to flush file: %w", err)
	}

	// Относительный путь всегда с прямыми слэшами, независимо от ОС
	return path.Join(uploadsDir, dateBucket, uniqueName), nil
}

func (s *LocalStore) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	abs, err := s.Resolve(ctx, relPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Remove(ctx context.Context, relPath string) error {
	abs, err := s.Resolve(ctx, relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// Resolve склеивает относительный путь с корнем и проверяет каноническим
// префиксом, что результат остался внутри каталога uploads. Побег за корень
// и отсутствующий файл оба дают ErrNotFound.
func (s *LocalStore) Resolve(ctx context.Context, relPath string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", ErrNotFound
	}

	uploadsRoot := filepath.Join(s.root, uploadsDir)
	if abs != uploadsRoot && !strings.HasPrefix(abs, uploadsRoot+string(filepath.Separator)) {
		return "", ErrNotFound
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}

	return abs, nil
}
