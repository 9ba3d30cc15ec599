package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound возвращается и для отсутствующего файла, и для пути,
// выходящего за пределы корня хранилища - снаружи они неразличимы
var ErrNotFound = errors.New("storage: file not found")

// Provider абстрагирует физическое хранилище файлов.
// Относительный путь всегда начинается с "uploads/" и является
// единственным адресом файла, который знают остальные слои.
type Provider interface {
	// Save пишет содержимое и возвращает относительный путь вида
	// uploads/<год>/<месяц>/<uuid><расширение>
	Save(ctx context.Context, content io.Reader, extension string) (string, error)
	// Open открывает содержимое по относительному пути
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
	// Remove удаляет содержимое; вызывающая сторона трактует ошибку как best-effort
	Remove(ctx context.Context, relPath string) error
	// Resolve возвращает абсолютный адрес содержимого: путь на диске
	// для локального хранилища, presigned URL для S3
	Resolve(ctx context.Context, relPath string) (string, error)
}
