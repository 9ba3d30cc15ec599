package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"go-arsip/internal/model"
)

func TestUploadAndGetByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	content := "hello arsip"
	record, err := env.files.Upload(ctx, strings.NewReader(content), int64(len(content)),
		"report.txt", "alice@example.com", "quarterly report", "report,q1", "", "text/plain")
	if err != nil {
		t.Fatal(err)
	}

	if record.ID == 0 {
		t.Fatal("record should get an ID")
	}
	if record.FileExtension != ".txt" {
		t.Errorf("extension = %q, want .txt", record.FileExtension)
	}
	if record.MimeType != "text/plain" {
		t.Errorf("mime type = %q, want text/plain", record.MimeType)
	}
	if record.FileSize != int64(len(content)) {
		t.Errorf("size = %d, want %d", record.FileSize, len(content))
	}
	if record.Category != model.DefaultCategory {
		t.Errorf("category = %q, want default %q", record.Category, model.DefaultCategory)
	}
	if !record.IsActive {
		t.Error("new record should be active")
	}
	if len(record.FileHash) != 32 {
		t.Errorf("hash %q should be 32 hex chars", record.FileHash)
	}

	loaded, err := env.files.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.OriginalFileName != "report.txt" {
		t.Errorf("original name = %q, want report.txt", loaded.OriginalFileName)
	}

	_, rc, err := env.files.Open(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("stored content = %q, want %q", data, content)
	}

	activities, err := env.activities.GetByFile(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(activities) != 1 || activities[0].ActivityType != model.ActivityUpload {
		t.Errorf("expected a single Upload activity, got %+v", activities)
	}
}

func TestUploadEmptyFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.files.Upload(ctx, strings.NewReader(""), 0,
		"empty.txt", "alice@example.com", "", "", "", "")
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("error = %v, want ErrEmptyFile", err)
	}

	_, err = env.files.Upload(ctx, nil, 10,
		"nil.txt", "alice@example.com", "", "", "", "")
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("error = %v, want ErrEmptyFile", err)
	}
}

func TestUploadUnknownExtensionFallsBackToContentType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.files.Upload(ctx, strings.NewReader("x"), 1,
		"data.xyz", "alice@example.com", "", "", "Other", "application/x-custom")
	if err != nil {
		t.Fatal(err)
	}
	if record.MimeType != "application/x-custom" {
		t.Errorf("mime type = %q, want caller fallback", record.MimeType)
	}

	record, err = env.files.Upload(ctx, strings.NewReader("x"), 1,
		"data.xyz", "alice@example.com", "", "", "Other", "")
	if err != nil {
		t.Fatal(err)
	}
	if record.MimeType != "application/octet-stream" {
		t.Errorf("mime type = %q, want application/octet-stream", record.MimeType)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.files.Upload(ctx, strings.NewReader("doomed"), 6,
		"doomed.txt", "alice@example.com", "", "", "", "text/plain")
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := env.files.Delete(ctx, record.ID, "bob@example.com", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Fatal("first delete should report true")
	}

	// Повторное удаление не ошибка, просто ничего не делает
	deleted, err = env.files.Delete(ctx, record.ID, "bob@example.com", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("second delete should report false")
	}

	if _, err := env.files.GetByID(ctx, record.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrNotFound", err)
	}

	// История остаётся читаемой и содержит ровно одну запись Delete
	activities, err := env.activities.GetByFile(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	deletes := 0
	for _, activity := range activities {
		if activity.ActivityType == model.ActivityDelete {
			deletes++
		}
	}
	if deletes != 1 {
		t.Errorf("delete activities = %d, want 1", deletes)
	}
}

func TestDeleteMissingFile(t *testing.T) {
	env := newTestEnv(t)

	deleted, err := env.files.Delete(context.Background(), 9999, "bob@example.com", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("deleting a missing file should report false")
	}
}

func TestGetFilePath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.files.Upload(ctx, strings.NewReader("content"), 7,
		"doc.pdf", "alice@example.com", "", "", "", "application/pdf")
	if err != nil {
		t.Fatal(err)
	}

	abs, err := env.files.GetFilePath(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if abs == "" {
		t.Fatal("path should resolve for an existing file")
	}

	exists, err := env.files.FileExists(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("FileExists should report true")
	}

	if _, err := env.files.Delete(ctx, record.ID, "", "", ""); err != nil {
		t.Fatal(err)
	}

	abs, err = env.files.GetFilePath(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if abs != "" {
		t.Errorf("path after delete = %q, want empty", abs)
	}
}

func TestGetFilePathRejectsTamperedPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.files.Upload(ctx, strings.NewReader("content"), 7,
		"doc.txt", "alice@example.com", "", "", "", "text/plain")
	if err != nil {
		t.Fatal(err)
	}

	record.FilePath = "uploads/../../etc/passwd"
	if err := env.fileRepo.Update(record); err != nil {
		t.Fatal(err)
	}

	abs, err := env.files.GetFilePath(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if abs != "" {
		t.Errorf("tampered path resolved to %q, want empty", abs)
	}
}

func TestSearchFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	upload := func(name, description, tags, category string) *model.FileRecord {
		t.Helper()
		record, err := env.files.Upload(ctx, strings.NewReader("x"), 1,
			name, "alice@example.com", description, tags, category, "")
		if err != nil {
			t.Fatal(err)
		}
		return record
	}

	upload("budget.xlsx", "annual budget", "finance", "Spreadsheets")
	upload("logo.png", "company logo", "brand", "Images")
	deleted := upload("old.txt", "obsolete budget notes", "finance", "Documents")
	if _, err := env.files.Delete(ctx, deleted.ID, "", "", ""); err != nil {
		t.Fatal(err)
	}

	// Без фильтров поиск эквивалентен полному списку
	all, err := env.files.Search(ctx, "", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	listed, err := env.files.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || len(listed) != 2 {
		t.Fatalf("active files: search=%d list=%d, want 2 and 2", len(all), len(listed))
	}

	byTerm, err := env.files.Search(ctx, "BUDGET", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(byTerm) != 1 || byTerm[0].OriginalFileName != "budget.xlsx" {
		t.Errorf("case-insensitive term search got %d results", len(byTerm))
	}

	byCategory, err := env.files.Search(ctx, "", "Images", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory) != 1 || byCategory[0].OriginalFileName != "logo.png" {
		t.Errorf("category search got %d results", len(byCategory))
	}
}

func TestSearchDateBoundsInclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.files.Upload(ctx, strings.NewReader("x"), 1,
		"today.txt", "alice@example.com", "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	uploaded := record.UploadedAt

	// Обе границы совпадают с моментом загрузки: диапазон включающий
	results, err := env.files.Search(ctx, "", "", &uploaded, &uploaded)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("inclusive bounds got %d results, want 1", len(results))
	}

	before := uploaded.Add(-time.Hour)
	results, err = env.files.Search(ctx, "", "", nil, &before)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("to-bound in the past got %d results, want 0", len(results))
	}
}

func TestUpdateStampsModification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.files.Upload(ctx, strings.NewReader("x"), 1,
		"doc.txt", "alice@example.com", "old", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	record.Description = "new description"
	record.ModifiedBy = "bob@example.com"

	updated, err := env.files.Update(ctx, record)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ModifiedAt == nil {
		t.Error("ModifiedAt should be stamped")
	}

	activities, err := env.activities.GetByFile(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, activity := range activities {
		if activity.ActivityType == model.ActivityUpdate && activity.PerformedBy == "bob@example.com" {
			found = true
		}
	}
	if !found {
		t.Error("expected an Update activity by bob@example.com")
	}
}

func TestDownloadLogsAndStampsAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.files.Upload(ctx, strings.NewReader("payload"), 7,
		"doc.txt", "alice@example.com", "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	loaded, rc, err := env.files.Download(ctx, record.ID, "bob@example.com", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()

	if string(data) != "payload" {
		t.Errorf("downloaded content = %q", data)
	}
	if loaded.LastAccessedAt == nil {
		t.Error("LastAccessedAt should be stamped")
	}

	activities, err := env.activities.GetByFile(ctx, record.ID)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, activity := range activities {
		if activity.ActivityType == model.ActivityDownload {
			found = true
			if activity.IPAddress == nil || *activity.IPAddress != "10.0.0.1" {
				t.Error("download activity should keep the client IP")
			}
		}
	}
	if !found {
		t.Error("expected a Download activity")
	}
}
