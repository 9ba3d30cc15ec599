package service

import (
	"path/filepath"
	"testing"

	"go-arsip/internal/repository"
	"go-arsip/internal/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Тесты сервисов гоняются на sqlite во временном каталоге
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := repository.Migrate(db); err != nil {
		t.Fatal(err)
	}

	return db
}

type testEnv struct {
	files      FileService
	activities ActivityService
	dashboard  DashboardService
	store      storage.Provider
	fileRepo   repository.FileRepository
	userRepo   repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	fileRepo := repository.NewFileRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)

	activities := NewActivityService(activityRepo, userRepo, nil)
	files := NewFileService(fileRepo, store, activities)
	dashboard := NewDashboardService(fileRepo, activities)

	return &testEnv{
		files:      files,
		activities: activities,
		dashboard:  dashboard,
		store:      store,
		fileRepo:   fileRepo,
		userRepo:   userRepo,
	}
}
