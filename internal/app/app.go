package app

import (
	"log"

	"go-arsip/internal/config"
	"go-arsip/internal/handler"
	"go-arsip/internal/repository"
	"go-arsip/internal/service"
	"go-arsip/internal/storage"
	"go-arsip/internal/ws"
)

func Run(cfg *config.Config) {
	db, err := repository.NewDB(cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fileRepo := repository.NewFileRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	feed := ws.NewFeed()
	defer feed.Shutdown()

	activityService := service.NewActivityService(activityRepo, userRepo, feed)
	fileService := service.NewFileService(fileRepo, store, activityService)
	dashboardService := service.NewDashboardService(fileRepo, activityService)
	categoryService := service.NewCategoryService(categoryRepo)
	userService := service.NewUserService(userRepo)

	reconcile := service.NewReconcileService(fileRepo, store)
	if cfg.ReconcileSchedule != "" {
		if err := reconcile.Start(cfg.ReconcileSchedule); err != nil {
			log.Fatalf("Invalid RECONCILE_SCHEDULE: %v", err)
		}
		defer reconcile.Stop()
	}

	fileHandler := handler.NewFileHandler(fileService, activityService)
	activityHandler := handler.NewActivityHandler(activityService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, feed)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	userHandler := handler.NewUserHandler(userService)

	server := NewServer(fileHandler, activityHandler, dashboardHandler, categoryHandler, userHandler)
	server.Run(cfg.ServerPort)
}

func newStore(cfg *config.Config) (storage.Provider, error) {
	switch cfg.StorageProvider {
	case "s3":
		return storage.NewS3Store(cfg)
	default:
		return storage.NewLocalStore(cfg.UploadsRoot)
	}
}
