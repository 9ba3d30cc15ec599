package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"go-arsip/internal/repository"
	"go-arsip/internal/storage"

	"github.com/robfig/cron/v3"
)

// ReconcileService периодически дочищает содержимое мягко удалённых записей,
// у которых физическое удаление в своё время не удалось
type ReconcileService struct {
	files repository.FileRepository
	store storage.Provider

	mu   sync.Mutex
	cron *cron.Cron
}

func NewReconcileService(files repository.FileRepository, store storage.Provider) *ReconcileService {
	return &ReconcileService{
		files: files,
		store: store,
	}
}

func (s *ReconcileService) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			log.Printf("Storage reconcile failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	s.cron = c
	log.Printf("Storage reconcile scheduled: %s", schedule)
	return nil
}

func (s *ReconcileService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// RunOnce обходит мягко удалённые записи и убирает их содержимое из
// хранилища. Отсутствие содержимого - норма, ошибки удаления не
// прерывают проход.
func (s *ReconcileService) RunOnce(ctx context.Context) (int, error) {
	records, err := s.files.FindInactive()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, record := range records {
		err := s.store.Remove(ctx, record.FilePath)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				log.Printf("Failed to reconcile %s: %v", record.FilePath, err)
			}
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Storage reconcile removed %d orphaned files", removed)
	}

	return removed, nil
}
