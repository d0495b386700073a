package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sir_venger/file_upload/internal/models"
	"go.uber.org/zap"
)

// SweepTemp удаляет временные файлы загрузок, которые не менялись дольше ttl.
// Такие файлы остаются, если процесс упал посреди записи.
func (s *FileSystem) SweepTemp(ctx context.Context, ttl time.Duration) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready.Load() {
		return 0, notReady("sweep")
	}

	now := time.Now()
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, &models.StorageError{Kind: models.KindIOFailure, Op: "sweep", Err: err}
	}

	removed := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if !e.Type().IsRegular() || !isTemp(e.Name()) {
			continue
		}

		fi, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(fi.ModTime()) < ttl {
			continue
		}

		p := filepath.Join(s.root, e.Name())
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to remove stale temp file", zap.String("path", p), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info("stale temp files removed", zap.Int("count", removed))
	}
	return removed, nil
}

// StartJanitor стартует периодическую очистку временных файлов.
// Возвращает функцию остановки, которую можно вызывать многократно.
func (s *FileSystem) StartJanitor(ttl time.Duration, every time.Duration) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(every)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.SweepTemp(ctx, ttl); err != nil && !errors.Is(err, context.Canceled) {
					s.log.Warn("temp sweep failed", zap.Error(err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
