package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sir_venger/file_upload/internal/models"
	"go.uber.org/zap"
)

// Resource: найденный обычный файл внутри root, пригодный для отдачи клиенту.
type Resource struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Open открывает файл на чтение. Если файл успел исчезнуть, возвращается ErrNotFound.
func (r *Resource) Open() (*os.File, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read file %q: %w", r.Name, models.ErrNotFound)
		}
		return nil, &models.StorageError{Kind: models.KindIOFailure, Op: "open", Name: r.Name, Err: err}
	}
	return f, nil
}

// LoadAll возвращает отсортированные имена файлов, лежащих прямо в root.
// Временные файлы незавершённых загрузок и подкаталоги в листинг не попадают.
func (s *FileSystem) LoadAll(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready.Load() {
		return nil, notReady("load all")
	}

	// os.ReadDir уже сортирует по имени.
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.log.Error("failed to read stored files", zap.Error(err))
		return nil, &models.StorageError{Kind: models.KindIOFailure, Op: "load all", Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || isTemp(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	return names, nil
}

// Resolve находит сохранённый файл по базовому имени.
// Любая причина неудачи (нет файла, не обычный файл, попытка выхода из root)
// даёт одну и ту же ошибку ErrNotFound.
func (s *FileSystem) Resolve(ctx context.Context, name string) (*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready.Load() {
		return nil, notReady("resolve")
	}

	notFound := fmt.Errorf("could not read file %q: %w", name, models.ErrNotFound)
	if !isPlainName(name) {
		s.log.Debug("resolve rejected", zap.String("name", name))
		return nil, notFound
	}

	p := filepath.Join(s.root, name)
	if !childOf(s.root, p) {
		return nil, notFound
	}

	// Lstat: симлинки не разыменовываем, они могут указывать за пределы root.
	fi, err := os.Lstat(p)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, notFound
	}

	return &Resource{
		Name:    fi.Name(),
		Path:    p,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

// Usage считает количество и суммарный размер сохранённых файлов.
func (s *FileSystem) Usage(ctx context.Context) (models.Usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready.Load() {
		return models.Usage{}, notReady("usage")
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return models.Usage{}, &models.StorageError{Kind: models.KindIOFailure, Op: "usage", Err: err}
	}

	var u models.Usage
	for _, e := range entries {
		if !e.Type().IsRegular() || isTemp(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Файл мог быть перезаписан между ReadDir и Info.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return models.Usage{}, &models.StorageError{Kind: models.KindIOFailure, Op: "usage", Err: err}
		}
		u.Files++
		u.TotalBytes += info.Size()
	}

	return u, nil
}
