// Package storage реализует плоское файловое хранилище загрузок поверх одного
// корневого каталога: атомарная запись через временный файл и rename, листинг,
// разрешение имён в ресурсы для скачивания и полный сброс.
package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sir_venger/file_upload/internal/models"
	"go.uber.org/zap"
)

// Service описывает операции, которыми HTTP-слой пользуется для работы с файлами.
type Service interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, name string, r io.Reader) (models.UploadResult, error)
	LoadAll(ctx context.Context) ([]string, error)
	Resolve(ctx context.Context, name string) (*Resource, error)
	Reset(ctx context.Context) error
}

// Options задаёт необязательные параметры стораджа.
type Options struct {
	// MaxBytes ограничивает размер одной загрузки; 0 отключает проверку.
	MaxBytes int64
	Logger   *zap.Logger
}

// FileSystem хранит каждую загрузку отдельным файлом прямо в root.
type FileSystem struct {
	root     string
	maxBytes int64
	log      *zap.Logger

	// mu: Reset берёт на запись, остальные операции на чтение.
	mu    sync.RWMutex
	ready atomic.Bool
}

var _ Service = (*FileSystem)(nil)

// NewFileSystem создаёт сторадж в состоянии Uninitialized; перед работой нужен Init.
func NewFileSystem(root string, opts Options) *FileSystem {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBytes := opts.MaxBytes
	if maxBytes < 0 {
		maxBytes = 0
	}

	return &FileSystem{
		root:     root,
		maxBytes: maxBytes,
		log:      log.With(zap.String("component", "storage")),
	}
}

// Root возвращает корневой каталог (абсолютный после Init).
func (s *FileSystem) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Init гарантирует наличие корневого каталога и переводит сервис в Ready.
func (s *FileSystem) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.root == "" {
		return &models.InitError{Err: errors.New("root location is empty")}
	}
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return &models.InitError{Root: s.root, Err: err}
	}
	s.root = abs

	if err := ensureDir(abs); err != nil {
		return &models.InitError{Root: abs, Err: err}
	}

	s.ready.Store(true)
	s.log.Info("storage initialized", zap.String("root", abs))
	return nil
}

// Reset удаляет корневой каталог со всем содержимым и создаёт его заново.
func (s *FileSystem) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready.Load() {
		return notReady("reset")
	}

	if err := os.RemoveAll(s.root); err != nil {
		return &models.StorageError{Kind: models.KindIOFailure, Op: "reset", Err: err}
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		// Без корня сервис непригоден до повторного Init.
		s.ready.Store(false)
		return &models.StorageError{Kind: models.KindIOFailure, Op: "reset", Err: err}
	}

	s.log.Info("storage reset", zap.String("root", s.root))
	return nil
}

func ensureDir(root string) error {
	fi, err := os.Stat(root)
	switch {
	case err == nil:
		if !fi.IsDir() {
			return models.ErrNotDirectory
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return os.MkdirAll(root, 0o755)
	default:
		return err
	}
}

func notReady(op string) error {
	return &models.StorageError{Kind: models.KindIOFailure, Op: op, Err: models.ErrNotInitialized}
}
