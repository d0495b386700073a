package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sir_venger/file_upload/internal/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Store записывает содержимое r в root/<base-name>.
// Сначала данные уходят во временный файл в том же каталоге, затем rename на итоговое
// имя: читатели видят либо старую версию, либо новую целиком.
func (s *FileSystem) Store(ctx context.Context, name string, r io.Reader) (models.UploadResult, error) {
	base, err := baseName(name)
	if err != nil {
		s.log.Warn("rejected file name", zap.String("name", name), zap.Error(err))
		return models.UploadResult{}, &models.StorageError{Kind: models.KindInvalidFilename, Op: "store", Name: name, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready.Load() {
		return models.UploadResult{}, notReady("store")
	}

	target := filepath.Join(s.root, base)
	if !childOf(s.root, target) {
		return models.UploadResult{}, &models.StorageError{Kind: models.KindInvalidFilename, Op: "store", Name: name, Err: errOutside}
	}

	n, err := s.writeAtomic(ctx, target, r)
	if err != nil {
		var se *models.StorageError
		if !errors.As(err, &se) {
			err = &models.StorageError{Kind: models.KindIOFailure, Op: "store", Name: base, Err: err}
		}
		s.log.Warn("store failed", zap.String("name", base), zap.Error(err))
		return models.UploadResult{}, err
	}

	s.log.Info("file stored", zap.String("name", base), zap.Int64("size", n))
	return models.UploadResult{Name: base, Size: n}, nil
}

func (s *FileSystem) writeAtomic(ctx context.Context, target string, r io.Reader) (n int64, err error) {
	if r == nil {
		return 0, &models.StorageError{Kind: models.KindEmptyFile, Op: "store", Name: filepath.Base(target)}
	}

	tmpPath := filepath.Join(s.root, tempPrefix+uuid.NewString()+tempSuffix)
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = multierr.Append(err, fmt.Errorf("remove temp file: %w", rmErr))
		}
	}()

	src := io.Reader(&ctxReader{ctx: ctx, r: r})
	if s.maxBytes > 0 {
		// +1 байт, чтобы отличить «ровно лимит» от «больше лимита».
		src = io.LimitReader(src, s.maxBytes+1)
	}

	n, err = io.Copy(f, src)
	if err == nil {
		err = f.Sync()
	}
	if err != nil {
		return 0, multierr.Append(fmt.Errorf("write temp file: %w", err), f.Close())
	}
	if err = f.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	base := filepath.Base(target)
	switch {
	case n == 0:
		return 0, &models.StorageError{Kind: models.KindEmptyFile, Op: "store", Name: base}
	case s.maxBytes > 0 && n > s.maxBytes:
		return 0, &models.StorageError{
			Kind: models.KindTooLarge,
			Op:   "store",
			Name: base,
			Err:  fmt.Errorf("limit is %d bytes", s.maxBytes),
		}
	}

	if err = os.Rename(tmpPath, target); err != nil {
		return 0, fmt.Errorf("rename into place: %w", err)
	}
	committed = true

	return n, nil
}

// ctxReader прерывает копирование при отмене контекста.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
