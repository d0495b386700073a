package webhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/sir_venger/file_upload/pkg/httperrors"
	"github.com/sir_venger/file_upload/pkg/storageproto"
	"go.uber.org/zap"
)

// statsResponse: payload ответа /stats.
type statsResponse struct {
	OK         bool  `json:"ok"`
	Files      int   `json:"files"`
	TotalBytes int64 `json:"total_bytes"`
}

func (s *Server) healthHandler() (http.Handler, error) {
	version := s.Version
	if version == "" {
		version = "dev"
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "fileupload",
			Version: version,
		}),
		health.WithSystemInfo(),
	)
	if err != nil {
		return nil, err
	}

	// Сторадж жив, пока корневой каталог читается.
	if err := h.Register(health.Config{
		Name:    "storage",
		Timeout: time.Second,
		Check: func(ctx context.Context) error {
			_, err := s.Storage.LoadAll(ctx)
			return err
		},
	}); err != nil {
		return nil, err
	}

	return h.Handler(), nil
}

// stats возвращает количество файлов и их суммарный размер.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	u, err := s.Storage.Usage(r.Context())
	if err != nil {
		s.log.Error("usage failed", zap.Error(err))
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", storageproto.ContentTypeJSON)
	err = json.NewEncoder(w).Encode(statsResponse{
		OK:         true,
		Files:      u.Files,
		TotalBytes: u.TotalBytes,
	})
	if err != nil {
		s.log.Warn("encode stats", zap.Error(err))
	}
}
