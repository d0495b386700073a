package webhttp

import (
	"net/http"
	"time"

	"github.com/sir_venger/file_upload/pkg/httperrors"
	"go.uber.org/zap"
)

const manualGCTTL = 24 * time.Hour

// gcOnce вручную запускает удаление устаревших временных файлов.
func (s *Server) gcOnce(w http.ResponseWriter, r *http.Request) {
	ttl := s.TempTTL
	if ttl <= 0 {
		ttl = manualGCTTL
	}

	removed, err := s.Storage.SweepTemp(r.Context(), ttl)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	s.log.Info("manual gc done", zap.Int("removed", removed))
	w.WriteHeader(http.StatusNoContent)
}

// reset удаляет все сохранённые файлы.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.Storage.Reset(r.Context()); err != nil {
		s.log.Error("reset failed", zap.Error(err))
		httperrors.Write(w, err)
		return
	}
	s.log.Warn("storage reset via admin endpoint")
	w.WriteHeader(http.StatusNoContent)
}
