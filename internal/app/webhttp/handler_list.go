package webhttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sir_venger/file_upload/pkg/httperrors"
	"github.com/sir_venger/file_upload/pkg/storageproto"
	"go.uber.org/zap"
)

type uploadFormData struct {
	Flash          *flash
	Files          []storageproto.FileLink
	MaxUploadBytes int64
}

// listUploadedFiles рисует форму загрузки со ссылками на каждый сохранённый файл.
func (s *Server) listUploadedFiles(w http.ResponseWriter, r *http.Request) {
	data := uploadFormData{
		Flash:          popFlash(w, r),
		MaxUploadBytes: s.MaxUploadBytes,
	}

	names, err := s.Storage.LoadAll(r.Context())
	if err != nil {
		s.log.Error("listing failed", zap.Error(err))
		httperrors.Write(w, err)
		return
	}
	data.Files = fileLinks(r, names)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uploadForm.Execute(w, data); err != nil {
		s.log.Error("render upload form", zap.Error(err))
	}
}

// listFilesJSON отдаёт тот же листинг для программных клиентов.
func (s *Server) listFilesJSON(w http.ResponseWriter, r *http.Request) {
	names, err := s.Storage.LoadAll(r.Context())
	if err != nil {
		s.log.Error("listing failed", zap.Error(err))
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", storageproto.ContentTypeJSON)
	_ = json.NewEncoder(w).Encode(storageproto.ListResponse{Files: fileLinks(r, names)})
}

// fileLinks строит абсолютные ссылки на скачивание каждого файла.
func fileLinks(r *http.Request, names []string) []storageproto.FileLink {
	base := baseURL(r)
	links := make([]storageproto.FileLink, 0, len(names))
	for _, n := range names {
		links = append(links, storageproto.FileLink{
			Name: n,
			URL:  fmt.Sprintf(storageproto.FilesPathFormat, base, url.PathEscape(n)),
		})
	}
	return links
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
