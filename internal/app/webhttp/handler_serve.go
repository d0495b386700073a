package webhttp

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/file_upload/internal/models"
	"github.com/sir_venger/file_upload/pkg/httperrors"
)

// serveFile отдаёт файл браузеру на скачивание.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	// chi маршрутизирует по RawPath, если он есть, тогда параметр ещё закодирован.
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(name)
		if err != nil {
			httperrors.Write(w, models.ErrNotFound)
			return
		}
		name = decoded
	}

	res, err := s.Storage.Resolve(r.Context(), name)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	f, err := res.Open()
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", attachment(res.Name))
	http.ServeContent(w, r, res.Name, res.ModTime, f)
}

// attachment формирует заголовок в привычном виде attachment; filename="..."
// и переходит на RFC 2231 для имён, которые нельзя положить в кавычки как есть.
func attachment(name string) string {
	if isQuotable(name) {
		return fmt.Sprintf(`attachment; filename="%s"`, name)
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

func isQuotable(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7e || c == '"' || c == '\\' {
			return false
		}
	}
	return s != ""
}
