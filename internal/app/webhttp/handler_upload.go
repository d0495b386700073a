package webhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sir_venger/file_upload/internal/models"
	"github.com/sir_venger/file_upload/pkg/httperrors"
	"github.com/sir_venger/file_upload/pkg/storageproto"
	"go.uber.org/zap"
)

// multipartSlack: запас на заголовки и границы multipart поверх самого файла.
const multipartSlack = 64 << 10

const (
	msgNoFile   = "Please select a file to upload."
	msgBadForm  = "Malformed upload request."
	msgUploaded = "You successfully uploaded %s!"
)

var (
	errNoFile  = errors.New("no file in request")
	errBadForm = errors.New("malformed multipart request")
)

// handleFileUpload стримит multipart-часть "file" прямо в сторадж, без буферизации на диск.
func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	if s.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes+multipartSlack)
	}

	name, part, err := filePart(r)
	if err != nil {
		s.uploadFailed(w, r, name, err)
		return
	}
	defer part.Close()

	res, err := s.Storage.Store(r.Context(), name, part)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			err = &models.StorageError{Kind: models.KindTooLarge, Op: "store", Name: name, Err: err}
		}
		s.uploadFailed(w, r, name, err)
		return
	}

	s.log.Info("upload accepted", zap.String("name", res.Name), zap.Int64("size", res.Size))

	if acceptsJSON(r) {
		w.Header().Set("Content-Type", storageproto.ContentTypeJSON)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(storageproto.UploadResponse{Name: res.Name, Size: res.Size})
		return
	}

	setFlash(w, flash{Message: fmt.Sprintf(msgUploaded, res.Name)})
	http.Redirect(w, r, storageproto.UploadPath, http.StatusSeeOther)
}

func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, name string, err error) {
	s.log.Warn("upload rejected", zap.String("name", name), zap.Error(err))

	status, msg := httperrors.Status(err), httperrors.Message(err)
	switch {
	case errors.Is(err, errNoFile):
		status, msg = http.StatusBadRequest, msgNoFile
	case errors.Is(err, errBadForm):
		status, msg = http.StatusBadRequest, msgBadForm
	}

	if acceptsJSON(r) {
		http.Error(w, msg, status)
		return
	}

	setFlash(w, flash{Message: msg, Error: true})
	http.Redirect(w, r, storageproto.UploadPath, http.StatusSeeOther)
}

// filePart ищет поле формы с файлом. Имя берётся из Content-Disposition как есть:
// multipart.Part.FileName() обрезает каталоги, а попытки обхода должен увидеть сторадж.
func filePart(r *http.Request) (string, *multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, errors.Join(errBadForm, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, errNoFile
		}
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return "", nil, &models.StorageError{Kind: models.KindTooLarge, Op: "store", Err: err}
			}
			return "", nil, errors.Join(errBadForm, err)
		}
		if part.FormName() != storageproto.FormField {
			_ = part.Close()
			continue
		}

		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err != nil {
			_ = part.Close()
			return "", nil, errors.Join(errBadForm, err)
		}
		name := params["filename"]
		if name == "" {
			_ = part.Close()
			return "", nil, errNoFile
		}

		return name, part, nil
	}
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), storageproto.ContentTypeJSON)
}
