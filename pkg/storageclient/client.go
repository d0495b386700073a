package storageclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/sir_venger/file_upload/internal/models"
	"github.com/sir_venger/file_upload/pkg/storageproto"
	"go.uber.org/multierr"
)

type Client interface {
	// Upload Положить файл в хранилище под именем name
	Upload(ctx context.Context, baseURL, name string, r io.Reader, size int64) (storageproto.UploadResponse, error)
	// Download Достать файл из хранилища
	Download(ctx context.Context, baseURL, name string) (io.ReadCloser, error)
	// List Получить список сохранённых файлов
	List(ctx context.Context, baseURL string) ([]storageproto.FileLink, error)
}

// StatusError: неуспешный ответ сервера.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server responded %d: %s", e.Code, e.Message)
}

type Option func(*httpClient)

// WithHTTPClient подменяет транспорт, по умолчанию http.Client без таймаута.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.c = c }
}

// WithProgress включает индикатор выполнения, который рисуется в out.
func WithProgress(out io.Writer) Option {
	return func(h *httpClient) { h.progress = out }
}

type httpClient struct {
	c        *http.Client
	progress io.Writer
}

// New создаёт HTTP-клиент по умолчанию.
func New(opts ...Option) Client {
	h := &httpClient{c: &http.Client{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Upload стримит файл multipart-формой, не собирая тело в памяти.
func (h *httpClient) Upload(ctx context.Context, baseURL, name string, r io.Reader, size int64) (out storageproto.UploadResponse, err error) {
	bar := newProgressBar(h.progress, fmt.Sprintf("Uploading %s", name), size)

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile(storageproto.FormField, name)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		src := r
		if bar != nil {
			src = io.TeeReader(r, progressWriter{bar: bar})
		}
		if _, err = io.Copy(part, src); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	u := strings.TrimRight(baseURL, "/") + storageproto.UploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		bar.Fail(err)
		return out, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", storageproto.ContentTypeJSON)
	bar.render(true, "")

	resp, err := h.c.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		bar.Fail(err)
		return out, err
	}
	defer func() {
		err = multierr.Append(err, resp.Body.Close())
	}()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		err = statusError(resp)
		bar.Fail(err)
		return out, err
	}

	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		bar.Fail(err)
		return out, err
	}

	bar.Finish()
	return out, nil
}

// Download скачивает файл и возвращает поток с телом; закрыть его должен вызывающий.
func (h *httpClient) Download(ctx context.Context, baseURL, name string) (io.ReadCloser, error) {
	u := fmt.Sprintf(storageproto.FilesPathFormat, strings.TrimRight(baseURL, "/"), url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("download %q: %w", name, models.ErrNotFound)
	default:
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	bar := newProgressBar(h.progress, fmt.Sprintf("Downloading %s", name), resp.ContentLength)
	bar.render(true, "")

	return newProgressReadCloser(resp.Body, bar), nil
}

// List возвращает листинг сохранённых файлов.
func (h *httpClient) List(ctx context.Context, baseURL string) (links []storageproto.FileLink, err error) {
	u := strings.TrimRight(baseURL, "/") + storageproto.ListPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, resp.Body.Close())
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var out storageproto.ListResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(b))}
}
