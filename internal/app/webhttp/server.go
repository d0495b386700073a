package webhttp

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sir_venger/file_upload/internal/models"
	"github.com/sir_venger/file_upload/internal/storage"
	"github.com/sir_venger/file_upload/pkg/storageproto"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var uploadForm = template.Must(template.ParseFS(templatesFS, "templates/upload_form.html"))

// Storage: то, что HTTP-слою нужно от стораджа помимо основных операций.
type Storage interface {
	storage.Service
	Usage(ctx context.Context) (models.Usage, error)
	SweepTemp(ctx context.Context, ttl time.Duration) (int, error)
}

type Deps struct {
	Storage Storage
	Logger  *zap.Logger
	// MaxUploadBytes ограничивает тело запроса загрузки; 0 отключает ограничение.
	MaxUploadBytes int64
	AdminEnabled   bool
	TempTTL        time.Duration
	Version        string
}

type Server struct {
	Deps
	log *zap.Logger
}

// NewServer собирает таблицу маршрутов один раз при старте.
func NewServer(deps Deps) (http.Handler, *Server, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	srv := &Server{
		Deps: deps,
		log:  log.With(zap.String("component", "http")),
	}

	health, err := srv.healthHandler()
	if err != nil {
		return nil, nil, err
	}

	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(middleware.RealIP)
	rtr.Use(requestLogger(srv.log))
	rtr.Use(middleware.Recoverer)

	rtr.Get(storageproto.UploadPath, srv.listUploadedFiles)
	rtr.Post(storageproto.UploadPath, srv.handleFileUpload)
	rtr.Get("/files/{filename}", srv.serveFile)
	rtr.Get(storageproto.ListPath, srv.listFilesJSON)
	rtr.Method(http.MethodGet, storageproto.HealthPath, health)
	rtr.Get(storageproto.StatsPath, srv.stats)

	if deps.AdminEnabled {
		rtr.Route("/admin", func(ar chi.Router) {
			ar.Post("/gc", srv.gcOnce)
			ar.Post("/reset", srv.reset)
		})
	}

	return rtr, srv, nil
}
