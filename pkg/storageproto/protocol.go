// Package storageproto описывает HTTP-протокол сервиса загрузки файлов, общий для сервера и клиента.
package storageproto

// Параметры REST-протокола.
const (
	UploadPath      = "/"
	FilesPathFormat = "%s/files/%s"
	ListPath        = "/api/files"
	HealthPath      = "/health"
	StatsPath       = "/stats"

	// FormField: имя поля multipart-формы с файлом.
	FormField = "file"

	ContentTypeJSON = "application/json"
)

// UploadResponse: JSON-ответ на загрузку при Accept: application/json.
type UploadResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FileLink: элемент листинга.
type FileLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse: JSON-ответ GET /api/files.
type ListResponse struct {
	Files []FileLink `json:"files"`
}
