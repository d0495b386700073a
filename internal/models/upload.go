package models

// UploadResult возвращается после успешной загрузки.
type UploadResult struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
