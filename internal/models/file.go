package models

// Usage агрегирует занятое место в корневом каталоге.
type Usage struct {
	Files      int   `json:"files"`
	TotalBytes int64 `json:"total_bytes"`
}
