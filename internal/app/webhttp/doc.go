// Package webhttp реализует веб-интерфейс загрузки файлов поверх storage.Service.
// Основные эндпоинты:
//   - GET /: HTML-форма загрузки и список уже загруженных файлов.
//   - POST /: принимает multipart-поле "file" и сохраняет его в сторадж.
//   - GET /files/{filename}: отдаёт файл как вложение (Content-Disposition: attachment).
//   - GET /api/files: тот же листинг в JSON.
//   - GET /health, /stats: health-check и агрегированный размер каталога.
//   - POST /admin/gc, /admin/reset: очистка временных файлов и полный сброс (только при admin_enabled).
package webhttp
