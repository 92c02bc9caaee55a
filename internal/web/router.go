package web

import (
	"io/fs"
	"net/http"

	"booth-go/internal/booth"
)

// NewRouter builds the booth's HTTP routes. Static photo and QR files are
// served from photosRoot under /photos/. Directories are never listed.
func NewRouter(b Booth, photosRoot string, logger booth.Logger) http.Handler {
	if logger == nil {
		logger = booth.NewNopLogger()
	}
	mux := http.NewServeMux()
	h := NewBoothHandler(b, logger)

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /start", h.Start)
	mux.HandleFunc("GET /session/{id}", h.Session)
	mux.HandleFunc("POST /finish/{id}", h.Finish)
	mux.HandleFunc("GET /thumbs/{id}/{file}", h.Thumbnail)

	files := http.FileServer(filesOnly{http.Dir(photosRoot)})
	mux.Handle("GET /photos/", http.StripPrefix("/photos", files))

	return WithLogging(logger, mux)
}

// filesOnly hides directories so the file server cannot list sessions.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
