package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"booth-go/internal/booth"
	"booth-go/internal/enhance"
)

// Booth is the part of the booth service the web surface drives.
type Booth interface {
	StartSession(ctx context.Context) (*booth.Session, error)
	SessionPhotos(id string) ([]string, error)
	PhotoPath(id, filename string) (string, error)
	FinishSession(ctx context.Context, id string) (*booth.FinishReport, error)
}

type BoothHandler struct {
	booth  Booth
	logger booth.Logger
}

func NewBoothHandler(b Booth, logger booth.Logger) *BoothHandler {
	return &BoothHandler{booth: b, logger: logger}
}

// Index handles GET /
func (h *BoothHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", nil)
}

// Start handles POST /start
func (h *BoothHandler) Start(w http.ResponseWriter, r *http.Request) {
	session, err := h.booth.StartSession(r.Context())
	if err != nil {
		h.logger.Error("failed to start session", "error", err)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/session/"+session.ID, http.StatusSeeOther)
}

// Session handles GET /session/{id}
func (h *BoothHandler) Session(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	photos, err := h.booth.SessionPhotos(id)
	if errors.Is(err, booth.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to list photos", "session_id", id, "error", err)
		http.Error(w, "Failed to list photos", http.StatusInternalServerError)
		return
	}

	h.render(w, "session.html", sessionPage{SessionID: id, Photos: photos})
}

// Finish handles POST /finish/{id}
func (h *BoothHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	report, err := h.booth.FinishSession(r.Context(), id)
	if errors.Is(err, booth.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("finish failed", "session_id", id, "error", err)
		http.Error(w, "Failed to finish session", http.StatusInternalServerError)
		return
	}

	page := qrPage{
		SessionID: id,
		ShortCode: report.ShortCode,
		QRImage:   "/photos/" + id + "/qr.png",
		Published: len(report.URLs()),
	}
	for _, f := range report.Failures() {
		page.Failures = append(page.Failures, f.Error())
	}
	h.render(w, "qr.html", page)
}

// Thumbnail handles GET /thumbs/{id}/{file}
func (h *BoothHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id, file := r.PathValue("id"), r.PathValue("file")

	path, err := h.booth.PhotoPath(id, file)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := enhance.Thumbnail(&buf, path, enhance.ThumbnailSize); err != nil {
		h.logger.Warn("thumbnail failed", "session_id", id, "file", file, "error", err)
		http.Error(w, "Failed to render thumbnail", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// Health handles GET /health
func (h *BoothHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *BoothHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
