package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type sessionPage struct {
	SessionID string
	Photos    []string
}

type qrPage struct {
	SessionID string
	ShortCode string
	QRImage   string
	Published int
	Failures  []string
}
