package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/benvon/lemonaid/internal/config"
	"go.uber.org/zap"
)

//go:embed web/templates/*.html
var templateFS embed.FS

//go:embed web/static
var staticFS embed.FS

var homeTemplate = template.Must(template.ParseFS(templateFS, "web/templates/home.html"))

// AppTitle is shown on the home page.
const AppTitle = "Lemonaid"

type homeData struct {
	Title          string
	Environment    string
	APIPrefix      string
	APIKeyRequired bool
	APIKeyHeader   string
}

// HomeHandler renders the landing page.
type HomeHandler struct {
	data homeData
	log  *zap.Logger
}

// NewHomeHandler creates a new home page handler
func NewHomeHandler(cfg *config.Settings, log *zap.Logger) *HomeHandler {
	return &HomeHandler{
		data: homeData{
			Title:          AppTitle,
			Environment:    string(cfg.Env),
			APIPrefix:      cfg.APIPrefix,
			APIKeyRequired: cfg.APIKeyConfigured(),
			APIKeyHeader:   cfg.APIKeyHeader,
		},
		log: log,
	}
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := homeTemplate.Execute(&buf, h.data); err != nil {
		h.log.Error("Failed to render home page", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// StaticHandler serves the embedded assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
