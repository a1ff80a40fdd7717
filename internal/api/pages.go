package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/redact"
)

// Page paths.
const (
	AdminPath   = "/admin"
	MyTasksPath = "/tasks/mine"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("pages").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(domain.DeadlineLayout)
		},
		"stamp": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("2006-01-02 15:04")
		},
	}).ParseFS(templateFS, "templates/*.html"),
)

type loginPageData struct {
	Error string
}

type adminPageData struct {
	Name    string
	Notice  string
	IsError bool
	Users   []domain.User
	Tasks   []domain.TaskView
}

type myTasksPageData struct {
	Name     string
	Tasks    []domain.TaskView
	Statuses []domain.TaskStatus
	Updated  string
	Failed   string
}

// renderPage executes the named template into a buffer first so a template
// error still yields a clean 500.
func renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.FromContext(r.Context()).Error("failed to render page",
			slog.String("template", name),
			redact.Attr("error", err))
		http.Error(w, "An unexpected error occurred", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
