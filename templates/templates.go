package templates

import (
	"embed"
	"html/template"
	"time"
)

//go:embed *.html
var files embed.FS

// Load parses every page and partial into one template set. Pages are
// addressed by file name, e.g. "home.html".
func Load() (*template.Template, error) {
	return template.New("warbler").Funcs(template.FuncMap{
		"formatTime": formatTime,
		"deref":      deref,
	}).ParseFS(files, "*.html")
}

func formatTime(t time.Time) string {
	return t.Format("02 January 2006")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
