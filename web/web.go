// Package web embeds the console's HTML views.
package web

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded views into a single template set keyed
// by file name, ready for gin's SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
	}).ParseFS(files, "templates/*.html")
}
