// Package web bundles the server-rendered templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/fairyhunter13/printshop/internal/money"
)

//go:embed templates
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Templates parses the embedded pages and partials with the shop's template
// helpers. Template names are file base names, which are unique across the
// tree.
func Templates() *template.Template {
	return template.Must(template.New("").
		Funcs(template.FuncMap{"formatPrice": money.Format}).
		ParseFS(templateFiles,
			"templates/store/*.html",
			"templates/admin/*.html",
			"templates/partials/*.html",
		))
}

// StaticFS exposes the static asset tree rooted at its directory.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
