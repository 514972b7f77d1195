package viewer

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// pageTemplates holds one parsed set per page, each sharing the layout.
var pageTemplates = mustParsePages("overview", "category", "loading", "failed")

func mustParsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.ParseFS(templateFS, "templates/layout.tmpl"))

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		clone := template.Must(base.Clone())
		pages[name] = template.Must(clone.ParseFS(templateFS, "templates/"+name+".tmpl"))
	}
	return pages
}

// renderPage executes the named page template wrapped in the layout.
func renderPage(w io.Writer, name string, page Page) error {
	tmpl, ok := pageTemplates[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", page)
}
