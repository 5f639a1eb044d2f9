// Package view renders the storefront HTML pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"
)

//go:embed templates/*.html static/*
var content embed.FS

// Page names accepted by Render.
const (
	PageHome     = "index"
	PageProducts = "products"
	PageError    = "error"
)

var pageNames = []string{PageHome, PageProducts, PageError}

// HomePage is the data for the welcome page.
type HomePage struct {
	Title   string
	Message string
}

// ProductsPage is the data for the product listing page.
type ProductsPage struct {
	Title    string
	Products []model.Product
}

// ErrorPage is the data for the 404 and 500 pages. Detail is only set in
// development mode.
type ErrorPage struct {
	Title   string
	Code    int
	Message string
	Path    string
	Detail  string
}

// Renderer writes a named page to w.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Templates holds one parsed template set per page, each sharing the layout.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"price": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// New parses the embedded templates.
func New() (*Templates, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(content,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Templates{pages: pages}, nil
}

// Render executes the layout for page name with data.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Static serves the embedded stylesheet and other assets. Missing files and
// directories are passed to notFound, so no listing is ever produced.
func Static(notFound http.Handler) http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServerFS(sub)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		info, err := fs.Stat(sub, name)
		if err != nil || info.IsDir() {
			notFound.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
