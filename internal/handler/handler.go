package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/view"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful to tell the client.
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeText writes a plain-text response with the given status code.
func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// Pages renders the HTML pages shared by every handler, including the error
// pages used for unmatched routes and server faults.
type Pages struct {
	renderer    view.Renderer
	development bool
	logger      zerolog.Logger
}

// NewPages creates the page renderer. In development mode server error pages
// include the error message.
func NewPages(renderer view.Renderer, development bool, logger zerolog.Logger) *Pages {
	return &Pages{
		renderer:    renderer,
		development: development,
		logger:      logger.With().Str("handler", "pages").Logger(),
	}
}

// render executes the template into a buffer so a failing template never
// leaves a half-written page behind.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, name, data); err != nil {
		p.logger.Error().
			Err(err).
			Str("page", name).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("failed to render page")
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Home handles GET / requests.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, view.PageHome, view.HomePage{
		Title:   "Welcome to the Online Store",
		Message: "Explore our products and manage your inventory!",
	})
}

// NotFound renders the 404 page for any unmatched route.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, view.PageError, view.ErrorPage{
		Title:   "Page Not Found",
		Code:    http.StatusNotFound,
		Message: "Sorry, the page you are looking for does not exist.",
		Path:    r.URL.RequestURI(),
	})
}

// ServerError logs err and renders the 500 page.
func (p *Pages) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("server error")

	page := view.ErrorPage{
		Title:   "Server Error",
		Code:    http.StatusInternalServerError,
		Message: "An error occurred on the server. Please try again later.",
		Path:    r.URL.RequestURI(),
	}
	if p.development && err != nil {
		page.Detail = err.Error()
	}

	p.render(w, r, http.StatusInternalServerError, view.PageError, page)
}
