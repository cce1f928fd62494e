package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/errors"
	"github.com/conneroisu/projectcard/internal/page"
	"github.com/conneroisu/projectcard/internal/validation"
	"github.com/conneroisu/projectcard/internal/version"
)

// ProjectResponse is a project as returned by the JSON API.
type ProjectResponse struct {
	card.ProjectCard
	CardURL  string `json:"card_url"`
	ImageURL string `json:"image_url,omitempty"`
	Banner   bool   `json:"banner"`
}

// Handler returns the HTTP handler with every route and middleware.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /card/{name}", s.handleCard)
	mux.HandleFunc("GET /api/projects", s.handleProjects)
	mux.HandleFunc("GET /api/projects/{name}", s.handleProject)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.Handle("GET "+card.DefaultStaticURL+"/",
		http.StripPrefix(card.DefaultStaticURL, noDirListing(http.FileServerFS(card.StaticFS()))))

	if prefix := s.assetsRoute(); prefix != "" {
		mux.Handle("GET "+prefix+"/",
			http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(s.config.Assets.Dir)))))
	}

	return s.middleware(mux)
}

// assetsRoute is the local path images are served under, or "" when the
// base URL points elsewhere.
func (s *PreviewServer) assetsRoute() string {
	prefix := strings.TrimRight(s.config.Assets.BaseURL, "/")
	if !strings.HasPrefix(prefix, "/") || prefix == card.DefaultStaticURL {
		return ""
	}
	switch prefix {
	case "/card", "/api", "/health", "/ws":
		return ""
	}
	return prefix
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *PreviewServer) layoutOptions() page.LayoutOptions {
	return page.LayoutOptions{
		StaticURL:  card.DefaultStaticURL,
		LiveReload: s.config.Development.HotReload,
	}
}

func (s *PreviewServer) cardComponent(p card.ProjectCard) templ.Component {
	return card.Card(p, s.cardOptions...)
}

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	projects := s.registry.All()

	var body templ.Component
	if len(projects) == 0 {
		body = page.Message(fmt.Sprintf("No projects found in %s.", s.config.Catalog.Path))
	} else {
		cards := make([]templ.Component, len(projects))
		for i, p := range projects {
			cards[i] = s.cardComponent(p)
		}
		body = page.Gallery(cards)
	}

	templ.Handler(page.Document(s.config.Render.Title, s.layoutOptions(), body)).ServeHTTP(w, r)
}

func (s *PreviewServer) handleCard(w http.ResponseWriter, r *http.Request) {
	name := validation.SanitizeInput(r.PathValue("name"))

	p, ok := s.registry.Get(name)
	if !ok {
		doc := page.Document(s.config.Render.Title, s.layoutOptions(),
			page.Message(fmt.Sprintf("No project named %q.", name)))
		templ.Handler(doc, templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
		return
	}

	title := p.DisplayName() + " | " + s.config.Render.Title
	body := page.Gallery([]templ.Component{s.cardComponent(p)})
	templ.Handler(page.Document(title, s.layoutOptions(), body)).ServeHTTP(w, r)
}

func (s *PreviewServer) projectResponse(p card.ProjectCard) ProjectResponse {
	resp := ProjectResponse{
		ProjectCard: p,
		CardURL:     "/card/" + url.PathEscape(p.Name),
	}
	if p.Image != "" {
		if src, err := card.ImageSource(p.Image, s.assets); err == nil {
			resp.ImageURL = src
		}
	}
	resp.Banner = resp.ImageURL == "" && p.BannerEnabled()
	return resp
}

func (s *PreviewServer) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.registry.All()
	items := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		items[i] = s.projectResponse(p)
	}

	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"projects": items,
		"count":    len(items),
	})
}

func (s *PreviewServer) handleProject(w http.ResponseWriter, r *http.Request) {
	name := validation.SanitizeInput(r.PathValue("name"))

	p, ok := s.registry.Get(name)
	if !ok {
		err := errors.NewValidationError(errors.ErrCodeProjectNotFound, "project not found").WithProject(name)
		s.logger.Debug(r.Context(), err.Error())
		s.writeJSON(w, r, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("project %q not found", name),
			"code":  err.Code,
		})
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.projectResponse(p))
}

// handleHealth returns the server health status for health checks
func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version.GetShortVersion(),
		"checks": map[string]interface{}{
			"catalog":   map[string]interface{}{"path": s.config.Catalog.Path, "projects": s.registry.Count()},
			"websocket": map[string]interface{}{"clients": s.hub.ClientCount()},
			"watcher":   map[string]interface{}{"enabled": s.watcher != nil},
		},
	})
}

func (s *PreviewServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error(r.Context(), err, "failed to encode response", "path", r.URL.Path)
	}
}
