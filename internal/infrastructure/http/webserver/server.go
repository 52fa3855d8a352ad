package webserver

import (
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/bunnybakes/v1/internal/application/session"
	"github.com/bunnybakes/v1/internal/infrastructure/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:embed templates/*
var templatesFS embed.FS

type sessionCtxKey struct{}

// Server is the web frontend HTTP server. It renders the current screen
// from each session's controller and dispatches form posts back to it.
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
	router    *chi.Mux
	sessions  *SessionStore
	templates *template.Template
}

// NewServer creates a new web frontend server instance
func NewServer(cfg *config.Config, log *zap.Logger, sessions *SessionStore) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		config:    cfg,
		logger:    log,
		sessions:  sessions,
		templates: templates,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupRoutes configures the web frontend routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.sessionMiddleware)

	r.Get("/health", s.handleHealthCheck)

	r.Get("/", s.handleIndex)
	r.Post("/navigate", s.handleNavigate)
	r.Post("/generate", s.handleGenerate)
	r.Post("/recipes/save", s.handleSaveRecipe)
	r.Post("/recipes/{id}/open", s.handleOpenRecipe)
	r.Post("/posts", s.handlePublishPost)
	r.Post("/posts/{id}/like", s.handleToggleLike)
	r.Post("/chat", s.handleChat)

	return r
}

// Start starts the web frontend HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting Bunny Bakes web server",
		zap.String("address", s.server.Addr),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the web server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down Bunny Bakes web server...")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Middleware

func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r)
		if err != nil {
			sess = s.sessions.New()
			sess.Save(w)
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) store(r *http.Request) *session.Store {
	sess := r.Context().Value(sessionCtxKey{}).(*browserSession)
	return sess.Store
}

// Handler functions

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"version":   s.config.App.Version,
		"timestamp": time.Now(),
	})
}

// handleIndex renders whatever screen the controller currently shows.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.store(r).Snapshot()

	name := map[session.View]string{
		session.ViewHome:         "home",
		session.ViewGenerate:     "generate",
		session.ViewRecipeDetail: "recipe-detail",
		session.ViewChat:         "chat",
		session.ViewSaved:        "saved",
		session.ViewCommunity:    "community",
		session.ViewCreatePost:   "create-post",
	}[snap.View]
	if name == "" {
		name = "home"
	}

	s.renderTemplate(w, name, snap)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	view := session.View(r.FormValue("view"))
	s.store(r).Navigate(view)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	store := s.store(r)

	draft := session.GeneratorDraft{
		Mode:    session.GenerationMode(r.FormValue("mode")),
		Prompt:  r.FormValue("prompt"),
		Dietary: r.FormValue("dietary"),
	}

	if draft.Mode == session.ModeImage {
		image, mime, err := s.readUpload(r, "image")
		if err != nil {
			s.logger.Debug("generator image upload missing", zap.Error(err))
		}
		draft.SelectedImage = image
		draft.ImageMimeType = mime
	}

	store.SetGeneratorDraft(draft)
	if err := store.Generate(r.Context()); err != nil {
		s.logger.Debug("generation rejected", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	s.store(r).SaveActiveRecipe()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleOpenRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store(r).OpenRecipe(id); err != nil {
		s.logger.Debug("open recipe failed", zap.String("recipe_id", id), zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	s.store(r).ToggleLike(chi.URLParam(r, "id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePublishPost(w http.ResponseWriter, r *http.Request) {
	store := s.store(r)

	image, _, err := s.readUpload(r, "image")
	if err != nil {
		s.logger.Debug("post image upload missing", zap.Error(err))
	}

	store.SetPostDraft(session.PostDraft{
		Image:          image,
		Caption:        r.FormValue("caption"),
		LinkedRecipeID: r.FormValue("linked_recipe_id"),
	})

	if err := store.PublishPost(); err != nil {
		s.logger.Debug("publish rejected", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := s.store(r).SendChatMessage(r.Context(), r.FormValue("message")); err != nil {
		s.logger.Debug("chat message rejected", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readUpload reads a single uploaded image fully into memory and encodes
// it as a data URL, the form every stored image takes in this app.
func (s *Server) readUpload(r *http.Request, field string) (dataURL, mimeType string, err error) {
	if err := r.ParseMultipartForm(s.config.Server.MaxUploadBytes); err != nil {
		return "", "", err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}

	mimeType = header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded), mimeType, nil
}

// renderTemplate renders a screen inside the shared layout.
func (s *Server) renderTemplate(w http.ResponseWriter, name string, snap session.Snapshot) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := map[string]interface{}{
		"Title":  s.config.App.Name,
		"Screen": name,
		"State":  snap,
	}

	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Failed to execute template",
			zap.String("template", name),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// parseTemplates parses all HTML templates from the embedded filesystem
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(millis int64) string {
			return time.UnixMilli(millis).Format("2006-01-02")
		},
		"timeAgo": func(millis int64) string {
			duration := time.Since(time.UnixMilli(millis))
			switch {
			case duration < time.Minute:
				return "刚刚"
			case duration < time.Hour:
				return fmt.Sprintf("%d分钟前", int(duration.Minutes()))
			case duration < 24*time.Hour:
				return fmt.Sprintf("%d小时前", int(duration.Hours()))
			default:
				return time.UnixMilli(millis).Format("1月2日")
			}
		},
		"truncate": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "..."
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "templates/")
		name = strings.TrimSuffix(name, ".html")

		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk templates: %w", err)
	}

	return tmpl, nil
}
