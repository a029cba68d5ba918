// Package apitest provides an in-memory fake of the brand generator API
// for tests.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/five82/brandloom/internal/api"
)

// Server is a fake backend. All state is guarded by mu.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	brands   map[string][]api.BrandPayload // by user id
	themes   map[string][]api.ThemePayload // by user id
	failures map[string]failure
	streams  map[string]StreamScript
	requests []string
}

type failure struct {
	status  int
	message string
}

// StreamScript describes what a fake SSE endpoint emits.
type StreamScript struct {
	Frames []string
	// Hold keeps the connection open after the frames until the client
	// disconnects.
	Hold bool
	// Gate, when set, is waited on before the frames are written.
	Gate <-chan struct{}
}

// Stream keys used with SetStream.
const (
	ThemeOptionsStream = "auto-generate"
	RegenerateStream   = "regenerate"
)

// PostsStream returns the stream key for a theme's post generation.
func PostsStream(themeID string) string {
	return "posts:" + themeID
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		brands:   make(map[string][]api.BrandPayload),
		themes:   make(map[string][]api.ThemePayload),
		failures: make(map[string]failure),
		streams:  make(map[string]StreamScript),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.inject)

	r.Post("/api/auth/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/api/brands/", s.handleListBrands)
		r.Post("/api/brands/", s.handleCreateBrand)
		r.Delete("/api/brands/{id}", s.handleDeleteBrand)
		r.Get("/api/themes/", s.handleListThemes)
		r.Post("/api/themes/", s.handleCreateTheme)
		r.Put("/api/themes/{id}", s.handleUpdateTheme)
		r.Delete("/api/themes/{id}", s.handleDeleteTheme)
	})
	r.Get("/api/themes/auto-generate-stream", s.handleStream(func(*http.Request) string { return ThemeOptionsStream }))
	r.Get("/api/themes/regenerate-images-stream", s.handleStream(func(*http.Request) string { return RegenerateStream }))
	r.Get("/api/themes/{id}/generate-posts-stream", s.handleStream(func(r *http.Request) string {
		return PostsStream(chi.URLParam(r, "id"))
	}))
	return r
}

// Fail makes every request matching "METHOD /path" answer with status.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Heal removes an injected failure.
func (s *Server) Heal(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// SetStream scripts the SSE endpoint identified by key.
func (s *Server) SetStream(key string, script StreamScript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams[key] = script
}

// SeedBrand stores a brand for userID and returns it.
func (s *Server) SeedBrand(userID string, b api.BrandPayload) api.BrandPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedDate == "" {
		b.CreatedDate = time.Now().UTC().Format(time.RFC3339)
	}
	s.brands[userID] = append(s.brands[userID], b)
	return b
}

// SeedTheme stores a theme for userID and returns it.
func (s *Server) SeedTheme(userID string, th api.ThemePayload) api.ThemePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if th.ID == "" {
		th.ID = uuid.NewString()
	}
	if th.Posts == nil {
		th.Posts = []api.PostPayload{}
	}
	s.themes[userID] = append(s.themes[userID], th)
	return th
}

// Theme returns the stored theme with id.
func (s *Server) Theme(userID, id string) (api.ThemePayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, th := range s.themes[userID] {
		if th.ID == id {
			return th, true
		}
	}
	return api.ThemePayload{}, false
}

// Requests returns "METHOD /path" for every request seen so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// UserID mirrors the backend's username to uid derivation.
func UserID(username string) string {
	return "user_" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(username)), " ", "_")
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeJSON(w, f.status, map[string]string{"detail": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-ID") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "User ID header required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Username) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username cannot be empty"})
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{
		UID:       UserID(body.Username),
		Username:  strings.TrimSpace(body.Username),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]api.BrandPayload{}, s.brands[r.Header.Get("X-User-ID")]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var body api.BrandPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	body.ID = ""
	body.CreatedDate = ""
	writeJSON(w, http.StatusOK, s.SeedBrand(r.Header.Get("X-User-ID"), body))
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	user, id := r.Header.Get("X-User-ID"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	brands := s.brands[user]
	for i, b := range brands {
		if b.ID == id {
			s.brands[user] = append(brands[:i:i], brands[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Brand deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Brand not found"})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]api.ThemePayload{}, s.themes[r.Header.Get("X-User-ID")]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTheme(w http.ResponseWriter, r *http.Request) {
	var body api.ThemePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	user := r.Header.Get("X-User-ID")
	s.mu.Lock()
	owned := false
	for _, b := range s.brands[user] {
		if b.ID == body.BrandID {
			owned = true
		}
	}
	s.mu.Unlock()
	if !owned {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Brand not found"})
		return
	}
	body.ID = ""
	writeJSON(w, http.StatusOK, s.SeedTheme(user, body))
}

func (s *Server) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var body api.ThemeUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	user, id := r.Header.Get("X-User-ID"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, th := range s.themes[user] {
		if th.ID != id {
			continue
		}
		applyUpdate(&th, body)
		s.themes[user][i] = th
		writeJSON(w, http.StatusOK, th)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Theme not found"})
}

func (s *Server) handleDeleteTheme(w http.ResponseWriter, r *http.Request) {
	user, id := r.Header.Get("X-User-ID"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	themes := s.themes[user]
	for i, th := range themes {
		if th.ID == id {
			s.themes[user] = append(themes[:i:i], themes[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Theme deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Theme not found"})
}

func (s *Server) handleStream(key func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		script, ok := s.streams[key(r)]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no stream scripted"})
			return
		}
		if script.Gate != nil {
			select {
			case <-script.Gate:
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, frame := range script.Frames {
			fmt.Fprintf(w, "data: %s\n\n", frame)
			if flusher != nil {
				flusher.Flush()
			}
		}
		if script.Hold {
			waitDone(r.Context())
		}
	}
}

func waitDone(ctx context.Context) {
	<-ctx.Done()
}

func applyUpdate(th *api.ThemePayload, u api.ThemeUpdatePayload) {
	if u.Name != nil {
		th.Name = *u.Name
	}
	if u.PostsCount != nil {
		th.PostsCount = *u.PostsCount
	}
	if u.Mood != nil {
		th.Mood = *u.Mood
	}
	if u.Colors != nil {
		th.Colors = u.Colors
	}
	if u.Imagery != nil {
		th.Imagery = *u.Imagery
	}
	if u.Tone != nil {
		th.Tone = *u.Tone
	}
	if u.CaptionLength != nil {
		th.CaptionLength = *u.CaptionLength
	}
	if u.UseEmojis != nil {
		th.UseEmojis = *u.UseEmojis
	}
	if u.UseHashtags != nil {
		th.UseHashtags = *u.UseHashtags
	}
	if u.Posts != nil {
		th.Posts = *u.Posts
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
