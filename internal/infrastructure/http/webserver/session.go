// Package webserver provides the web frontend HTTP server implementation.
package webserver

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/bunnybakes/v1/internal/application/session"
	"github.com/bunnybakes/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

const sessionCookie = "bunnybakes-session"

// browserSession binds one view-state controller to one browser.
type browserSession struct {
	ID        string
	Store     *session.Store
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore manages browser sessions. Each cookie owns its own
// controller instance, so sessions never see each other's state.
type SessionStore struct {
	sessions map[string]*browserSession
	mu       sync.RWMutex
	ai       outbound.AIService
	logger   *zap.Logger
}

// NewSessionStore creates a new session store
func NewSessionStore(ai outbound.AIService, logger *zap.Logger) *SessionStore {
	store := &SessionStore{
		sessions: make(map[string]*browserSession),
		ai:       ai,
		logger:   logger,
	}

	go store.cleanupExpired()

	return store
}

// Get retrieves the session bound to the request's cookie.
func (s *SessionStore) Get(r *http.Request) (*browserSession, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	sess, exists := s.sessions[cookie.Value]
	s.mu.RUnlock()

	if !exists {
		return nil, http.ErrNoCookie
	}

	if time.Now().After(sess.ExpiresAt) {
		s.Delete(cookie.Value)
		return nil, http.ErrNoCookie
	}

	return sess, nil
}

// New creates a session with a fresh, seeded controller.
func (s *SessionStore) New() *browserSession {
	sess := &browserSession{
		ID:        generateSessionID(),
		Store:     session.NewStore(s.ai, s.logger),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Save sets the session cookie on the response.
func (sess *browserSession) Save(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
	})
}

// Delete removes a session
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// cleanupExpired removes expired sessions periodically
func (s *SessionStore) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, sess := range s.sessions {
			if now.After(sess.ExpiresAt) {
				delete(s.sessions, id)
				s.logger.Debug("Cleaned up expired session", zap.String("session_id", id))
			}
		}
		s.mu.Unlock()
	}
}

// generateSessionID generates a random session ID
func generateSessionID() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
