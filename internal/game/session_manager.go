package game

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/playmatatu/ballpit/internal/config"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// SessionManager owns every live session.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      *config.Config
	ctx      context.Context
}

// Manager is the process-wide session manager, set by InitializeManager.
var Manager *SessionManager

// InitializeManager creates the global manager. Sessions live until removed or
// until ctx is cancelled.
func InitializeManager(ctx context.Context, cfg *config.Config) *SessionManager {
	Manager = NewSessionManager(ctx, cfg)
	return Manager
}

// NewSessionManager creates an empty manager.
func NewSessionManager(ctx context.Context, cfg *config.Config) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		ctx:      ctx,
	}
}

func (sm *SessionManager) GetConfig() *config.Config {
	return sm.cfg
}

// CreateSession builds and starts a session with a random layout.
func (sm *SessionManager) CreateSession(ctx context.Context) (*Session, error) {
	sm.mu.Lock()
	if sm.cfg.MaxSessions > 0 && len(sm.sessions) >= sm.cfg.MaxSessions {
		sm.mu.Unlock()
		return nil, ErrTooManySessions
	}
	id := generateSessionID()
	for sm.sessions[id] != nil {
		id = generateSessionID()
	}
	s := NewSession(sm.ctx, SessionOptions{
		ID:             id,
		Physics:        PhysicsFromConfig(sm.cfg),
		Surface:        Surface{Width: sm.cfg.SurfaceWidth, Height: sm.cfg.SurfaceHeight},
		FrameRate:      sm.cfg.FrameRate,
		ClickThreshold: time.Duration(sm.cfg.ClickThresholdMs) * time.Millisecond,
		BallCount:      sm.cfg.BallCount,
		MinRadius:      sm.cfg.BallMinRadius,
		MaxRadius:      sm.cfg.BallMaxRadius,
		Seed:           time.Now().UnixNano(),
	})
	sm.sessions[id] = s
	sm.mu.Unlock()

	if err := s.Start(ctx); err != nil {
		sm.RemoveSession(id)
		return nil, err
	}

	log.Printf("[SESSION] Created %s (%d bodies on %.0fx%.0f)", id, sm.cfg.BallCount, sm.cfg.SurfaceWidth, sm.cfg.SurfaceHeight)
	return s, nil
}

// GetSession looks up a session by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// RemoveSession stops and discards a session.
func (sm *SessionManager) RemoveSession(id string) error {
	sm.mu.Lock()
	s, ok := sm.sessions[id]
	if ok {
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	log.Printf("[SESSION] Removed %s", id)
	return nil
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Shutdown closes every session.
func (sm *SessionManager) Shutdown() {
	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func generateSessionID() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, 12)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return "S_" + string(result)
}
