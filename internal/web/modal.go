package web

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/pacing"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/session"
)

const (
	visitorCookie = "folio_visitor"
	sessionCookie = "folio_session"

	visitorMaxAge = 365 * 24 * 60 * 60
	sessionIdle   = 30 * time.Minute
)

// modalSession is one mounted modal. Every access to the shell goes through
// mu, including the timers that fire its deferred steps.
type modalSession struct {
	id       string
	visitor  string
	schedule Scheduler

	mu       sync.Mutex
	shell    *session.Shell
	timers   map[pacing.Token]func() bool
	lastSeen time.Time
	stopped  bool
}

// do runs fn under the lock and schedules whatever it defers.
func (m *modalSession) do(now time.Time, fn func(*session.Shell) []pacing.Deferred) session.ShellView {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSeen = now
	if !m.stopped {
		m.scheduleLocked(fn(m.shell))
	}
	return m.shell.View()
}

func (m *modalSession) scheduleLocked(ds []pacing.Deferred) {
	for _, d := range ds {
		tok := d.Token
		m.timers[tok] = m.schedule(d.Delay, func() { m.fire(tok) })
	}
}

func (m *modalSession) fire(tok pacing.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, tok)
	if m.stopped {
		return
	}
	m.scheduleLocked(m.shell.Fire(tok))
}

func (m *modalSession) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.stopped = true
	for tok, stop := range m.timers {
		stop()
		delete(m.timers, tok)
	}
	m.shell.Unmount()
}

func (m *modalSession) idleSince(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return now.Sub(m.lastSeen)
}

// sessionStore holds the mounted modals by id.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*modalSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*modalSession)}
}

func (s *sessionStore) get(id string) (*modalSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.sessions[id]
	return m, ok
}

func (s *sessionStore) set(m *modalSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[m.id] = m
}

func (s *sessionStore) remove(id string) (*modalSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.sessions[id]
	delete(s.sessions, id)
	return m, ok
}

func (s *sessionStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweep stops and drops sessions idle for longer than maxIdle.
func (s *sessionStore) sweep(now time.Time, maxIdle time.Duration) int {
	s.mu.Lock()
	var idle []*modalSession
	for id, m := range s.sessions {
		if m.idleSince(now) > maxIdle {
			idle = append(idle, m)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, m := range idle {
		m.stop()
	}
	return len(idle)
}

func (s *sessionStore) stopAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*modalSession)
	s.mu.Unlock()

	for _, m := range all {
		m.stop()
	}
}

// sessionFlags holds the per-browser-session "already shown" flags. Every
// read or write refreshes an entry; sweep drops entries untouched for longer
// than the idle limit, so a browser coming back after that counts as a new
// browsing session.
type sessionFlags struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]flagEntry
}

type flagEntry struct {
	value string
	seen  time.Time
}

func newSessionFlags(now func() time.Time) *sessionFlags {
	return &sessionFlags{now: now, entries: make(map[string]flagEntry)}
}

// Get implements profile.KV.
func (f *sessionFlags) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok {
		return "", false, nil
	}
	e.seen = f.now()
	f.entries[key] = e
	return e.value, true, nil
}

// Set implements profile.KV.
func (f *sessionFlags) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = flagEntry{value: value, seen: f.now()}
	return nil
}

func (f *sessionFlags) sweep(now time.Time, maxIdle time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for key, e := range f.entries {
		if now.Sub(e.seen) > maxIdle {
			delete(f.entries, key)
			n++
		}
	}
	return n
}

func (f *sessionFlags) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// cookieID returns the uuid stored in cookie name, issuing a new one when it
// is missing or malformed. maxAge 0 makes a browser-session cookie.
func cookieID(c *gin.Context, name string, maxAge int) string {
	if v, err := c.Cookie(name); err == nil {
		if _, err := uuid.Parse(v); err == nil {
			return v
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, id, maxAge, "/", "", false, true)
	return id
}

func (s *Server) visitorID(c *gin.Context) string {
	return cookieID(c, visitorCookie, visitorMaxAge)
}

func (s *Server) profileStore(visitor string) *profile.Store {
	return profile.NewStore(s.profiles, s.cfg.Modal.ProfileKey+":"+visitor, s.cfg.Points,
		profile.WithClock(s.now), profile.WithLogger(s.log.With("visitor", visitor)))
}

// newModalSession builds the shell for one page mount. The "already shown"
// flag is scoped to the browser session cookie, so reloading the page does
// not auto-open the modal again.
func (s *Server) newModalSession(visitor, browserSession string) *modalSession {
	logger := s.log.With("visitor", visitor)
	profiles := s.profileStore(visitor)

	opts := []session.Option{
		session.WithVisitor(visitor),
		session.WithLogger(logger),
		session.WithRuntime(core.RuntimeConfig{Seed: s.seed, Now: s.now}),
	}
	if s.results != nil {
		opts = append(opts, session.WithResultLog(s.results))
	}
	ctrl := session.NewController(s.cfg, profiles, opts...)

	modalCfg := s.cfg.Modal
	modalCfg.SessionFlagKey = modalCfg.SessionFlagKey + ":" + browserSession

	return &modalSession{
		id:       uuid.NewString(),
		visitor:  visitor,
		schedule: s.schedule,
		shell:    session.NewShell(ctrl, profiles, s.flags, modalCfg, logger),
		timers:   make(map[pacing.Token]func() bool),
		lastSeen: s.now(),
	}
}

type mountResponse struct {
	ID string `json:"id"`
	session.ShellView
}

func (s *Server) handleMount(c *gin.Context) {
	now := s.now()
	if n := s.sessions.sweep(now, sessionIdle); n > 0 {
		s.log.Debug("expired idle modal sessions", "count", n)
	}
	if n := s.flags.sweep(now, sessionIdle); n > 0 {
		s.log.Debug("expired session flags", "count", n)
	}

	visitor := s.visitorID(c)
	m := s.newModalSession(visitor, cookieID(c, sessionCookie, 0))
	s.sessions.set(m)

	view := m.do(s.now(), (*session.Shell).Mount)
	c.JSON(http.StatusCreated, mountResponse{ID: m.id, ShellView: view})
}

func (s *Server) modal(c *gin.Context) (*modalSession, bool) {
	m, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "modal session not found"})
	}
	return m, ok
}

func (s *Server) handleView(c *gin.Context) {
	m, ok := s.modal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.do(s.now(), func(*session.Shell) []pacing.Deferred { return nil }))
}

func (s *Server) handleUnmount(c *gin.Context) {
	m, ok := s.sessions.remove(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "modal session not found"})
		return
	}
	m.stop()
	c.Status(http.StatusNoContent)
}

// action adapts a shell method without deferred steps to a handler.
func (s *Server) action(fn func(*session.Shell)) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := s.modal(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, m.do(s.now(), func(sh *session.Shell) []pacing.Deferred {
			fn(sh)
			return nil
		}))
	}
}

type selectRequest struct {
	Game core.GameID `json:"game" binding:"required"`
}

func (s *Server) handleSelect(c *gin.Context) {
	m, ok := s.modal(c)
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var selErr error
	view := m.do(s.now(), func(sh *session.Shell) []pacing.Deferred {
		selErr = sh.Controller().Select(req.Game)
		return nil
	})
	switch {
	case errors.Is(selErr, session.ErrClosed):
		c.JSON(http.StatusConflict, gin.H{"error": selErr.Error()})
	case errors.Is(selErr, session.ErrUnknownGame):
		c.JSON(http.StatusBadRequest, gin.H{"error": selErr.Error()})
	case selErr != nil:
		s.log.Error("cannot start game", "game", req.Game, "err", selErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot start game"})
	default:
		c.JSON(http.StatusOK, view)
	}
}

type inputRequest struct {
	Index *int `json:"index" binding:"required"`
}

// handleInput forwards a cell, answer or card index. Rejected input is not
// an error; the unchanged view is returned.
func (s *Server) handleInput(c *gin.Context) {
	m, ok := s.modal(c)
	if !ok {
		return
	}
	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m.do(s.now(), func(sh *session.Shell) []pacing.Deferred {
		return sh.Controller().Input(*req.Index)
	}))
}

type ctaResponse struct {
	Section string `json:"section"`
	session.ShellView
}

func (s *Server) handleCTA(c *gin.Context) {
	m, ok := s.modal(c)
	if !ok {
		return
	}
	var section string
	view := m.do(s.now(), func(sh *session.Shell) []pacing.Deferred {
		section = sh.CallToAction()
		return nil
	})
	c.JSON(http.StatusOK, ctaResponse{Section: section, ShellView: view})
}

func (s *Server) handleGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": session.Cards(s.cfg)})
}
