// Package web serves the game modal, the chatbot and the booking relays as a
// JSON API for the portfolio site.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/folio-arcade/internal/booking"
	"github.com/vovakirdan/folio-arcade/internal/chatbot"
	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/session"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

// ResultStore is the results log behind /api/results and /api/stats.
// *storage.Store implements it.
type ResultStore interface {
	session.ResultLog
	RecentResults(gameID core.GameID, limit int) ([]storage.ResultRecord, error)
	VisitorResults(visitor string, limit int) ([]storage.ResultRecord, error)
	GetAllGamesStats() (map[core.GameID]*storage.GameStats, error)
}

// Chatbot answers chat messages.
type Chatbot interface {
	Reply(ctx context.Context, msg string) chatbot.Reply
}

// Relay submits appointment requests and contact messages.
type Relay interface {
	Validate(a booking.Appointment) error
	SubmitAppointment(ctx context.Context, a booking.Appointment) booking.Toast
	SubmitContact(ctx context.Context, m booking.ContactMessage) booking.Toast
	Hours() booking.Hours
	Now() time.Time
}

// Scheduler runs f once after d and returns a function that cancels it.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Server is the HTTP API.
type Server struct {
	cfg      config.ModalConfig
	profiles profile.KV
	flags    *sessionFlags
	results  ResultStore
	bot      Chatbot
	relay    Relay
	seed     int64
	schedule Scheduler
	now      func() time.Time
	log      *log.Logger

	sessions *sessionStore
	engine   *gin.Engine
	http     *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithProfileKV stores visitor profiles in kv instead of memory.
func WithProfileKV(kv profile.KV) Option {
	return func(s *Server) { s.profiles = kv }
}

// WithResults enables the results log and the results endpoints.
func WithResults(r ResultStore) Option {
	return func(s *Server) { s.results = r }
}

// WithChatbot replaces the chatbot built from the config.
func WithChatbot(b Chatbot) Option {
	return func(s *Server) { s.bot = b }
}

// WithRelay replaces the booking relay built from the config.
func WithRelay(r Relay) Option {
	return func(s *Server) { s.relay = r }
}

// WithSeed fixes shuffles and bot choices; 0 means time-based.
func WithSeed(seed int64) Option {
	return func(s *Server) { s.seed = seed }
}

// WithScheduler replaces time.AfterFunc for modal timers.
func WithScheduler(f Scheduler) Option {
	return func(s *Server) { s.schedule = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer builds the API for addr.
func NewServer(addr string, cfg config.ModalConfig, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		profiles: profile.NewMemoryKV(),
		schedule: afterFunc,
		now:      time.Now,
		log: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "folio-http",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.flags = newSessionFlags(s.now)
	if s.bot == nil {
		s.bot = chatbot.New(cfg.Chatbot, chatbot.WithCTA(cfg.Modal.CTAText), chatbot.WithLogger(s.log))
	}
	if s.relay == nil {
		s.relay = booking.NewRelay(cfg.Booking, booking.WithLogger(s.log))
	}
	s.sessions = newSessionStore()

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.loggingMiddleware())
	s.routes()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/games", s.handleGames)

	modal := api.Group("/modal")
	modal.POST("", s.handleMount)
	modal.GET("/:id", s.handleView)
	modal.DELETE("/:id", s.handleUnmount)
	modal.POST("/:id/open", s.action((*session.Shell).Open))
	modal.POST("/:id/close", s.action((*session.Shell).Close))
	modal.POST("/:id/back", s.action(func(sh *session.Shell) { sh.Controller().Back() }))
	modal.POST("/:id/reset", s.action(func(sh *session.Shell) { sh.Controller().ResetGame() }))
	modal.POST("/:id/trigger/click", s.action((*session.Shell).ClickTrigger))
	modal.POST("/:id/trigger/dismiss", s.action((*session.Shell).DismissTrigger))
	modal.POST("/:id/select", s.handleSelect)
	modal.POST("/:id/input", s.handleInput)
	modal.POST("/:id/cta", s.handleCTA)

	api.GET("/profile", s.handleProfile)
	api.DELETE("/profile", s.handleResetProfile)

	api.POST("/chat", s.handleChat)
	api.GET("/chat/quick-replies", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"questions": chatbot.QuickReplies})
	})

	api.GET("/appointments/types", s.handleAppointmentTypes)
	api.GET("/appointments/slots", s.handleSlots)
	api.POST("/appointments", s.handleAppointment)
	api.POST("/contact", s.handleContact)

	api.GET("/results", s.handleResults)
	api.GET("/stats", s.handleStats)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.http.Addr }

// loggingMiddleware logs each request once it has been served.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// Serve listens until Shutdown is called.
func (s *Server) Serve() error {
	s.log.Info("starting HTTP server", "address", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() { errc <- s.Serve() }()

	select {
	case err := <-errc:
		return err
	case <-done:
	}
	s.log.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops the listener and every modal session's timers.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.sessions.stopAll()
	return s.http.Shutdown(ctx)
}
