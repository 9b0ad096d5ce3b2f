package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/session"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.folio/ssh_host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Seed fixes shuffles and bot choices; 0 means time-based.
	Seed int64
}

// DefaultSSHServerConfig returns a config built from the server section.
func DefaultSSHServerConfig(cfg config.ServerConfig) SSHServerConfig {
	return SSHServerConfig{
		Address:     cfg.SSHAddr,
		HostKeyPath: cfg.HostKeyPath,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the game modal over SSH. Every connection is its own
// browsing session with its own shell; profiles are keyed by the visitor's
// public key, or by user name for keyboard-interactive logins. User-name
// profiles are unauthenticated and shared by everyone using that name.
type SSHServer struct {
	config   SSHServerConfig
	modal    config.ModalConfig
	server   *ssh.Server
	store    *storage.Store
	profiles profile.KV
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server. store may be nil, in which case
// profiles live in memory and no results are logged.
func NewSSHServer(cfg SSHServerConfig, modal config.ModalConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "folio-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		modal:  modal,
		store:  store,
		logger: logger,
	}
	if store != nil {
		srv.profiles = store
	} else {
		srv.profiles = profile.NewMemoryKV()
	}

	hostKeyPath, err := config.ExpandHome(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".folio", "ssh_host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }),
		wish.WithKeyboardInteractiveAuth(func(ssh.Context, gossh.KeyboardInteractiveChallenge) bool { return true }),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// visitorID identifies the person behind a connection.
func visitorID(s ssh.Session) string {
	return visitorKey(s.PublicKey(), s.User())
}

// visitorKey returns the key fingerprint for public-key logins. Keyboard
// interactive logins are keyed "kbd:<user>": anyone typing the same user
// name shares that profile, but it never collides with a fingerprint.
func visitorKey(pk gossh.PublicKey, user string) string {
	if pk != nil {
		return gossh.FingerprintSHA256(pk)
	}
	return "kbd:" + user
}

// newSessionShell builds the shell for one connection.
func (s *SSHServer) newSessionShell(visitor string) *session.Shell {
	logger := s.logger.With("visitor", visitor)
	profiles := profile.NewStore(s.profiles, s.modal.Modal.ProfileKey+":"+visitor, s.modal.Points,
		profile.WithLogger(logger))

	opts := []session.Option{
		session.WithVisitor(visitor),
		session.WithLogger(logger),
		session.WithRuntime(core.RuntimeConfig{Seed: s.config.Seed, Now: time.Now}),
	}
	if s.store != nil {
		opts = append(opts, session.WithResultLog(s.store))
	}
	ctrl := session.NewController(s.modal, profiles, opts...)
	return session.NewShell(ctrl, profiles, profile.NewMemoryKV(), s.modal.Modal, logger)
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sshSession.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	shell := s.newSessionShell(visitorID(sshSession))
	var stats StatsSource
	if s.store != nil {
		stats = s.store
	}

	return NewModel(shell, stats), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
