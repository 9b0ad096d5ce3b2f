package session

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/pacing"
	"github.com/vovakirdan/folio-arcade/internal/profile"
)

// Shell timer kinds.
const (
	KindAutoOpen    pacing.Kind = "auto-open"
	KindTriggerShow pacing.Kind = "trigger-show"
	KindTriggerHide pacing.Kind = "trigger-hide"
)

// Trigger button text.
const (
	TriggerTitle    = "Play & Win!"
	TriggerSubtitle = "Get discounts 🎁"
)

// Shell is the modal's lifecycle around a Controller: the one-time
// auto-open, the floating trigger button and the session-scoped "already
// shown" flag. Like Controller it is not safe for concurrent use.
type Shell struct {
	ctrl     *Controller
	profiles *profile.Store
	flags    profile.KV
	cfg      config.ModalSection
	log      *log.Logger

	queue      pacing.Queue
	mounted    bool
	trigger    bool
	interacted bool
}

// ShellView is the shell's JSON-friendly snapshot.
type ShellView struct {
	Modal   View        `json:"modal"`
	Trigger TriggerView `json:"trigger"`
}

// TriggerView describes the floating trigger button.
type TriggerView struct {
	Visible  bool   `json:"visible"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// NewShell wraps ctrl. flags holds the session-scoped "shown" flag and lives
// as long as the browsing session: the process, the SSH connection or the
// HTTP modal session.
func NewShell(ctrl *Controller, profiles *profile.Store, flags profile.KV, cfg config.ModalSection, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.SessionFlagKey == "" {
		cfg.SessionFlagKey = "gameModalShown"
	}
	return &Shell{
		ctrl:     ctrl,
		profiles: profiles,
		flags:    flags,
		cfg:      cfg,
		log:      logger,
	}
}

// Controller returns the wrapped controller.
func (s *Shell) Controller() *Controller { return s.ctrl }

// Mount records a page visit and, unless the modal was already shown in
// this browsing session, schedules the auto-open and the trigger button.
// Mounting twice is a no-op.
func (s *Shell) Mount() []pacing.Deferred {
	if s.mounted {
		return nil
	}
	s.mounted = true

	p, err := s.profiles.RecordVisit()
	if err != nil {
		s.log.Warn("cannot record visit", "err", err)
	}
	s.log.Debug("mounted", "visits", p.VisitCount)

	if s.shown() {
		return nil
	}
	return []pacing.Deferred{
		s.queue.Schedule(KindAutoOpen, s.cfg.AutoOpenDelay),
		s.queue.Schedule(KindTriggerShow, s.cfg.TriggerShowAfter),
		s.queue.Schedule(KindTriggerHide, s.cfg.TriggerHideAfter),
	}
}

// Unmount cancels every timer and closes the modal.
func (s *Shell) Unmount() {
	s.queue.Cancel()
	s.ctrl.Close()
	s.trigger = false
	s.mounted = false
}

// Fire runs a deferred step issued by the shell or its controller.
func (s *Shell) Fire(tok pacing.Token) []pacing.Deferred {
	switch tok.Kind {
	case KindAutoOpen, KindTriggerShow, KindTriggerHide:
	default:
		return s.ctrl.Fire(tok)
	}
	if !s.queue.Claim(tok) {
		return nil
	}

	switch tok.Kind {
	case KindAutoOpen:
		if !s.shown() && !s.ctrl.IsOpen() {
			s.log.Debug("auto-open")
			s.Open()
		}
	case KindTriggerShow:
		if !s.shown() && !s.interacted {
			s.trigger = true
		}
	case KindTriggerHide:
		s.trigger = false
	}
	return nil
}

// Open shows the modal and marks it as shown for this browsing session.
func (s *Shell) Open() {
	s.markShown()
	if !s.ctrl.IsOpen() {
		s.ctrl.Open()
	}
}

// Close dismisses the modal, discarding any round in progress.
func (s *Shell) Close() {
	s.markShown()
	s.ctrl.Close()
}

// ClickTrigger opens the modal from the floating button.
func (s *Shell) ClickTrigger() {
	s.interacted = true
	s.trigger = false
	s.Open()
}

// DismissTrigger hides the floating button for the rest of the session.
func (s *Shell) DismissTrigger() {
	s.interacted = true
	s.trigger = false
	s.markShown()
}

// CallToAction closes the modal and returns the section to scroll to.
func (s *Shell) CallToAction() string {
	s.markShown()
	return s.ctrl.CallToAction()
}

// TriggerVisible reports whether the floating button is shown.
func (s *Shell) TriggerVisible() bool { return s.trigger }

// View returns the shell snapshot.
func (s *Shell) View() ShellView {
	return ShellView{
		Modal: s.ctrl.View(),
		Trigger: TriggerView{
			Visible:  s.trigger,
			Title:    TriggerTitle,
			Subtitle: TriggerSubtitle,
		},
	}
}

func (s *Shell) shown() bool {
	v, ok, err := s.flags.Get(s.cfg.SessionFlagKey)
	if err != nil {
		s.log.Warn("cannot read session flag", "err", err)
		return false
	}
	return ok && v == "true"
}

func (s *Shell) markShown() {
	if err := s.flags.Set(s.cfg.SessionFlagKey, "true"); err != nil {
		s.log.Warn("cannot write session flag", "err", err)
	}
}
