package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/folio-arcade/internal/booking"
	"github.com/vovakirdan/folio-arcade/internal/chatbot"
	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	_ "github.com/vovakirdan/folio-arcade/internal/games/memory"
	_ "github.com/vovakirdan/folio-arcade/internal/games/tictactoe"
	_ "github.com/vovakirdan/folio-arcade/internal/games/trivia"
	"github.com/vovakirdan/folio-arcade/internal/session"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

// manualScheduler collects timers and runs them on demand.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (s *manualScheduler) schedule(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	s.pending = append(s.pending, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		was := !t.stopped
		t.stopped = true
		return was
	}
}

func (s *manualScheduler) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// runAll fires timers in delay order, including ones scheduled while running.
func (s *manualScheduler) runAll() {
	for {
		s.mu.Lock()
		var next *manualTimer
		idx := -1
		for i, t := range s.pending {
			if t.stopped {
				continue
			}
			if next == nil || t.delay < next.delay {
				next, idx = t, i
			}
		}
		if next == nil {
			s.pending = nil
			s.mu.Unlock()
			return
		}
		next.stopped = true
		s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
		s.mu.Unlock()

		next.f()
	}
}

type fixture struct {
	t       *testing.T
	srv     *Server
	sched   *manualScheduler
	cfg     config.ModalConfig
	cookies map[string]*http.Cookie
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cfg := config.Default()
	sched := &manualScheduler{}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	base := []Option{
		WithSeed(42),
		WithScheduler(sched.schedule),
		WithClock(func() time.Time { return now }),
		WithLogger(log.New(io.Discard)),
		WithChatbot(chatbot.New(cfg.Chatbot, chatbot.WithSeed(1), chatbot.WithCTA(cfg.Modal.CTAText))),
	}
	srv := NewServer(":0", cfg, append(base, opts...)...)
	t.Cleanup(func() { srv.sessions.stopAll() })

	return &fixture{t: t, srv: srv, sched: sched, cfg: cfg, cookies: map[string]*http.Cookie{}}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(f.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return f.send(req)
}

func (f *fixture) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		f.cookies[c.Name] = c
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (f *fixture) mount() string {
	f.t.Helper()
	w := f.do(http.MethodPost, "/api/modal", nil)
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[mountResponse](f.t, w).ID
}

func (f *fixture) view(id string) session.ShellView {
	f.t.Helper()
	w := f.do(http.MethodGet, "/api/modal/"+id, nil)
	require.Equal(f.t, http.StatusOK, w.Code, w.Body.String())
	return decode[session.ShellView](f.t, w)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGamesCatalogue(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Games []session.GameCard `json:"games"`
	}](t, w)
	require.Len(t, body.Games, 3)
	assert.Equal(t, core.GameTicTacToe, body.Games[0].ID)
	assert.Equal(t, "🎯", body.Games[0].Icon)
}

func TestMountAutoOpensOncePerBrowserSession(t *testing.T) {
	f := newFixture(t)
	id := f.mount()

	require.Contains(t, f.cookies, visitorCookie)
	require.Contains(t, f.cookies, sessionCookie)
	assert.Equal(t, 3, f.sched.live(), "auto-open and trigger timers")
	assert.False(t, f.view(id).Modal.Open)

	f.sched.runAll()
	v := f.view(id)
	assert.True(t, v.Modal.Open)
	assert.False(t, v.Trigger.Visible)
	assert.Equal(t, 1, v.Modal.Profile.VisitCount)

	// a page reload in the same browser session
	second := f.mount()
	assert.Equal(t, 0, f.sched.live())
	v = f.view(second)
	assert.False(t, v.Modal.Open)
	assert.Equal(t, 2, v.Modal.Profile.VisitCount)
}

func TestTriggerButton(t *testing.T) {
	f := newFixture(t)
	id := f.mount()

	w := f.do(http.MethodPost, "/api/modal/"+id+"/trigger/click", nil)
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[session.ShellView](t, w)
	assert.True(t, v.Modal.Open)
	assert.False(t, v.Trigger.Visible)
	assert.Equal(t, session.TriggerTitle, v.Trigger.Title)

	f.sched.runAll()
	assert.False(t, f.view(id).Trigger.Visible)
}

func TestPlayTriviaRecordsResult(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := newFixture(t, WithProfileKV(store), WithResults(store))
	id := f.mount()

	w := f.do(http.MethodPost, "/api/modal/"+id+"/select", obj{"game": core.GameTrivia})
	assert.Equal(t, http.StatusConflict, w.Code, "closed modal")

	f.do(http.MethodPost, "/api/modal/"+id+"/open", nil)
	w = f.do(http.MethodPost, "/api/modal/"+id+"/select", obj{"game": core.GameTrivia})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, session.Screen(core.GameTrivia), decode[session.ShellView](t, w).Modal.Screen)

	for _, q := range f.cfg.Trivia.Questions {
		w = f.do(http.MethodPost, "/api/modal/"+id+"/input", obj{"index": q.Answer})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[session.ShellView](t, w).Modal.State.Busy)
		f.sched.runAll()
	}

	v := f.view(id)
	assert.Equal(t, core.OutcomeWin, v.Modal.Result)
	assert.Equal(t, f.cfg.Messages.FirstWin, v.Modal.ResultMessage)
	assert.Equal(t, f.cfg.Modal.CTAText, v.Modal.CTA)

	w = f.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[profileResponse](t, w)
	assert.Equal(t, 20, p.Profile.TotalScore)
	assert.Equal(t, []core.GameID{core.GameTrivia}, p.Profile.GamesPlayed)

	w = f.do(http.MethodGet, "/api/results?mine=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decode[struct {
		Results []storage.ResultRecord `json:"results"`
	}](t, w).Results
	require.Len(t, results, 1)
	assert.Equal(t, core.GameTrivia, results[0].GameID)
	assert.Equal(t, 20, results[0].Points)

	w = f.do(http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		Stats []statsResponse `json:"stats"`
	}](t, w).Stats
	require.Len(t, stats, 3)
	assert.Equal(t, core.GameTrivia, stats[1].GameID)
	assert.Equal(t, 1, stats[1].Wins)
	assert.InDelta(t, 1.0, stats[1].WinRate, 1e-9)
	assert.Equal(t, 0, stats[0].Rounds)

	w = f.do(http.MethodPost, "/api/modal/"+id+"/cta", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cta := decode[ctaResponse](t, w)
	assert.Equal(t, "contact", cta.Section)
	assert.False(t, cta.Modal.Open)
}

// obj is a JSON object literal.
type obj = map[string]any

func TestSelectErrors(t *testing.T) {
	f := newFixture(t)
	id := f.mount()
	f.do(http.MethodPost, "/api/modal/"+id+"/open", nil)

	w := f.do(http.MethodPost, "/api/modal/"+id+"/select", obj{"game": "chess"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/modal/"+id+"/select", obj{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/modal/"+id+"/input", obj{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/modal/nope/open", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBackCancelsPendingStep(t *testing.T) {
	f := newFixture(t)
	id := f.mount()
	f.do(http.MethodPost, "/api/modal/"+id+"/open", nil)
	f.do(http.MethodPost, "/api/modal/"+id+"/select", obj{"game": core.GameTicTacToe})

	w := f.do(http.MethodPost, "/api/modal/"+id+"/input", obj{"index": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[session.ShellView](t, w).Modal.State.Busy)

	w = f.do(http.MethodPost, "/api/modal/"+id+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	f.sched.runAll()

	v := f.view(id)
	assert.Equal(t, session.ScreenSelection, v.Modal.Screen)
	assert.Nil(t, v.Modal.State)
	assert.Equal(t, 0, v.Modal.Profile.TotalScore)
}

func TestUnmountStopsTimers(t *testing.T) {
	f := newFixture(t)
	id := f.mount()
	require.Equal(t, 3, f.sched.live())

	w := f.do(http.MethodDelete, "/api/modal/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.sched.live())
	assert.Equal(t, 0, f.srv.sessions.len())

	w = f.do(http.MethodGet, "/api/modal/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSweepDropsIdleSessions(t *testing.T) {
	f := newFixture(t)
	f.mount()
	require.Equal(t, 1, f.srv.sessions.len())

	n := f.srv.sessions.sweep(time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC), sessionIdle)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, f.srv.sessions.len())
	assert.Equal(t, 0, f.sched.live())
}

func TestSweepDropsStaleSessionFlags(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return now }))

	for range 5 {
		clear(f.cookies)
		f.mount()
	}
	f.sched.runAll()
	require.Equal(t, 5, f.srv.flags.len())

	now = now.Add(time.Hour)
	clear(f.cookies)
	f.mount()

	assert.Equal(t, 1, f.srv.sessions.len())
	assert.Equal(t, 0, f.srv.flags.len())
}

func TestSessionFlagsKeepRecentlyUsed(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	flags := newSessionFlags(func() time.Time { return now })
	require.NoError(t, flags.Set("old", "true"))
	require.NoError(t, flags.Set("fresh", "true"))

	now = now.Add(20 * time.Minute)
	_, ok, _ := flags.Get("fresh")
	require.True(t, ok)

	assert.Equal(t, 1, flags.sweep(now.Add(15*time.Minute), sessionIdle))
	_, ok, _ = flags.Get("fresh")
	assert.True(t, ok)
	_, ok, _ = flags.Get("old")
	assert.False(t, ok)
}

func TestResetProfile(t *testing.T) {
	f := newFixture(t)
	f.mount()

	w := f.do(http.MethodDelete, "/api/profile", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	p := decode[profileResponse](t, f.do(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, 0, p.Profile.VisitCount)
	assert.Equal(t, core.GameTicTacToe, p.RecommendedGame)
}

func TestResultsDisabledWithoutStore(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/api/results", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/api/stats", nil).Code)
}

func TestChat(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/chat", obj{"message": "thanks!"})
	require.Equal(t, http.StatusOK, w.Code)
	r := decode[chatbot.Reply](t, w)
	assert.Equal(t, chatbot.SourceKeyword, r.Source)
	assert.Contains(t, r.Text, "You're very welcome!")

	w = f.do(http.MethodPost, "/api/chat", obj{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/chat/quick-replies", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tell me about web development")
}

func relayFixture(t *testing.T, success bool) *fixture {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": success})
	}))
	t.Cleanup(upstream.Close)

	relay := booking.NewRelay(config.BookingConfig{
		Endpoint:        upstream.URL,
		ContactEndpoint: upstream.URL,
		Timeout:         time.Second,
		Timezone:        "UTC",
		StartHour:       9,
		EndHour:         18,
	}, booking.WithHTTPClient(upstream.Client()), booking.WithClock(func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	}))
	return newFixture(t, WithRelay(relay))
}

func TestAppointments(t *testing.T) {
	f := relayFixture(t, true)

	w := f.do(http.MethodGet, "/api/appointments/types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"minutes":45`)

	w = f.do(http.MethodGet, "/api/appointments/slots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"2026-03-03"`)
	assert.NotContains(t, w.Body.String(), `"2026-03-07"`)

	w = f.do(http.MethodGet, "/api/appointments/slots?date=2026-03-03&type=project-discussion", nil)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode[struct {
		Slots []booking.Slot `json:"slots"`
	}](t, w).Slots
	assert.Len(t, slots, 17)

	w = f.do(http.MethodGet, "/api/appointments/slots?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a := booking.Appointment{Name: "Ada", Email: "ada@example.com", Type: "consultation", Date: "2026-03-03", Time: "10:00"}
	w = f.do(http.MethodPost, "/api/appointments", a)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, booking.AppointmentSent, decode[toastResponse](t, w).Toast)

	a.Email = "not-an-email"
	w = f.do(http.MethodPost, "/api/appointments", a)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[toastResponse](t, w)
	assert.Contains(t, resp.Error, "email")
	assert.Equal(t, booking.VariantDestructive, resp.Toast.Variant)
}

func TestContactForm(t *testing.T) {
	f := relayFixture(t, true)

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Let's talk"}}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.send(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, booking.MessageSent, decode[toastResponse](t, w).Toast)

	w = f.do(http.MethodPost, "/api/contact", obj{"name": "Ada", "email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelayFailureIsBadGateway(t *testing.T) {
	f := relayFixture(t, false)

	w := f.do(http.MethodPost, "/api/contact", obj{"name": "Ada", "email": "ada@example.com", "message": "hi"})
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, booking.MessageFailed, decode[toastResponse](t, w).Toast)
}
