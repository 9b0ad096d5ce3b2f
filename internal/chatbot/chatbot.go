// Package chatbot answers visitor questions about the developer's services.
// A reply is produced by the first tier that can answer: the generative
// language API, the keyword table, then a random canned response. Reply never
// fails; network problems only move the answer down a tier.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/folio-arcade/internal/config"
)

// Source names the tier that produced a reply.
type Source string

const (
	SourceAI       Source = "ai"
	SourceKeyword  Source = "keyword"
	SourceFallback Source = "fallback"
)

// DefaultCTA is the contact button label quoted in the contact hint.
const DefaultCTA = "Get In Touch"

// Reply is one bot answer. Hints are follow-up bot lines pointing the
// visitor at the contact section or the scheduling form.
type Reply struct {
	Text   string   `json:"text"`
	Source Source   `json:"source"`
	Hints  []string `json:"hints,omitempty"`
}

var (
	errNoKey      = errors.New("chatbot: no api key")
	errNoResponse = errors.New("chatbot: empty response")
)

// Client produces replies. It is safe for concurrent use.
type Client struct {
	cfg  config.ChatbotConfig
	http *http.Client
	log  *log.Logger
	cta  string

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for the API tier.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. API failures are logged at warn level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSeed makes the randomly picked replies reproducible.
func WithSeed(seed int64) Option {
	return func(c *Client) { c.rnd = rand.New(rand.NewSource(seed)) }
}

// WithCTA sets the contact button label used in the contact hint.
func WithCTA(text string) Option {
	return func(c *Client) {
		if text != "" {
			c.cta = text
		}
	}
}

// New creates a Client from the chatbot configuration.
func New(cfg config.ChatbotConfig, opts ...Option) *Client {
	c := &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  log.New(io.Discard),
		cta:  DefaultCTA,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply answers msg. A blank message yields the zero Reply.
func (c *Client) Reply(ctx context.Context, msg string) Reply {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return Reply{}
	}

	r := c.answer(ctx, msg)
	r.Hints = c.hints(msg)
	return r
}

func (c *Client) answer(ctx context.Context, msg string) Reply {
	text, err := c.generate(ctx, msg)
	if err == nil {
		return Reply{Text: text, Source: SourceAI}
	}
	if !errors.Is(err, errNoKey) {
		c.log.Warn("generative reply failed, using fallback", "err", err)
	}

	if text, ok := c.keywordReply(msg); ok {
		return Reply{Text: text, Source: SourceKeyword}
	}
	return Reply{Text: c.pick(c.fallbacks()), Source: SourceFallback}
}

func (c *Client) fallbacks() []string {
	if len(c.cfg.FallbackResponses) > 0 {
		return c.cfg.FallbackResponses
	}
	return defaultFallbacks
}

func (c *Client) pick(options []string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return options[c.rnd.Intn(len(options))]
}

// Prompt wraps the visitor's message in the persona prompt.
func Prompt(system, msg string) string {
	return system + "\n\nUser message: " + msg +
		"\n\nPlease provide a helpful and engaging response about our software development services and capabilities. Keep it concise but informative."
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate makes at most one generateContent call bounded by cfg.Timeout.
func (c *Client) generate(ctx context.Context, msg string) (string, error) {
	if c.cfg.APIKey == "" || c.cfg.Endpoint == "" {
		return "", errNoKey
	}
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: Prompt(c.cfg.SystemPrompt, msg)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("chatbot: cannot encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.Endpoint, "/") + "/models/" + url.PathEscape(c.cfg.Model) +
		":generateContent?key=" + url.QueryEscape(c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chatbot: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatbot: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chatbot: unexpected status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("chatbot: cannot decode response: %w", err)
	}

	if len(out.Candidates) == 0 {
		return "", errNoResponse
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errNoResponse
	}
	return text, nil
}

var (
	contactKeywords  = []string{"contact", "hire", "work", "collaborate", "project", "service", "quote", "estimate"}
	scheduleKeywords = []string{"schedule", "appointment", "meeting", "book", "calendar"}
)

func (c *Client) hints(msg string) []string {
	lower := strings.ToLower(msg)
	var hints []string
	if containsAny(lower, contactKeywords...) {
		hints = append(hints, fmt.Sprintf(
			"I'd be happy to help you get in touch with the developer! You can scroll down to the contact section or click the %q button.", c.cta))
	}
	if containsAny(lower, scheduleKeywords...) {
		hints = append(hints,
			"Great! I can help you schedule an appointment. Click the 'Schedule Appointment' button below to check availability and book a meeting.")
	}
	return hints
}
