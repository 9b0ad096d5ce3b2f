package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/folio-arcade/internal/config"
)

// Toast variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Toast is the notification shown after a submission.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

// OK reports whether the toast announces success.
func (t Toast) OK() bool { return t.Variant != VariantDestructive }

// Toasts shown to the visitor.
var (
	AppointmentSent = Toast{
		Title:       "Appointment Request Sent! ✅",
		Description: "You'll receive a confirmation email shortly. The developer will contact you within 24 hours.",
		Variant:     VariantDefault,
	}
	AppointmentFailed = Toast{
		Title:       "Failed to Send Request ❌",
		Description: "Something went wrong. Please try contacting directly.",
		Variant:     VariantDestructive,
	}
	MessageSent = Toast{
		Title:       "Message Sent ✅",
		Description: "Thanks for reaching out! I'll get back to you soon.",
		Variant:     VariantDefault,
	}
	MessageFailed = Toast{
		Title:       "Failed to send ❌",
		Description: "Something went wrong. Please try again later.",
		Variant:     VariantDestructive,
	}
)

var errNoEndpoint = errors.New("booking: no endpoint configured")

// Relay posts appointments and contact messages. It is safe for concurrent use.
type Relay struct {
	cfg   config.BookingConfig
	hours Hours
	http  *http.Client
	log   *log.Logger
	now   func() time.Time
}

// Option configures a Relay.
type Option func(*Relay)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Relay) { r.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock replaces time.Now for validation.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// NewRelay creates a relay. An unknown time zone falls back to UTC.
func NewRelay(cfg config.BookingConfig, opts ...Option) *Relay {
	r := &Relay{
		cfg:  cfg,
		http: &http.Client{},
		log:  log.New(io.Discard),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		r.log.Warn("unknown booking timezone, using UTC", "timezone", cfg.Timezone, "err", err)
		loc = time.UTC
	}
	r.hours = Hours{Location: loc, StartHour: cfg.StartHour, EndHour: cfg.EndHour}
	return r
}

// Hours returns the business hours appointments are validated against.
func (r *Relay) Hours() Hours { return r.hours }

// Now returns the relay's current time.
func (r *Relay) Now() time.Time { return r.now() }

// Validate checks an appointment without sending it.
func (r *Relay) Validate(a Appointment) error {
	_, _, err := r.hours.Validate(a, r.now())
	return err
}

// SubmitAppointment validates and relays a, reporting the outcome as a toast.
func (r *Relay) SubmitAppointment(ctx context.Context, a Appointment) Toast {
	typ, start, err := r.hours.Validate(a, r.now())
	if err != nil {
		r.log.Info("appointment rejected", "err", err)
		return Toast{Title: AppointmentFailed.Title, Description: "Please fill in all required details.", Variant: VariantDestructive}
	}

	phone := a.Phone
	if phone == "" {
		phone = "Not provided"
	}
	desc := a.Description
	if desc == "" {
		desc = "No additional details provided"
	}
	end := start.Add(typ.Duration)

	fields := [][2]string{
		{"name", a.Name},
		{"email", a.Email},
		{"phone", a.Phone},
		{"company", "Appointment Booking"},
		{"subject", "New Appointment Request - " + typ.Name},
		{"message", fmt.Sprintf(`New appointment request details:

Type: %s
Client: %s
Email: %s
Phone: %s
Date: %s
Time: %s - %s
Duration: %d minutes
Timezone: %s

Project Description:
%s

---
This is an automated message from the appointment booking system.
Please confirm this appointment by contacting the client directly.
`, typ.Name, a.Name, a.Email, phone,
			start.Format("Monday, 2 January 2006"), start.Format(TimeLayout), end.Format(TimeLayout),
			typ.Minutes(), r.hours.loc().String(), desc)},
	}

	if err := r.post(ctx, r.cfg.Endpoint, fields); err != nil {
		r.log.Warn("appointment relay failed", "type", typ.ID, "err", err)
		return AppointmentFailed
	}
	r.log.Info("appointment requested", "type", typ.ID, "start", start)
	return AppointmentSent
}

// SubmitContact validates and relays m, reporting the outcome as a toast.
func (r *Relay) SubmitContact(ctx context.Context, m ContactMessage) Toast {
	if err := m.Validate(); err != nil {
		r.log.Info("contact message rejected", "err", err)
		return Toast{Title: MessageFailed.Title, Description: "Please fill in all required details.", Variant: VariantDestructive}
	}

	subject := m.Subject
	if subject == "" {
		subject = "Portfolio Contact: " + m.Name
	}
	fields := [][2]string{
		{"name", m.Name},
		{"email", m.Email},
		{"subject", subject},
		{"message", m.Message},
	}
	if err := r.post(ctx, r.cfg.ContactEndpoint, fields); err != nil {
		r.log.Warn("contact relay failed", "err", err)
		return MessageFailed
	}
	r.log.Info("contact message sent")
	return MessageSent
}

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// post sends fields as multipart/form-data and expects {"success": true}.
func (r *Relay) post(ctx context.Context, endpoint string, fields [][2]string) error {
	if endpoint == "" {
		return errNoEndpoint
	}
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("booking: cannot encode form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("booking: cannot encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("booking: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking: request failed: %w", err)
	}
	defer resp.Body.Close()

	var out relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("booking: cannot decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "request not accepted"
		}
		return fmt.Errorf("booking: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
