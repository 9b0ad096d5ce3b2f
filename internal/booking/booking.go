// Package booking relays appointment requests and contact messages to an
// external mail endpoint and reports the outcome as a toast.
package booking

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// AppointmentType is one bookable meeting kind.
type AppointmentType struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Duration    time.Duration `json:"duration"`
	Description string        `json:"description"`
}

// Minutes returns the duration in whole minutes.
func (t AppointmentType) Minutes() int {
	return int(t.Duration / time.Minute)
}

// AppointmentTypes lists the bookable meeting kinds in display order.
var AppointmentTypes = []AppointmentType{
	{ID: "consultation", Name: "Free Consultation", Duration: 30 * time.Minute,
		Description: "Initial project discussion and requirements gathering"},
	{ID: "project-discussion", Name: "Project Discussion", Duration: 60 * time.Minute,
		Description: "Detailed project planning and technical discussion"},
	{ID: "technical-review", Name: "Technical Review", Duration: 45 * time.Minute,
		Description: "Code review or technical architecture discussion"},
}

// LookupType finds an appointment type by ID.
func LookupType(id string) (AppointmentType, bool) {
	for _, t := range AppointmentTypes {
		if t.ID == id {
			return t, true
		}
	}
	return AppointmentType{}, false
}

// Date and time layouts accepted in Appointment.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment is a visitor's booking request. Date and Time are wall-clock
// values in the relay's business time zone.
type Appointment struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Type        string `json:"type" form:"type"`
	Date        string `json:"date" form:"date"`
	Time        string `json:"time" form:"time"`
	Description string `json:"description" form:"description"`
}

// ContactMessage is a message from the contact section.
type ContactMessage struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Validation errors.
var (
	ErrMissingName    = errors.New("booking: name is required")
	ErrMissingEmail   = errors.New("booking: email is required")
	ErrInvalidEmail   = errors.New("booking: email address is not valid")
	ErrMissingMessage = errors.New("booking: message is required")
	ErrUnknownType    = errors.New("booking: unknown appointment type")
	ErrInvalidDate    = errors.New("booking: date must look like 2006-01-02")
	ErrInvalidTime    = errors.New("booking: time must look like 15:04")
	ErrPastDate       = errors.New("booking: appointment must be in the future")
	ErrClosedDay      = errors.New("booking: appointments are only available on weekdays")
	ErrOutsideHours   = errors.New("booking: appointment falls outside business hours")
	ErrTooFarAhead    = errors.New("booking: appointment date is too far ahead")
	ErrSlotTaken      = errors.New("booking: time slot is not available")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateSender(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// Validate checks the sender fields of a contact message.
func (m ContactMessage) Validate() error {
	if err := validateSender(m.Name, m.Email); err != nil {
		return err
	}
	if strings.TrimSpace(m.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}

// Hours describes when appointments can be booked.
type Hours struct {
	Location  *time.Location
	StartHour int
	EndHour   int
}

func (h Hours) loc() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}

// Slot is one candidate meeting time.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// Workday reports whether appointments are offered on day.
func Workday(day time.Time) bool {
	wd := day.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Slots lists half-hourly start times on day for an appointment of length d.
// Slots must end by EndHour; the lunch hours 12:00-14:00 are unavailable.
func (h Hours) Slots(day time.Time, d time.Duration) []Slot {
	if !Workday(day) {
		return nil
	}
	loc := h.loc()
	y, m, dd := day.In(loc).Date()
	closing := time.Date(y, m, dd, h.EndHour, 0, 0, 0, loc)

	var slots []Slot
	for hour := h.StartHour; hour < h.EndHour; hour++ {
		for minute := 0; minute < 60; minute += 30 {
			start := time.Date(y, m, dd, hour, minute, 0, 0, loc)
			end := start.Add(d)
			if end.After(closing) {
				continue
			}
			slots = append(slots, Slot{
				Start:     start,
				End:       end,
				Available: hour != 12 && hour != 13,
			})
		}
	}
	return slots
}

// DaysAhead is how far into the future appointments can be booked.
const DaysAhead = 30

// AvailableDates returns the working days from tomorrow up to DaysAhead days
// after now.
func (h Hours) AvailableDates(now time.Time) []time.Time {
	loc := h.loc()
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	var dates []time.Time
	for i := 1; i <= DaysAhead; i++ {
		day := today.AddDate(0, 0, i)
		if Workday(day) {
			dates = append(dates, day)
		}
	}
	return dates
}

// Validate checks a, returning its type and start time in h's time zone.
func (h Hours) Validate(a Appointment, now time.Time) (AppointmentType, time.Time, error) {
	if err := validateSender(a.Name, a.Email); err != nil {
		return AppointmentType{}, time.Time{}, err
	}
	typ, ok := LookupType(a.Type)
	if !ok {
		return AppointmentType{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownType, a.Type)
	}

	loc := h.loc()
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(a.Date), loc)
	if err != nil {
		return typ, time.Time{}, ErrInvalidDate
	}
	clock, err := time.Parse(TimeLayout, strings.TrimSpace(a.Time))
	if err != nil {
		return typ, time.Time{}, ErrInvalidTime
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)

	if !start.After(now) {
		return typ, start, ErrPastDate
	}
	if !Workday(start) {
		return typ, start, ErrClosedDay
	}
	y, m, d := now.In(loc).Date()
	if day.After(time.Date(y, m, d+DaysAhead, 0, 0, 0, 0, loc)) {
		return typ, start, ErrTooFarAhead
	}
	closing := time.Date(day.Year(), day.Month(), day.Day(), h.EndHour, 0, 0, 0, loc)
	if start.Hour() < h.StartHour || start.Add(typ.Duration).After(closing) {
		return typ, start, ErrOutsideHours
	}
	for _, s := range h.Slots(day, typ.Duration) {
		if s.Start.Equal(start) {
			if !s.Available {
				return typ, start, ErrSlotTaken
			}
			return typ, start, nil
		}
	}
	return typ, start, ErrSlotTaken
}
