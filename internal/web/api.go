package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/folio-arcade/internal/booking"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

type profileResponse struct {
	Profile         profile.Profile `json:"profile"`
	Greeting        string          `json:"greeting"`
	Message         string          `json:"message"`
	Recommendation  string          `json:"recommendation"`
	RecommendedGame core.GameID     `json:"recommendedGame"`
}

func (s *Server) handleProfile(c *gin.Context) {
	p := s.profileStore(s.visitorID(c)).Load()
	c.JSON(http.StatusOK, profileResponse{
		Profile:         p,
		Greeting:        profile.Greeting(s.now()),
		Message:         profile.PersonalizedMessage(p),
		Recommendation:  profile.Recommendation(p),
		RecommendedGame: profile.RecommendedGame(p),
	})
}

func (s *Server) handleResetProfile(c *gin.Context) {
	if err := s.profileStore(s.visitorID(c)).Reset(); err != nil {
		s.log.Error("cannot reset profile", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot reset profile"})
		return
	}
	c.Status(http.StatusNoContent)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	c.JSON(http.StatusOK, s.bot.Reply(c.Request.Context(), req.Message))
}

type appointmentTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Minutes     int    `json:"minutes"`
	Description string `json:"description"`
}

func (s *Server) handleAppointmentTypes(c *gin.Context) {
	types := make([]appointmentTypeResponse, 0, len(booking.AppointmentTypes))
	for _, t := range booking.AppointmentTypes {
		types = append(types, appointmentTypeResponse{
			ID:          t.ID,
			Name:        t.Name,
			Minutes:     t.Minutes(),
			Description: t.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// handleSlots lists the bookable dates, or the slots of one date when the
// date query parameter is set.
func (s *Server) handleSlots(c *gin.Context) {
	hours := s.relay.Hours()
	loc := hours.Location
	if loc == nil {
		loc = time.UTC
	}

	date := c.Query("date")
	if date == "" {
		dates := hours.AvailableDates(s.relay.Now())
		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format(booking.DateLayout))
		}
		c.JSON(http.StatusOK, gin.H{"dates": out})
		return
	}

	day, err := time.ParseInLocation(booking.DateLayout, date, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": booking.ErrInvalidDate.Error()})
		return
	}
	typ, ok := booking.LookupType(c.DefaultQuery("type", "consultation"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": booking.ErrUnknownType.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": typ.ID, "slots": hours.Slots(day, typ.Duration)})
}

type toastResponse struct {
	Error string        `json:"error,omitempty"`
	Toast booking.Toast `json:"toast"`
}

func toastStatus(t booking.Toast) int {
	if t.OK() {
		return http.StatusOK
	}
	return http.StatusBadGateway
}

func (s *Server) handleAppointment(c *gin.Context) {
	var a booking.Appointment
	if err := c.ShouldBind(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.relay.Validate(a); err != nil {
		c.JSON(http.StatusBadRequest, toastResponse{
			Error: err.Error(),
			Toast: booking.Toast{
				Title:       booking.AppointmentFailed.Title,
				Description: "Please fill in all required details.",
				Variant:     booking.VariantDestructive,
			},
		})
		return
	}
	t := s.relay.SubmitAppointment(c.Request.Context(), a)
	c.JSON(toastStatus(t), toastResponse{Toast: t})
}

func (s *Server) handleContact(c *gin.Context) {
	var m booking.ContactMessage
	if err := c.ShouldBind(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := m.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, toastResponse{
			Error: err.Error(),
			Toast: booking.Toast{
				Title:       booking.MessageFailed.Title,
				Description: "Please fill in all required details.",
				Variant:     booking.VariantDestructive,
			},
		})
		return
	}
	t := s.relay.SubmitContact(c.Request.Context(), m)
	c.JSON(toastStatus(t), toastResponse{Toast: t})
}

const defaultResultLimit = 20

func (s *Server) requireResults(c *gin.Context) bool {
	if s.results == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "results log is not enabled"})
		return false
	}
	return true
}

// handleResults lists recent rounds, optionally for one game or only the
// caller's own rounds (mine=true).
func (s *Server) handleResults(c *gin.Context) {
	if !s.requireResults(c) {
		return
	}

	limit := defaultResultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, 100)
	}

	gameID := core.GameID(c.Query("game"))
	if gameID != "" && !gameID.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game"})
		return
	}

	var (
		results []storage.ResultRecord
		err     error
	)
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		results, err = s.results.VisitorResults(s.visitorID(c), limit)
	} else {
		results, err = s.results.RecentResults(gameID, limit)
	}
	if err != nil {
		s.log.Error("cannot load results", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load results"})
		return
	}
	if results == nil {
		results = []storage.ResultRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type statsResponse struct {
	*storage.GameStats
	WinRate float64 `json:"winRate"`
}

func (s *Server) handleStats(c *gin.Context) {
	if !s.requireResults(c) {
		return
	}
	all, err := s.results.GetAllGamesStats()
	if err != nil {
		s.log.Error("cannot load stats", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load stats"})
		return
	}

	out := make([]statsResponse, 0, len(core.AllGames))
	for _, id := range core.AllGames {
		st, ok := all[id]
		if !ok {
			st = &storage.GameStats{GameID: id}
		}
		out = append(out, statsResponse{GameStats: st, WinRate: st.WinRate()})
	}
	c.JSON(http.StatusOK, gin.H{"stats": out})
}
