package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shanky3008/dietint-platform-sub001/internal/booking"
)

type createBookingRequest struct {
	ConsultationID string    `json:"consultationId"`
	ClientID       string    `json:"clientId" binding:"required"`
	CoachID        string    `json:"coachId" binding:"required"`
	ScheduledAt    time.Time `json:"scheduledAt"`
}

// CreateConsultation books a consultation slot. The relay picks the
// participant pair up from here when the first connection joins the room.
func (h *Handler) CreateConsultation(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ScheduledAt.IsZero() {
		req.ScheduledAt = time.Now()
	}

	b := &booking.Booking{
		ID:          req.ConsultationID,
		ClientID:    req.ClientID,
		CoachID:     req.CoachID,
		ScheduledAt: req.ScheduledAt,
	}
	if err := h.Bookings.Create(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create consultation"})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetConsultation returns one booking, plus the live relay state for the
// consultation when the room has been opened.
func (h *Handler) GetConsultation(c *gin.Context) {
	id := c.Param("id")

	b, err := h.Bookings.Get(id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	resp := gin.H{"booking": b}
	if live, ok := h.Hub.Store().Get(id); ok {
		resp["live"] = live
	}
	c.JSON(http.StatusOK, resp)
}

// ListConsultations returns all bookings.
func (h *Handler) ListConsultations(c *gin.Context) {
	bookings, err := h.Bookings.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
