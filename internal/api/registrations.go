package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/campus"
)

func claimsOf(c *gin.Context) (auth.Claims, bool) {
	return auth.FromContext(c)
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	if claims, ok := claimsOf(c); ok && h.guard.Enforce && claims.Role == campus.RoleStudent && claims.Subject != req.StudentID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Students can only register themselves"})
		return
	}
	id, err := h.svc.Register(c.Request.Context(), campus.RegisterInput{
		StudentID:   req.StudentID,
		EventID:     req.EventID,
		Type:        req.Type,
		TeamName:    req.TeamName,
		TeamMembers: req.TeamMembers,
		PaymentID:   req.PaymentID,
	})
	if err != nil {
		fail(c, h.log, err, "Error registering for event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully registered for event!", "registrationId": id})
}

func (h *handler) studentEvents(c *gin.Context) {
	evs, err := h.svc.StudentEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err, "Error fetching registered events")
		return
	}
	c.JSON(http.StatusOK, evs)
}

func (h *handler) participants(c *gin.Context) {
	ps, err := h.svc.Participants(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err, "Error fetching participants")
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *handler) setParticipantStatus(c *gin.Context) {
	var req participantStatusRequest
	if !bind(c, &req) {
		return
	}
	reg, err := h.svc.SetParticipantStatus(c.Request.Context(), c.Param("regId"), req.Status)
	if err != nil {
		fail(c, h.log, err, "Error updating status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "registration": reg})
}

func (h *handler) ticket(c *gin.Context) {
	png, err := h.svc.Ticket(c.Request.Context(), c.Param("regId"))
	if err != nil {
		fail(c, h.log, err, "Error generating ticket")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
