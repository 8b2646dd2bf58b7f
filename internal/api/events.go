package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) listEvents(c *gin.Context) {
	evs, err := h.svc.ListEvents(c.Request.Context(), c.Query("approved") == "true")
	if err != nil {
		fail(c, h.log, err, "Error fetching events")
		return
	}
	c.JSON(http.StatusOK, evs)
}

func (h *handler) listAllEvents(c *gin.Context) {
	evs, err := h.svc.ListAllEvents(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Error fetching all events")
		return
	}
	c.JSON(http.StatusOK, evs)
}

func (h *handler) createEvent(c *gin.Context) {
	var req createEventRequest
	if !bind(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if claims, ok := claimsOf(c); ok && in.OrganizerID == "" {
		in.OrganizerID = claims.Subject
	}
	e, err := h.svc.CreateEvent(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err, "Error creating event")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event created and sent for approval", "event": e})
}

func (h *handler) updateEvent(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	patch, err := req.patch()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	e, err := h.svc.UpdateEvent(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, h.log, err, "Error updating event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully", "event": e})
}

func (h *handler) setEventStatus(c *gin.Context) {
	var req eventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	e, err := h.svc.SetEventStatus(c.Request.Context(), c.Param("id"), req.IsApproved, req.Status)
	if err != nil {
		fail(c, h.log, err, "Error updating event status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event status updated", "event": e})
}

func (h *handler) deleteEvent(c *gin.Context) {
	if err := h.svc.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.log, err, "Error deleting event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
