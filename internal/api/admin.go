package api

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/campus"
)

func (h *handler) deleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("role"), c.Param("id")); err != nil {
		fail(c, h.log, err, "Error deleting user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *handler) users(c *gin.Context) {
	out, err := h.svc.Users(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Error fetching users")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) adminStats(c *gin.Context) {
	out, err := h.svc.AdminStats(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Error fetching admin stats")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) organizerStats(c *gin.Context) {
	out, err := h.svc.OrganizerStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err, "Error fetching organizer stats")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) studentStats(c *gin.Context) {
	out, err := h.svc.StudentStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err, "Error fetching student stats")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) logs(c *gin.Context) {
	out, err := h.svc.Logs(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Error fetching logs")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) exportStudents(c *gin.Context) {
	rep, err := h.svc.ExportStudentsCSV(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Error exporting students")
		return
	}
	sendCSV(c, rep)
}

func (h *handler) exportParticipants(c *gin.Context) {
	rep, err := h.svc.ExportParticipantsCSV(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		fail(c, h.log, err, "Error exporting participants")
		return
	}
	sendCSV(c, rep)
}

func sendCSV(c *gin.Context, rep *campus.Report) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": rep.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", rep.Data)
}
