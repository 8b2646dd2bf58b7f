package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
)

func (h *handler) signupStudent(c *gin.Context) {
	var req signupRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.SignupStudent(c.Request.Context(), req.input()); err != nil {
		fail(c, h.log, err, "Server error during registration.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Student registered successfully!"})
}

func (h *handler) signupOrganizer(c *gin.Context) {
	var req signupRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.SignupOrganizer(c.Request.Context(), req.input()); err != nil {
		fail(c, h.log, err, "Server error during registration.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Organizer registered successfully!"})
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	id, err := h.svc.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		fail(c, h.log, err, "Server error during login.")
		return
	}
	tok, err := auth.Issue(id.User.ID, id.Role, h.guard.Issuer, h.guard.SigningKey, h.tokenTTL)
	if err != nil {
		h.log.Error().Err(err).Msg("token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"role":      id.Role,
		"user":      id.User,
		"token":     tok.Value,
		"expiresAt": tok.ExpiresAt.Unix(),
	})
}

func (h *handler) findAccount(c *gin.Context) {
	var req findAccountRequest
	if !bind(c, &req) {
		return
	}
	key, question, err := h.svc.FindAccount(c.Request.Context(), req.Role, req.Identifier)
	if err != nil {
		fail(c, h.log, err, "Server error", gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "userId": key, "question": question})
}

func (h *handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bind(c, &req) {
		return
	}
	err := h.svc.ResetPassword(c.Request.Context(), req.Role, req.UserID, req.Answer, req.NewPassword)
	if err != nil {
		fail(c, h.log, err, "Server error", gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}
