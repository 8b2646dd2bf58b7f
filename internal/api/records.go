package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusevents/internal/campus"
	"campusevents/internal/cloudinary"
)

func (h *handler) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if !bind(c, &req) {
		return
	}
	err := h.svc.SubmitFeedback(c.Request.Context(), campus.FeedbackInput{
		StudentID: req.StudentID,
		EventID:   req.EventID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		fail(c, h.log, err, "Error submitting feedback")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully"})
}

func (h *handler) submitContact(c *gin.Context) {
	var req contactRequest
	if !bind(c, &req) {
		return
	}
	err := h.svc.SubmitContact(c.Request.Context(), campus.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		fail(c, h.log, err, "Error sending message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully"})
}

func (h *handler) meta(c *gin.Context) {
	m, err := h.svc.Meta(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Error fetching metadata")
		return
	}
	c.JSON(http.StatusOK, m)
}

const maxPosterBytes = 10 << 20

// uploadPoster accepts a multipart "file" or a JSON {"data": "<data URL>"}
// and returns the hosted image URL.
func (h *handler) uploadPoster(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image storage not configured"})
		return
	}

	var (
		res *cloudinary.UploadResult
		err error
	)
	ctx := c.Request.Context()
	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			badRequest(c, "file field required")
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(io.LimitReader(file, maxPosterBytes+1))
		if ferr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error reading file"})
			return
		}
		if len(data) > maxPosterBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Poster is too large"})
			return
		}
		res, err = h.uploader.UploadBytes(ctx, data, header.Filename)
	} else {
		var req posterRequest
		if !bind(c, &req) {
			return
		}
		res, err = h.uploader.UploadBase64(ctx, req.Data)
	}

	if errors.Is(err, cloudinary.ErrEmptyUpload) {
		badRequest(c, "Poster is empty")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("poster upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Image upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":      res.SecureURL,
		"publicId": res.PublicID,
		"width":    res.Width,
		"height":   res.Height,
		"bytes":    res.Bytes,
	})
}
