package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"campusevents/internal/campus"
)

func statusOf(err error) int {
	switch campus.KindOf(err) {
	case campus.KindValidation:
		return http.StatusBadRequest
	case campus.KindNotFound:
		return http.StatusNotFound
	case campus.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as {"message": ...}. Internal errors are logged with their
// cause and answered with the domain message or fallback.
func fail(c *gin.Context, log zerolog.Logger, err error, fallback string, extra ...gin.H) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		_ = c.Error(err)
	}
	body := gin.H{"message": campus.MessageOf(err, fallback)}
	for _, h := range extra {
		for k, v := range h {
			body[k] = v
		}
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
