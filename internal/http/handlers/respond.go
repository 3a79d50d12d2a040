package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskquest/internal/logger"
	"taskquest/internal/service"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// respondError maps service errors to HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	msg := "internal error"

	switch {
	case errors.Is(err, service.ErrValidation):
		status, code, msg = http.StatusBadRequest, "validation", err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, service.ErrAlreadyCompleted):
		status, code, msg = http.StatusBadRequest, "already_completed", err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status, code, msg = http.StatusUnauthorized, "unauthorized", err.Error()
	case errors.Is(err, service.ErrConflictDuplicate):
		status, code, msg = http.StatusConflict, "duplicate", err.Error()
	case errors.Is(err, service.ErrJobInProgress):
		status, code, msg = http.StatusConflict, "job_in_progress", err.Error()
	default:
		logger.WithContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	c.JSON(status, gin.H{"success": false, "error": msg, "code": code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg, "code": "validation"})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized", "code": "unauthorized"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid task id")
		return 0, false
	}
	return id, true
}

// flexBool accepts checkbox values ("on"), "true"/"1" and JSON booleans.
type flexBool bool

func parseFlexBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes", "y":
		return true
	}
	return false
}

// UnmarshalParam implements binding.BindUnmarshaler for form values.
func (b *flexBool) UnmarshalParam(param string) error {
	*b = flexBool(parseFlexBool(param))
	return nil
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	*b = flexBool(parseFlexBool(strings.Trim(string(data), `"`)))
	return nil
}
