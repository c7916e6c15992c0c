package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"faculty-management-api/config"
	"faculty-management-api/middleware"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch services.ErrorCode(err) {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "INVALID_TRANSITION":
		return http.StatusUnprocessableEntity
	case "FORBIDDEN":
		return http.StatusForbidden
	case "CONFLICT":
		return http.StatusConflict
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	code := services.ErrorCode(err)
	if status == http.StatusInternalServerError {
		config.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"success": false, "error": "Internal server error", "code": code})
		return
	}

	body := gin.H{"success": false, "error": err.Error(), "code": code}
	var ve *services.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		body["field"] = ve.Field
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the body; binding failures become validation errors.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, services.AsValidationError(err))
		return false
	}
	return true
}

func viewerOrAbort(c *gin.Context) (services.Viewer, bool) {
	viewer, ok := middleware.CurrentViewer(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": "UNAUTHORIZED"})
	}
	return viewer, ok
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name, "code": "VALIDATION_ERROR"})
		return 0, false
	}
	return uint(id), true
}

// page reads limit/offset query parameters with the same clamp the stores use.
func page(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func respondList(c *gin.Context, data interface{}, total int64, limit, offset int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
