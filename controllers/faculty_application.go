package controllers

import (
	"net/http"
	"strings"

	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

type FacultyApplicationController struct {
	requestHandlers[models.FacultyApplication]
	svc *services.FacultyApplicationService
}

func NewFacultyApplicationController(svc *services.FacultyApplicationService) *FacultyApplicationController {
	return &FacultyApplicationController{requestHandlers: requestHandlers[models.FacultyApplication]{engine: svc}, svc: svc}
}

// POST /api/v1/faculty-applications/apply (public)
func (ctl *FacultyApplicationController) Apply(c *gin.Context) {
	var in services.FacultyApplicationInput
	if !bindJSON(c, &in) {
		return
	}
	app, err := ctl.svc.Apply(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application received",
		"data": gin.H{
			"id":           app.ID,
			"status":       app.Status,
			"submitted_at": app.SubmittedAt,
		},
	})
}

// GET /api/v1/faculty-applications/track/:id?email= (public)
func (ctl *FacultyApplicationController) Track(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email: is required", "code": "VALIDATION_ERROR", "field": "email"})
		return
	}
	app, err := ctl.svc.Track(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"id":             app.ID,
		"position":       app.Position,
		"department":     app.Department,
		"status":         app.Status,
		"submitted_at":   app.SubmittedAt,
		"reviewed_at":    app.ReviewedAt,
		"interview_date": app.InterviewDate,
	}})
}
