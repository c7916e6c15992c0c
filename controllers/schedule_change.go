package controllers

import (
	"net/http"

	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

type ScheduleChangeController struct {
	requestHandlers[models.ScheduleChangeRequest]
	svc *services.ScheduleChangeService
}

func NewScheduleChangeController(svc *services.ScheduleChangeService) *ScheduleChangeController {
	return &ScheduleChangeController{requestHandlers: requestHandlers[models.ScheduleChangeRequest]{engine: svc}, svc: svc}
}

// POST /api/v1/schedule-changes/apply
func (ctl *ScheduleChangeController) Apply(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var in services.ScheduleChangeInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := ctl.svc.Apply(c.Request.Context(), viewer, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Schedule change request submitted", "data": req})
}

// PUT /api/v1/schedule-changes/:id
func (ctl *ScheduleChangeController) Update(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var in services.ScheduleChangeInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := ctl.svc.Update(c.Request.Context(), viewer, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": req})
}
