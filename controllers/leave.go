package controllers

import (
	"net/http"

	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

type LeaveController struct {
	requestHandlers[models.LeaveApplication]
	svc *services.LeaveService
}

func NewLeaveController(svc *services.LeaveService) *LeaveController {
	return &LeaveController{requestHandlers: requestHandlers[models.LeaveApplication]{engine: svc}, svc: svc}
}

// POST /api/v1/leaves/apply
func (ctl *LeaveController) Apply(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var in services.LeaveInput
	if !bindJSON(c, &in) {
		return
	}
	leave, err := ctl.svc.Apply(c.Request.Context(), viewer, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Leave application submitted", "data": leave})
}

// PUT /api/v1/leaves/:id
func (ctl *LeaveController) Update(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var in services.LeaveInput
	if !bindJSON(c, &in) {
		return
	}
	leave, err := ctl.svc.Update(c.Request.Context(), viewer, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": leave})
}
