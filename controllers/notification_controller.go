package controllers

import (
	"net/http"
	"strings"

	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	svc *services.NotificationService
}

func NewNotificationController(svc *services.NotificationService) *NotificationController {
	return &NotificationController{svc: svc}
}

// GET /api/v1/notifications?unreadOnly=true
func (ctl *NotificationController) List(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	limit, offset := page(c)

	items, unread, err := ctl.svc.ListForUser(c.Request.Context(), viewer.UserID,
		unreadOnly == "1" || strings.EqualFold(unreadOnly, "true"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items, "unread": unread})
}

// PUT /api/v1/notifications/:id/read
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.svc.MarkRead(c.Request.Context(), viewer.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PUT /api/v1/notifications/read-all
func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	n, err := ctl.svc.MarkAllRead(c.Request.Context(), viewer.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}
