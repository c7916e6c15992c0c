package controllers

import (
	"net/http"
	"strings"

	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

type PublicationController struct {
	svc *services.PublicationService
}

func NewPublicationController(svc *services.PublicationService) *PublicationController {
	return &PublicationController{svc: svc}
}

func (ctl *PublicationController) Create(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var in services.PublicationInput
	if !bindJSON(c, &in) {
		return
	}
	pub, err := ctl.svc.Create(c.Request.Context(), viewer, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": pub})
}

// GET /api/v1/publications/all
func (ctl *PublicationController) All(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	limit, offset := page(c)
	pubs, total, err := ctl.svc.List(c.Request.Context(), viewer, c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, pubs, total, limit, offset)
}

// GET /api/v1/publications/mine
func (ctl *PublicationController) Mine(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	limit, offset := page(c)
	pubs, total, err := ctl.svc.ListMine(c.Request.Context(), viewer, c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, pubs, total, limit, offset)
}

func (ctl *PublicationController) Get(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	pub, err := ctl.svc.Get(c.Request.Context(), viewer, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pub})
}

func (ctl *PublicationController) Update(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var in services.PublicationInput
	if !bindJSON(c, &in) {
		return
	}
	pub, err := ctl.svc.Update(c.Request.Context(), viewer, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pub})
}

// PUT /api/v1/publications/:id/status
func (ctl *PublicationController) ChangeStatus(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=draft submitted accepted published"`
	}
	if !bindJSON(c, &req) {
		return
	}
	to := models.PublicationStatus(strings.ToLower(req.Status))
	pub, err := ctl.svc.ChangeStatus(c.Request.Context(), viewer, id, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pub})
}

// PUT /api/v1/publications/:id/verify
func (ctl *PublicationController) Verify(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	req := struct {
		Verified *bool `json:"verified"`
	}{}
	if !bindJSON(c, &req) {
		return
	}
	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}
	pub, err := ctl.svc.Verify(c.Request.Context(), viewer, id, verified)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pub})
}

func (ctl *PublicationController) Delete(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.svc.Delete(c.Request.Context(), viewer, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Publication deleted"})
}
