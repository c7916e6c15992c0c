package controllers

import (
	"net/http"

	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

type GalleryController struct {
	svc *services.GalleryService
}

func NewGalleryController(svc *services.GalleryService) *GalleryController {
	return &GalleryController{svc: svc}
}

// GET /api/v1/gallery (public)
func (ctl *GalleryController) List(c *gin.Context) {
	limit, offset := page(c)
	images, total, err := ctl.svc.List(c.Request.Context(), c.Query("category"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, images, total, limit, offset)
}

func (ctl *GalleryController) Create(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var in services.GalleryInput
	if !bindJSON(c, &in) {
		return
	}
	image, err := ctl.svc.Create(c.Request.Context(), viewer, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": image})
}

func (ctl *GalleryController) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image deleted"})
}
