package controllers

import (
	"net/http"
	"strconv"

	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	svc *services.SubjectService
}

func NewSubjectController(svc *services.SubjectService) *SubjectController {
	return &SubjectController{svc: svc}
}

// GET /api/v1/subjects?department=&semester=
func (ctl *SubjectController) List(c *gin.Context) {
	limit, offset := page(c)
	semester, _ := strconv.Atoi(c.Query("semester"))
	subjects, total, err := ctl.svc.List(c.Request.Context(), c.Query("department"), semester, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, subjects, total, limit, offset)
}

func (ctl *SubjectController) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	subject, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subject})
}

func (ctl *SubjectController) Create(c *gin.Context) {
	var in services.SubjectInput
	if !bindJSON(c, &in) {
		return
	}
	subject, err := ctl.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": subject})
}

func (ctl *SubjectController) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var in services.SubjectInput
	if !bindJSON(c, &in) {
		return
	}
	subject, err := ctl.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subject})
}

func (ctl *SubjectController) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subject deleted"})
}
