package controllers

import (
	"net/http"
	"strings"

	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

// UserController is the admin account CRUD.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GET /api/v1/users?role=&department=&search=
func (ctl *UserController) List(c *gin.Context) {
	limit, offset := page(c)
	f := services.UserFilter{
		Department: c.Query("department"),
		Search:     c.Query("search"),
		Limit:      limit,
		Offset:     offset,
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		id, ok := models.RoleIDByName(role)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "role: unknown role", "code": "VALIDATION_ERROR", "field": "role"})
			return
		}
		f.RoleID = id
	}
	users, total, err := ctl.users.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, users, total, limit, offset)
}

func (ctl *UserController) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	user, err := ctl.users.FindUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (ctl *UserController) Create(c *gin.Context) {
	var in services.CreateUserInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := ctl.users.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user})
}

func (ctl *UserController) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var in services.UpdateUserInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := ctl.users.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (ctl *UserController) Delete(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.users.Delete(c.Request.Context(), viewer, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}
