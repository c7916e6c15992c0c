package controllers

import (
	"context"
	"net/http"
	"strings"

	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
)

// requestEngine is the shared lifecycle every request kind exposes.
type requestEngine[T any] interface {
	Kind() models.RequestKind
	Workflow() *services.Workflow
	List(ctx context.Context, viewer services.Viewer, filter services.ListFilter) ([]T, int64, error)
	ListOwn(ctx context.Context, viewer services.Viewer, filter services.ListFilter) ([]T, int64, error)
	Get(ctx context.Context, viewer services.Viewer, id string) (*T, error)
	Review(ctx context.Context, reviewer services.Viewer, id string, in services.ReviewInput) (*T, error)
	Withdraw(ctx context.Context, viewer services.Viewer, id string) error
	AdminDelete(ctx context.Context, admin services.Viewer, id string) error
}

// reviewRequest is the body of PUT /:id/review. notes is accepted as an alias
// of review_notes.
type reviewRequest struct {
	Status           string  `json:"status" binding:"required"`
	ReviewNotes      string  `json:"review_notes" binding:"max=2000"`
	Notes            string  `json:"notes" binding:"max=2000"`
	ApprovedSchedule *string `json:"approved_schedule"`
	InterviewDate    *string `json:"interview_date"`
}

func (r reviewRequest) input() services.ReviewInput {
	extra := map[string]string{}
	if r.ApprovedSchedule != nil {
		extra["approved_schedule"] = *r.ApprovedSchedule
	}
	if r.InterviewDate != nil {
		extra["interview_date"] = *r.InterviewDate
	}
	notes := r.ReviewNotes
	if strings.TrimSpace(notes) == "" {
		notes = r.Notes
	}
	return services.ReviewInput{
		Status: models.RequestStatus(strings.ToLower(strings.TrimSpace(r.Status))),
		Notes:  notes,
		Extra:  extra,
	}
}

// requestHandlers serves the read, review and removal routes of one kind.
type requestHandlers[T any] struct {
	engine requestEngine[T]
}

func listFilter(c *gin.Context) services.ListFilter {
	limit, offset := page(c)
	return services.ListFilter{
		Status: models.RequestStatus(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	}
}

// All lists the kind within the caller's scope.
func (h requestHandlers[T]) All(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	f := listFilter(c)
	items, total, err := h.engine.List(c.Request.Context(), viewer, f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, items, total, f.Limit, f.Offset)
}

// Mine lists the caller's own submissions.
func (h requestHandlers[T]) Mine(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	f := listFilter(c)
	items, total, err := h.engine.ListOwn(c.Request.Context(), viewer, f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, items, total, f.Limit, f.Offset)
}

func (h requestHandlers[T]) Get(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	item, err := h.engine.Get(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondItem(c, http.StatusOK, item)
}

func (h requestHandlers[T]) Review(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.engine.Review(c.Request.Context(), viewer, c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondItem(c, http.StatusOK, item)
}

// Withdraw deletes the caller's own pending request.
func (h requestHandlers[T]) Withdraw(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	if err := h.engine.Withdraw(c.Request.Context(), viewer, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request withdrawn"})
}

// AdminDelete is the administrator override for pending requests.
func (h requestHandlers[T]) AdminDelete(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	if err := h.engine.AdminDelete(c.Request.Context(), viewer, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request deleted"})
}

// respondItem adds the statuses the request may move to next.
func (h requestHandlers[T]) respondItem(c *gin.Context, status int, item *T) {
	body := gin.H{"success": true, "data": item}
	if r, ok := any(item).(models.Reviewable); ok {
		body["next_statuses"] = h.engine.Workflow().Next(r.State().Status)
	}
	c.JSON(status, body)
}
