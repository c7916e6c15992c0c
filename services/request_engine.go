package services

import (
	"context"
	"errors"
	"time"

	"faculty-management-api/config"
	"faculty-management-api/models"

	"go.uber.org/zap"
)

// ReviewInput is a reviewer's decision on one request.
type ReviewInput struct {
	Status models.RequestStatus
	Notes  string
	Extra  map[string]string
}

// RequestEngine runs the shared lifecycle of one request kind: submission,
// scoped reads, pending-only edits and review transitions.
type RequestEngine[T any, PT reviewablePtr[T]] struct {
	store    RequestStore[T]
	workflow *Workflow
	events   EventPublisher
	now      func() time.Time
}

func NewRequestEngine[T any, PT reviewablePtr[T]](store RequestStore[T], workflow *Workflow, events EventPublisher) *RequestEngine[T, PT] {
	return &RequestEngine[T, PT]{
		store:    store,
		workflow: workflow,
		events:   events,
		now:      time.Now,
	}
}

func (e *RequestEngine[T, PT]) Kind() models.RequestKind { return e.workflow.Kind }

// Workflow exposes the status graph, for clients that render allowed actions.
func (e *RequestEngine[T, PT]) Workflow() *Workflow { return e.workflow }

// Review applies a status transition and stamps the review metadata in one
// conditional write.
func (e *RequestEngine[T, PT]) Review(ctx context.Context, reviewer Viewer, id string, in ReviewInput) (result *T, err error) {
	defer func() {
		reviewTransitions.WithLabelValues(string(e.Kind()), e.statusLabel(in.Status), outcomeLabel(err)).Inc()
	}()

	entity, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := PT(entity).State()

	// Visibility comes first so an outsider learns nothing about the status.
	if !st.IsOwnedBy(reviewer.UserID) {
		scope, err := ScopeFor(reviewer, e.Kind())
		if err != nil {
			return nil, err
		}
		if !scope.MatchesState(st) {
			return nil, ErrForbidden
		}
	}
	if e.workflow.IsTerminal(st.Status) {
		return nil, transitionError(st.Status, in.Status)
	}
	if err := CanReview(reviewer, e.Kind(), st); err != nil {
		return nil, err
	}

	from := st.Status
	notes, err := e.workflow.Check(from, in.Status, in.Notes)
	if err != nil {
		return nil, err
	}

	columns, err := PT(entity).ApplyDecision(in.Status, in.Extra)
	if err != nil {
		return nil, invalid("decision", "%s", err.Error())
	}

	now := e.now()
	reviewerID := reviewer.UserID
	st.Status = in.Status
	st.ReviewedBy = &reviewerID
	st.ReviewedAt = &now
	st.ReviewNotes = notes

	columns["status"] = in.Status
	columns["reviewed_by"] = reviewerID
	columns["reviewed_at"] = now
	columns["review_notes"] = notes

	history := &models.ReviewHistory{
		Kind:        e.Kind(),
		RequestID:   id,
		OldStatus:   from,
		NewStatus:   in.Status,
		ChangedBy:   reviewerID,
		ReviewNotes: notes,
		CreatedAt:   now,
	}
	if err := e.store.Transition(ctx, entity, from, columns, history); err != nil {
		return nil, err
	}

	config.Log.Info("request reviewed",
		zap.String("kind", string(e.Kind())),
		zap.String("request_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(in.Status)),
		zap.Uint("reviewer_id", reviewerID))

	e.publish(ctx, EventRequestReviewed, entity, from, reviewerID)
	return entity, nil
}

// List returns the kind's requests visible to the viewer.
// statusLabel keeps the metric label set bounded by the workflow graph.
func (e *RequestEngine[T, PT]) statusLabel(s models.RequestStatus) string {
	if e.workflow.Knows(s) {
		return string(s)
	}
	return "unknown"
}

func (e *RequestEngine[T, PT]) List(ctx context.Context, viewer Viewer, filter ListFilter) ([]T, int64, error) {
	scope, err := ScopeFor(viewer, e.Kind())
	if err != nil {
		return nil, 0, err
	}
	return e.store.List(ctx, scope, filter)
}

// ListOwn returns the requests the viewer submitted.
func (e *RequestEngine[T, PT]) ListOwn(ctx context.Context, viewer Viewer, filter ListFilter) ([]T, int64, error) {
	return e.store.List(ctx, OwnScope(viewer), filter)
}

// Get loads one request. Records outside the viewer's scope read as not found.
func (e *RequestEngine[T, PT]) Get(ctx context.Context, viewer Viewer, id string) (*T, error) {
	entity, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := PT(entity).State()
	if st.IsOwnedBy(viewer.UserID) {
		return entity, nil
	}
	scope, err := ScopeFor(viewer, e.Kind())
	if err != nil || !scope.MatchesState(st) {
		return nil, notFound(string(e.Kind()))
	}
	return entity, nil
}

// submit stamps the immutable fields and persists a new pending request.
// submitter is nil for anonymous candidates.
func (e *RequestEngine[T, PT]) submit(ctx context.Context, entity *T, submitter *Viewer, department string) error {
	st := PT(entity).State()
	st.Status = models.StatusPending
	st.SubmittedAt = e.now()
	st.SubmitterDepartment = department
	st.SubmitterID = nil
	if submitter != nil {
		id := submitter.UserID
		st.SubmitterID = &id
	}
	st.ReviewedBy, st.ReviewedAt, st.ReviewNotes = nil, nil, nil

	if err := e.store.Create(ctx, entity); err != nil {
		return err
	}
	requestsCreated.WithLabelValues(string(e.Kind())).Inc()

	var actor uint
	if submitter != nil {
		actor = submitter.UserID
	}
	e.publish(ctx, EventRequestCreated, entity, "", actor)
	return nil
}

// ownedPending loads a request the viewer submitted and that is still pending.
func (e *RequestEngine[T, PT]) ownedPending(ctx context.Context, viewer Viewer, id string) (*T, error) {
	entity, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := PT(entity).State()
	if !st.IsOwnedBy(viewer.UserID) {
		return nil, ErrForbidden
	}
	if st.Status != models.StatusPending {
		return nil, transitionError(st.Status, "edit")
	}
	return entity, nil
}

// Withdraw deletes a pending request on behalf of its submitter.
func (e *RequestEngine[T, PT]) Withdraw(ctx context.Context, viewer Viewer, id string) error {
	entity, err := e.ownedPending(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := e.store.DeletePending(ctx, id); err != nil {
		return err
	}
	e.publish(ctx, EventRequestRemoved, entity, models.StatusPending, viewer.UserID)
	return nil
}

// AdminDelete is the administrative override. It is not a workflow transition
// and only removes requests that are still pending.
func (e *RequestEngine[T, PT]) AdminDelete(ctx context.Context, admin Viewer, id string) error {
	if !admin.Is(models.RoleAdmin) {
		return ErrForbidden
	}
	entity, err := e.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if status := PT(entity).State().Status; status != models.StatusPending {
		return transitionError(status, "delete")
	}
	if err := e.store.DeletePending(ctx, id); err != nil {
		return err
	}
	config.Log.Warn("request deleted by administrator",
		zap.String("kind", string(e.Kind())),
		zap.String("request_id", id),
		zap.Uint("admin_id", admin.UserID))
	e.publish(ctx, EventRequestRemoved, entity, models.StatusPending, admin.UserID)
	return nil
}

func (e *RequestEngine[T, PT]) updatePending(ctx context.Context, entity *T, columns map[string]interface{}) error {
	err := e.store.UpdatePending(ctx, entity, columns)
	if errors.Is(err, ErrConflict) {
		return transitionError(PT(entity).State().Status, "edit")
	}
	return err
}

func (e *RequestEngine[T, PT]) publish(ctx context.Context, typ string, entity *T, old models.RequestStatus, actor uint) {
	if e.events == nil {
		return
	}
	st := PT(entity).State()
	e.events.Publish(ctx, Event{
		Type:        typ,
		Kind:        e.Kind(),
		RequestID:   PT(entity).GetID(),
		OldStatus:   old,
		NewStatus:   st.Status,
		ActorID:     actor,
		SubmitterID: st.SubmitterID,
		Department:  st.SubmitterDepartment,
		Notes:       st.ReviewNotes,
		OccurredAt:  e.now(),
	})
}
