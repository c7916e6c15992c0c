package services

import (
	"strings"

	"faculty-management-api/models"
)

// Workflow is the status graph for one request kind.
type Workflow struct {
	Kind  models.RequestKind
	edges map[models.RequestStatus][]models.RequestStatus

	// RejectNotesRequired makes review notes mandatory when rejecting.
	RejectNotesRequired bool
	// DefaultRejectNotes is stored when notes are optional and none were given.
	DefaultRejectNotes string
}

// WorkflowPolicy holds the switches that change the canonical graphs.
type WorkflowPolicy struct {
	// AllowDirectHire adds a pending -> hired edge to the faculty-application graph.
	AllowDirectHire bool
}

// Workflows indexes the graphs by request kind.
type Workflows map[models.RequestKind]*Workflow

// NewWorkflows builds the graphs for leave, schedule-change and faculty applications.
func NewWorkflows(policy WorkflowPolicy) Workflows {
	decision := map[models.RequestStatus][]models.RequestStatus{
		models.StatusPending: {models.StatusApproved, models.StatusRejected},
	}

	hiring := map[models.RequestStatus][]models.RequestStatus{
		models.StatusPending:     {models.StatusUnderReview, models.StatusRejected},
		models.StatusUnderReview: {models.StatusShortlisted, models.StatusRejected},
		models.StatusShortlisted: {models.StatusHired, models.StatusRejected},
	}
	if policy.AllowDirectHire {
		hiring[models.StatusPending] = append(hiring[models.StatusPending], models.StatusHired)
	}

	return Workflows{
		models.KindLeave: {
			Kind:                models.KindLeave,
			edges:               decision,
			RejectNotesRequired: true,
		},
		models.KindScheduleChange: {
			Kind:                models.KindScheduleChange,
			edges:               decision,
			RejectNotesRequired: true,
		},
		models.KindFacultyApplication: {
			Kind:               models.KindFacultyApplication,
			edges:              hiring,
			DefaultRejectNotes: "Application rejected",
		},
	}
}

// Next lists the direct successors of from.
func (w *Workflow) Next(from models.RequestStatus) []models.RequestStatus {
	return w.edges[from]
}

// CanTransition reports whether to is a direct successor of from.
func (w *Workflow) CanTransition(from, to models.RequestStatus) bool {
	for _, next := range w.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether nothing can follow status.
func (w *Workflow) IsTerminal(status models.RequestStatus) bool {
	return len(w.edges[status]) == 0
}

// Knows reports whether status appears anywhere in the graph.
func (w *Workflow) Knows(status models.RequestStatus) bool {
	if _, ok := w.edges[status]; ok {
		return true
	}
	for _, nexts := range w.edges {
		for _, n := range nexts {
			if n == status {
				return true
			}
		}
	}
	return false
}

// Check validates a transition and resolves the notes to store.
func (w *Workflow) Check(from, to models.RequestStatus, notes string) (*string, error) {
	if !w.Knows(to) {
		return nil, invalid("status", "unknown status %q for %s", to, w.Kind)
	}
	if !w.CanTransition(from, to) {
		return nil, transitionError(from, to)
	}

	trimmed := strings.TrimSpace(notes)
	if to == models.StatusRejected && trimmed == "" {
		if w.RejectNotesRequired {
			return nil, invalid("review_notes", "a reason is required when rejecting")
		}
		trimmed = w.DefaultRejectNotes
	}
	if trimmed == "" {
		return nil, nil
	}
	return &trimmed, nil
}
