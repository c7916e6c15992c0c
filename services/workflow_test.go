package services

import (
	"errors"
	"testing"

	"faculty-management-api/models"
)

func TestDecisionWorkflowAllowsOnlyDirectSuccessors(t *testing.T) {
	wf := NewWorkflows(WorkflowPolicy{})[models.KindLeave]

	cases := []struct {
		from, to models.RequestStatus
		want     bool
	}{
		{models.StatusPending, models.StatusApproved, true},
		{models.StatusPending, models.StatusRejected, true},
		{models.StatusApproved, models.StatusRejected, false},
		{models.StatusRejected, models.StatusApproved, false},
		{models.StatusApproved, models.StatusPending, false},
		{models.StatusPending, models.StatusHired, false},
	}
	for _, tc := range cases {
		if got := wf.CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if !wf.IsTerminal(models.StatusApproved) || !wf.IsTerminal(models.StatusRejected) {
		t.Fatalf("approved and rejected must be terminal")
	}
}

func TestHiringWorkflowForbidsSkippingStages(t *testing.T) {
	wf := NewWorkflows(WorkflowPolicy{})[models.KindFacultyApplication]

	_, err := wf.Check(models.StatusPending, models.StatusHired, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending -> hired: expected ErrInvalidTransition, got %v", err)
	}
	_, err = wf.Check(models.StatusPending, models.StatusShortlisted, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending -> shortlisted: expected ErrInvalidTransition, got %v", err)
	}

	path := []models.RequestStatus{models.StatusPending, models.StatusUnderReview, models.StatusShortlisted, models.StatusHired}
	for i := 0; i+1 < len(path); i++ {
		if _, err := wf.Check(path[i], path[i+1], ""); err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", path[i], path[i+1], err)
		}
	}
	for _, from := range path[:3] {
		if !wf.CanTransition(from, models.StatusRejected) {
			t.Fatalf("%s must allow rejection", from)
		}
	}
	if !wf.IsTerminal(models.StatusHired) {
		t.Fatalf("hired must be terminal")
	}
}

func TestDirectHirePolicyAddsFastPath(t *testing.T) {
	wf := NewWorkflows(WorkflowPolicy{AllowDirectHire: true})[models.KindFacultyApplication]
	if _, err := wf.Check(models.StatusPending, models.StatusHired, ""); err != nil {
		t.Fatalf("expected pending -> hired with policy, got %v", err)
	}
	if wf.CanTransition(models.StatusUnderReview, models.StatusPending) {
		t.Fatalf("policy must not add backwards edges")
	}
	// The default graphs are untouched by a policy-enabled build.
	if NewWorkflows(WorkflowPolicy{})[models.KindFacultyApplication].CanTransition(models.StatusPending, models.StatusHired) {
		t.Fatalf("default graph must not allow pending -> hired")
	}
}

func TestRejectNotesPolicy(t *testing.T) {
	wfs := NewWorkflows(WorkflowPolicy{})

	for _, kind := range []models.RequestKind{models.KindLeave, models.KindScheduleChange} {
		_, err := wfs[kind].Check(models.StatusPending, models.StatusRejected, "   ")
		var ve *ValidationError
		if !errors.As(err, &ve) || !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ValidationError, got %v", kind, err)
		}
	}

	notes, err := wfs[models.KindFacultyApplication].Check(models.StatusPending, models.StatusRejected, "")
	if err != nil {
		t.Fatalf("faculty application reject: %v", err)
	}
	if notes == nil || *notes != "Application rejected" {
		t.Fatalf("expected default notes, got %v", notes)
	}

	notes, err = wfs[models.KindLeave].Check(models.StatusPending, models.StatusApproved, "")
	if err != nil || notes != nil {
		t.Fatalf("approve without notes: notes=%v err=%v", notes, err)
	}
}

func TestUnknownStatusIsValidationError(t *testing.T) {
	wf := NewWorkflows(WorkflowPolicy{})[models.KindLeave]
	_, err := wf.Check(models.StatusPending, "archived", "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = wf.Check(models.StatusPending, models.StatusShortlisted, "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("status of another graph: expected ErrValidation, got %v", err)
	}
}
