package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"faculty-management-api/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordedEvents) Publish(_ context.Context, evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

var (
	physicsFaculty   = Viewer{UserID: 1, RoleID: models.RoleFaculty, Department: "Physics"}
	physicsDean      = Viewer{UserID: 2, RoleID: models.RoleDean, Department: "Physics"}
	chemistryDean    = Viewer{UserID: 3, RoleID: models.RoleDean, Department: "Chemistry"}
	administrator    = Viewer{UserID: 4, RoleID: models.RoleAdmin}
	physicsColleague = Viewer{UserID: 5, RoleID: models.RoleFaculty, Department: "Physics"}
)

func newLeaveFixture(t *testing.T) (*LeaveService, *MemoryRequestStore[models.LeaveApplication, *models.LeaveApplication], *recordedEvents) {
	t.Helper()
	store := NewMemoryRequestStore[models.LeaveApplication]()
	events := &recordedEvents{}
	svc := NewLeaveService(store, NewWorkflows(WorkflowPolicy{}), events)
	clock := time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, store, events
}

func applyLeave(t *testing.T, svc *LeaveService, viewer Viewer) *models.LeaveApplication {
	t.Helper()
	leave, err := svc.Apply(context.Background(), viewer, LeaveInput{
		LeaveType: models.LeaveTypeAnnual,
		StartDate: "2025-03-01",
		EndDate:   "2025-03-03",
		Reason:    "family visit",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return leave
}

func TestLeaveLifecycleWithinDepartment(t *testing.T) {
	ctx := context.Background()
	svc, store, events := newLeaveFixture(t)

	leave := applyLeave(t, svc, physicsFaculty)
	if leave.Duration != 3 {
		t.Fatalf("expected duration 3, got %d", leave.Duration)
	}
	if leave.Status != models.StatusPending || leave.SubmitterDepartment != "Physics" {
		t.Fatalf("unexpected initial state: %+v", leave.ReviewState)
	}

	items, total, err := svc.List(ctx, physicsDean, ListFilter{})
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("physics dean list: total=%d len=%d err=%v", total, len(items), err)
	}
	items, total, err = svc.List(ctx, chemistryDean, ListFilter{})
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("chemistry dean list: total=%d len=%d err=%v", total, len(items), err)
	}
	if _, err := svc.Get(ctx, chemistryDean, leave.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("out-of-scope get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Review(ctx, chemistryDean, leave.ID, ReviewInput{Status: models.StatusApproved}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("out-of-scope review: expected ErrForbidden, got %v", err)
	}

	reviewed, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: models.StatusApproved, Notes: "ok"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reviewed.Status != models.StatusApproved {
		t.Fatalf("expected approved, got %s", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != physicsDean.UserID || reviewed.ReviewedAt == nil {
		t.Fatalf("review metadata not stamped: %+v", reviewed.ReviewState)
	}
	if reviewed.ReviewNotes == nil || *reviewed.ReviewNotes != "ok" {
		t.Fatalf("expected notes ok, got %v", reviewed.ReviewNotes)
	}

	stored, err := svc.Get(ctx, physicsFaculty, leave.ID)
	if err != nil || stored.Status != models.StatusApproved {
		t.Fatalf("submitter read after review: %+v err=%v", stored, err)
	}

	if _, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: models.StatusApproved}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second approve: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Review(ctx, chemistryDean, leave.ID, ReviewInput{Status: models.StatusRejected, Notes: "no"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("out-of-scope review of decided request: expected ErrForbidden, got %v", err)
	}

	history := store.History(leave.ID)
	if len(history) != 1 || history[0].OldStatus != models.StatusPending || history[0].NewStatus != models.StatusApproved {
		t.Fatalf("unexpected history: %+v", history)
	}

	got := events.types()
	if len(got) != 2 || got[0] != EventRequestCreated || got[1] != EventRequestReviewed {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestReviewOfDecidedRequestHidesStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, physicsFaculty)
	if _, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: models.StatusApproved}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	researcher := Viewer{UserID: 7, RoleID: models.RoleResearcher, Department: "Biology"}
	reject := ReviewInput{Status: models.StatusRejected, Notes: "no"}
	for name, viewer := range map[string]Viewer{"researcher": researcher, "other department dean": chemistryDean} {
		_, err := svc.Review(ctx, viewer, leave.ID, reject)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", name, err)
		}
		if errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s: error must not reveal the current status: %v", name, err)
		}
	}
	if _, err := svc.Review(ctx, researcher, "missing", reject); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Review(ctx, physicsFaculty, leave.ID, reject); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("owner sees the decided status: expected ErrInvalidTransition, got %v", err)
	}
}

func TestReviewMetricStatusLabelIsBounded(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, physicsFaculty)

	before := testutil.CollectAndCount(reviewTransitions)
	for i := 0; i < 50; i++ {
		status := models.RequestStatus(fmt.Sprintf("junk-%d", i))
		if _, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: status}); !errors.Is(err, ErrValidation) {
			t.Fatalf("unknown status %s: expected ErrValidation, got %v", status, err)
		}
	}
	if grown := testutil.CollectAndCount(reviewTransitions) - before; grown > 1 {
		t.Fatalf("unknown statuses must share one series, got %d new", grown)
	}
	if got := svc.statusLabel("junk-1"); got != "unknown" {
		t.Fatalf("expected unknown label, got %q", got)
	}
	if got := svc.statusLabel(models.StatusApproved); got != "approved" {
		t.Fatalf("expected approved label, got %q", got)
	}
}

func TestLeaveRejectRequiresNotes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, physicsFaculty)

	_, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: models.StatusRejected})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "review_notes" {
		t.Fatalf("expected review_notes ValidationError, got %v", err)
	}

	stored, _ := svc.Get(ctx, physicsFaculty, leave.ID)
	if stored.Status != models.StatusPending {
		t.Fatalf("failed review must not change status, got %s", stored.Status)
	}

	if _, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: models.StatusRejected, Notes: "overlaps exams"}); err != nil {
		t.Fatalf("reject with notes: %v", err)
	}
}

func TestLeaveInputValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture(t)

	_, err := svc.Apply(ctx, physicsFaculty, LeaveInput{
		LeaveType: models.LeaveTypeSick,
		StartDate: "2025-03-05",
		EndDate:   "2025-03-01",
		Reason:    "flu",
	})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "end_date" {
		t.Fatalf("end before start: expected end_date ValidationError, got %v", err)
	}

	_, err = svc.Apply(ctx, Viewer{UserID: 9, RoleID: models.RoleFaculty}, LeaveInput{
		LeaveType: models.LeaveTypeSick,
		StartDate: "2025-03-01",
		EndDate:   "2025-03-01",
		Reason:    "flu",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("no department: expected ErrValidation, got %v", err)
	}

	_, err = svc.Apply(ctx, physicsFaculty, LeaveInput{
		LeaveType: "sabbatical",
		StartDate: "2025-03-01",
		EndDate:   "2025-03-01",
		Reason:    "rest",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown leave type: expected ErrValidation, got %v", err)
	}
}

func TestSelfReviewIsForbidden(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, physicsDean)

	if _, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: models.StatusApproved}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Review(ctx, administrator, leave.ID, ReviewInput{Status: models.StatusApproved}); err != nil {
		t.Fatalf("admin review of dean's leave: %v", err)
	}
}

func TestConcurrentReviewsHaveSingleWinner(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, physicsFaculty)

	reviewers := []Viewer{physicsDean, administrator, {UserID: 6, RoleID: models.RoleVC}}
	errs := make(chan error, len(reviewers))
	var wg sync.WaitGroup
	for _, r := range reviewers {
		wg.Add(1)
		go func(r Viewer) {
			defer wg.Done()
			_, err := svc.Review(ctx, r, leave.ID, ReviewInput{Status: models.StatusApproved})
			errs <- err
		}(r)
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidTransition):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one successful review, got %d", ok)
	}
	if n := len(store.History(leave.ID)); n != 1 {
		t.Fatalf("expected one history row, got %d", n)
	}
}

func TestUpdateAndWithdrawArePendingOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, events := newLeaveFixture(t)
	leave := applyLeave(t, svc, physicsFaculty)

	if _, err := svc.Update(ctx, physicsColleague, leave.ID, LeaveInput{
		LeaveType: models.LeaveTypeAnnual, StartDate: "2025-03-01", EndDate: "2025-03-02", Reason: "x",
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("update by non-owner: expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(ctx, physicsFaculty, leave.ID, LeaveInput{
		LeaveType: models.LeaveTypePersonal, StartDate: "2025-03-01", EndDate: "2025-03-05", Reason: "longer trip",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Duration != 5 || updated.LeaveType != models.LeaveTypePersonal {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := svc.Review(ctx, physicsDean, leave.ID, ReviewInput{Status: models.StatusApproved}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.Update(ctx, physicsFaculty, leave.ID, LeaveInput{
		LeaveType: models.LeaveTypeAnnual, StartDate: "2025-03-01", EndDate: "2025-03-02", Reason: "x",
	}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("update after review: expected ErrInvalidTransition, got %v", err)
	}
	if err := svc.Withdraw(ctx, physicsFaculty, leave.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("withdraw after review: expected ErrInvalidTransition, got %v", err)
	}

	second := applyLeave(t, svc, physicsFaculty)
	if err := svc.Withdraw(ctx, physicsFaculty, second.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := svc.Get(ctx, physicsFaculty, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("withdrawn request must be gone, got %v", err)
	}
	got := events.types()
	if got[len(got)-1] != EventRequestRemoved {
		t.Fatalf("expected removal event last, got %v", got)
	}
}

func TestAdminDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, physicsFaculty)

	if err := svc.AdminDelete(ctx, physicsDean, leave.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("dean delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.AdminDelete(ctx, administrator, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: expected ErrNotFound, got %v", err)
	}
	if err := svc.AdminDelete(ctx, administrator, leave.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	reviewed := applyLeave(t, svc, physicsFaculty)
	if _, err := svc.Review(ctx, physicsDean, reviewed.ID, ReviewInput{Status: models.StatusRejected, Notes: "no cover"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := svc.AdminDelete(ctx, administrator, reviewed.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("delete of decided request: expected ErrInvalidTransition, got %v", err)
	}
}

func TestFacultyPortalListsOwnRequestsOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture(t)
	applyLeave(t, svc, physicsFaculty)
	applyLeave(t, svc, physicsColleague)

	items, total, err := svc.List(ctx, physicsFaculty, ListFilter{})
	if err != nil || total != 1 || len(items) != 1 || !items[0].IsOwnedBy(physicsFaculty.UserID) {
		t.Fatalf("faculty list: total=%d err=%v", total, err)
	}
	if _, _, err := svc.List(ctx, Viewer{UserID: 7, RoleID: models.RoleResearcher}, ListFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("researcher list: expected ErrForbidden, got %v", err)
	}
	items, total, err = svc.ListOwn(ctx, physicsColleague, ListFilter{Status: models.StatusPending})
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("own list: total=%d err=%v", total, err)
	}
}

func newApplicationFixture(policy WorkflowPolicy) *FacultyApplicationService {
	store := NewMemoryRequestStore[models.FacultyApplication]()
	return NewFacultyApplicationService(store, NewWorkflows(policy), nil)
}

func candidateInput() FacultyApplicationInput {
	return FacultyApplicationInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "Ada@Example.org",
		Department:      "Physics",
		Position:        "Assistant Professor",
		ExperienceYears: 4,
		ResumeURL:       "https://files.example.org/ada.pdf",
	}
}

func TestFacultyApplicationHiringPath(t *testing.T) {
	ctx := context.Background()
	svc := newApplicationFixture(WorkflowPolicy{})

	app, err := svc.Apply(ctx, candidateInput())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.SubmitterID != nil || app.Email != "ada@example.org" || app.SubmitterDepartment != "Physics" {
		t.Fatalf("unexpected application state: %+v", app)
	}

	if _, err := svc.Review(ctx, administrator, app.ID, ReviewInput{Status: models.StatusHired}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending -> hired: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.Review(ctx, physicsDean, app.ID, ReviewInput{Status: models.StatusUnderReview}); err != nil {
		t.Fatalf("under-review: %v", err)
	}
	shortlisted, err := svc.Review(ctx, physicsDean, app.ID, ReviewInput{
		Status: models.StatusShortlisted,
		Extra:  map[string]string{"interview_date": "2025-04-10"},
	})
	if err != nil {
		t.Fatalf("shortlist: %v", err)
	}
	if shortlisted.InterviewDate == nil || shortlisted.InterviewDate.Format("2006-01-02") != "2025-04-10" {
		t.Fatalf("interview date not stored: %v", shortlisted.InterviewDate)
	}
	hired, err := svc.Review(ctx, administrator, app.ID, ReviewInput{Status: models.StatusHired})
	if err != nil {
		t.Fatalf("hire: %v", err)
	}
	if hired.Status != models.StatusHired {
		t.Fatalf("expected hired, got %s", hired.Status)
	}

	tracked, err := svc.Track(ctx, app.ID, "ada@example.org")
	if err != nil || tracked.Status != models.StatusHired {
		t.Fatalf("track: %+v err=%v", tracked, err)
	}
	if _, err := svc.Track(ctx, app.ID, "someone@example.org"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("track with wrong email: expected ErrNotFound, got %v", err)
	}
}

func TestFacultyApplicationDirectHirePolicy(t *testing.T) {
	ctx := context.Background()
	svc := newApplicationFixture(WorkflowPolicy{AllowDirectHire: true})

	app, err := svc.Apply(ctx, candidateInput())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := svc.Review(ctx, administrator, app.ID, ReviewInput{Status: models.StatusHired}); err != nil {
		t.Fatalf("direct hire: %v", err)
	}
}

func TestFacultyApplicationRejectDefaultsNotes(t *testing.T) {
	ctx := context.Background()
	svc := newApplicationFixture(WorkflowPolicy{})

	app, err := svc.Apply(ctx, candidateInput())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := svc.Review(ctx, chemistryDean, app.ID, ReviewInput{Status: models.StatusRejected}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other department dean: expected ErrForbidden, got %v", err)
	}
	rejected, err := svc.Review(ctx, physicsDean, app.ID, ReviewInput{Status: models.StatusRejected})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.ReviewNotes == nil || *rejected.ReviewNotes != "Application rejected" {
		t.Fatalf("expected default notes, got %v", rejected.ReviewNotes)
	}
}

func TestScheduleChangeDecisionData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRequestStore[models.ScheduleChangeRequest]()
	svc := NewScheduleChangeService(store, NewWorkflows(WorkflowPolicy{}), nil)

	_, err := svc.Apply(ctx, physicsFaculty, ScheduleChangeInput{
		Subject:           "PHY101",
		CurrentPeriod:     "P1",
		RequestedPeriod:   "P1",
		CurrentSchedule:   "Mon 09:00",
		RequestedSchedule: "Mon 09:00",
		Reason:            "clash",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("identical slot: expected ErrValidation, got %v", err)
	}

	req, err := svc.Apply(ctx, physicsFaculty, ScheduleChangeInput{
		Department:        "Chemistry",
		Subject:           "PHY101",
		CurrentSchedule:   "Mon 09:00",
		RequestedSchedule: "Tue 13:00",
		Reason:            "lab clash",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if req.SubmitterDepartment != "Physics" {
		t.Fatalf("scope must follow the submitter, got %s", req.SubmitterDepartment)
	}

	approved, err := svc.Review(ctx, physicsDean, req.ID, ReviewInput{
		Status: models.StatusApproved,
		Extra:  map[string]string{"approved_schedule": "Tue 14:00"},
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.ApprovedSchedule == nil || *approved.ApprovedSchedule != "Tue 14:00" {
		t.Fatalf("approved schedule not stored: %v", approved.ApprovedSchedule)
	}

	other, err := svc.Apply(ctx, physicsFaculty, ScheduleChangeInput{
		Subject:           "PHY102",
		CurrentSchedule:   "Wed 09:00",
		RequestedSchedule: "Thu 09:00",
		Reason:            "travel",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	_, err = svc.Review(ctx, physicsDean, other.ID, ReviewInput{
		Status: models.StatusRejected,
		Notes:  "room unavailable",
		Extra:  map[string]string{"approved_schedule": "Thu 10:00"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("approved_schedule on rejection: expected ErrValidation, got %v", err)
	}
	stored, err := svc.Get(ctx, physicsFaculty, other.ID)
	if err != nil || stored.Status != models.StatusPending || stored.ApprovedSchedule != nil {
		t.Fatalf("refused decision must leave the request untouched: %+v err=%v", stored, err)
	}
}

func TestInterviewDateOnlyWhenShortlisting(t *testing.T) {
	ctx := context.Background()
	svc := newApplicationFixture(WorkflowPolicy{})

	app, err := svc.Apply(ctx, candidateInput())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	_, err = svc.Review(ctx, physicsDean, app.ID, ReviewInput{
		Status: models.StatusUnderReview,
		Extra:  map[string]string{"interview_date": "2025-04-10"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("interview_date on under-review: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Review(ctx, physicsDean, app.ID, ReviewInput{Status: models.StatusUnderReview}); err != nil {
		t.Fatalf("under-review: %v", err)
	}
	_, err = svc.Review(ctx, physicsDean, app.ID, ReviewInput{
		Status: models.StatusRejected,
		Extra:  map[string]string{"interview_date": "2025-04-10"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("interview_date on rejection: expected ErrValidation, got %v", err)
	}
}

