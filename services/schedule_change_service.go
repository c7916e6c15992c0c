package services

import (
	"context"
	"strings"

	"faculty-management-api/models"
	"faculty-management-api/utils"

	"github.com/google/uuid"
)

// ScheduleChangeInput is the body of POST /schedule-changes/apply.
type ScheduleChangeInput struct {
	Department        string `json:"department"`
	Subject           string `json:"subject" binding:"required,max=200"`
	CurrentPeriod     string `json:"current_period" binding:"max=60"`
	RequestedPeriod   string `json:"requested_period" binding:"max=60"`
	CurrentSchedule   string `json:"current_schedule" binding:"required,max=255"`
	RequestedSchedule string `json:"requested_schedule" binding:"required,max=255"`
	Reason            string `json:"reason" binding:"required,max=2000"`
}

type ScheduleChangeService struct {
	*RequestEngine[models.ScheduleChangeRequest, *models.ScheduleChangeRequest]
}

func NewScheduleChangeService(store RequestStore[models.ScheduleChangeRequest], workflows Workflows, events EventPublisher) *ScheduleChangeService {
	return &ScheduleChangeService{
		RequestEngine: NewRequestEngine[models.ScheduleChangeRequest](store, workflows[models.KindScheduleChange], events),
	}
}

// Apply creates a pending schedule-change request. The request is scoped to the
// submitter's own department whatever department the body names.
func (s *ScheduleChangeService) Apply(ctx context.Context, viewer Viewer, in ScheduleChangeInput) (*models.ScheduleChangeRequest, error) {
	if strings.TrimSpace(viewer.Department) == "" {
		return nil, invalid("department", "your profile has no department")
	}
	req := &models.ScheduleChangeRequest{ID: uuid.NewString()}
	if err := fillScheduleChange(req, in, viewer.Department); err != nil {
		return nil, err
	}
	if err := s.submit(ctx, req, &viewer, viewer.Department); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *ScheduleChangeService) Update(ctx context.Context, viewer Viewer, id string, in ScheduleChangeInput) (*models.ScheduleChangeRequest, error) {
	req, err := s.ownedPending(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := fillScheduleChange(req, in, req.SubmitterDepartment); err != nil {
		return nil, err
	}
	err = s.updatePending(ctx, req, map[string]interface{}{
		"department":         req.Department,
		"subject":            req.Subject,
		"current_period":     req.CurrentPeriod,
		"requested_period":   req.RequestedPeriod,
		"current_schedule":   req.CurrentSchedule,
		"requested_schedule": req.RequestedSchedule,
		"reason":             req.Reason,
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func fillScheduleChange(req *models.ScheduleChangeRequest, in ScheduleChangeInput, department string) error {
	if err := validateInput(in); err != nil {
		return err
	}
	current := utils.SanitizeInput(in.CurrentSchedule)
	requested := utils.SanitizeInput(in.RequestedSchedule)
	if strings.EqualFold(current, requested) && strings.EqualFold(strings.TrimSpace(in.CurrentPeriod), strings.TrimSpace(in.RequestedPeriod)) {
		return invalid("requested_schedule", "must differ from the current schedule")
	}

	dept := utils.SanitizeInput(in.Department)
	if dept == "" {
		dept = department
	}
	req.Department = dept
	req.Subject = utils.SanitizeInput(in.Subject)
	req.CurrentPeriod = utils.SanitizeInput(in.CurrentPeriod)
	req.RequestedPeriod = utils.SanitizeInput(in.RequestedPeriod)
	req.CurrentSchedule = current
	req.RequestedSchedule = requested
	req.Reason = utils.SanitizeInput(in.Reason)
	return nil
}
