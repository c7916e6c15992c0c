package services

import (
	"context"
	"strings"

	"faculty-management-api/models"
	"faculty-management-api/utils"

	"github.com/google/uuid"
)

// LeaveInput is the body of POST /leaves/apply and PUT /leaves/:id.
type LeaveInput struct {
	LeaveType string `json:"leave_type" binding:"required,leavetype"`
	StartDate string `json:"start_date" binding:"required,date"`
	EndDate   string `json:"end_date" binding:"required,date"`
	Reason    string `json:"reason" binding:"required,max=2000"`
}

type LeaveService struct {
	*RequestEngine[models.LeaveApplication, *models.LeaveApplication]
}

func NewLeaveService(store RequestStore[models.LeaveApplication], workflows Workflows, events EventPublisher) *LeaveService {
	return &LeaveService{
		RequestEngine: NewRequestEngine[models.LeaveApplication](store, workflows[models.KindLeave], events),
	}
}

// Apply creates a pending leave application for the viewer.
func (s *LeaveService) Apply(ctx context.Context, viewer Viewer, in LeaveInput) (*models.LeaveApplication, error) {
	if strings.TrimSpace(viewer.Department) == "" {
		return nil, invalid("department", "your profile has no department")
	}
	leave := &models.LeaveApplication{ID: uuid.NewString()}
	if err := fillLeave(leave, in); err != nil {
		return nil, err
	}
	if err := s.submit(ctx, leave, &viewer, viewer.Department); err != nil {
		return nil, err
	}
	return leave, nil
}

// Update edits a pending application; only its submitter may do so.
func (s *LeaveService) Update(ctx context.Context, viewer Viewer, id string, in LeaveInput) (*models.LeaveApplication, error) {
	leave, err := s.ownedPending(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := fillLeave(leave, in); err != nil {
		return nil, err
	}
	err = s.updatePending(ctx, leave, map[string]interface{}{
		"leave_type": leave.LeaveType,
		"start_date": leave.StartDate,
		"end_date":   leave.EndDate,
		"duration":   leave.Duration,
		"reason":     leave.Reason,
	})
	if err != nil {
		return nil, err
	}
	return leave, nil
}

func fillLeave(leave *models.LeaveApplication, in LeaveInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	duration := models.InclusiveDays(start, end)
	if duration < 1 {
		return invalid("end_date", "must not be before start_date")
	}

	leave.LeaveType = strings.ToLower(strings.TrimSpace(in.LeaveType))
	leave.StartDate = start
	leave.EndDate = end
	leave.Duration = duration
	leave.Reason = utils.SanitizeInput(in.Reason)
	return nil
}
