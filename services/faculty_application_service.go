package services

import (
	"context"
	"strings"

	"faculty-management-api/models"
	"faculty-management-api/utils"

	"github.com/google/uuid"
)

// FacultyApplicationInput is the public job application form.
type FacultyApplicationInput struct {
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"max=40"`
	Department      string `json:"department" binding:"required,max=120"`
	Position        string `json:"position" binding:"required,max=120"`
	HighestDegree   string `json:"highest_degree" binding:"max=120"`
	Specialization  string `json:"specialization" binding:"max=200"`
	ExperienceYears int    `json:"experience_years" binding:"min=0,max=60"`
	CoverLetter     string `json:"cover_letter" binding:"max=5000"`
	ResumeURL       string `json:"resume_url" binding:"required,max=512"`
}

type FacultyApplicationService struct {
	*RequestEngine[models.FacultyApplication, *models.FacultyApplication]
}

func NewFacultyApplicationService(store RequestStore[models.FacultyApplication], workflows Workflows, events EventPublisher) *FacultyApplicationService {
	return &FacultyApplicationService{
		RequestEngine: NewRequestEngine[models.FacultyApplication](store, workflows[models.KindFacultyApplication], events),
	}
}

// Apply records an application from a candidate without an account. The
// application is scoped to the department it applies to.
func (s *FacultyApplicationService) Apply(ctx context.Context, in FacultyApplicationInput) (*models.FacultyApplication, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	app := &models.FacultyApplication{
		ID:              uuid.NewString(),
		FirstName:       utils.SanitizeInput(in.FirstName),
		LastName:        utils.SanitizeInput(in.LastName),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:           utils.SanitizeInput(in.Phone),
		Department:      utils.SanitizeInput(in.Department),
		Position:        utils.SanitizeInput(in.Position),
		HighestDegree:   utils.SanitizeInput(in.HighestDegree),
		Specialization:  utils.SanitizeInput(in.Specialization),
		ExperienceYears: in.ExperienceYears,
		CoverLetter:     utils.SanitizeInput(in.CoverLetter),
		ResumeURL:       utils.SanitizeInput(in.ResumeURL),
	}
	if app.ResumeURL == "" {
		return nil, invalid("resume_url", "is required")
	}
	if err := s.submit(ctx, app, nil, app.Department); err != nil {
		return nil, err
	}
	return app, nil
}

// Track lets a candidate read their own application by id and email.
func (s *FacultyApplicationService) Track(ctx context.Context, id, email string) (*models.FacultyApplication, error) {
	app, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(app.Email, strings.TrimSpace(email)) {
		return nil, notFound(string(models.KindFacultyApplication))
	}
	return app, nil
}
