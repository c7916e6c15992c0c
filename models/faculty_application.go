package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FacultyApplication is a job application for a faculty position.
type FacultyApplication struct {
	ID              string     `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	FirstName       string     `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName        string     `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	Email           string     `gorm:"column:email;type:varchar(255);not null;index" json:"email"`
	Phone           string     `gorm:"column:phone;type:varchar(40)" json:"phone"`
	Department      string     `gorm:"column:department;type:varchar(120);not null" json:"department"`
	Position        string     `gorm:"column:position;type:varchar(120);not null" json:"position"`
	HighestDegree   string     `gorm:"column:highest_degree;type:varchar(120)" json:"highest_degree"`
	Specialization  string     `gorm:"column:specialization;type:varchar(200)" json:"specialization"`
	ExperienceYears int        `gorm:"column:experience_years" json:"experience_years"`
	CoverLetter     string     `gorm:"column:cover_letter;type:text" json:"cover_letter"`
	ResumeURL       string     `gorm:"column:resume_url;type:varchar(512);not null" json:"resume_url"`
	InterviewDate   *time.Time `gorm:"column:interview_date;type:date" json:"interview_date"`

	ReviewState

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FacultyApplication) TableName() string { return "faculty_applications" }

func (a *FacultyApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *FacultyApplication) GetID() string            { return a.ID }
func (a *FacultyApplication) RequestKind() RequestKind { return KindFacultyApplication }
func (a *FacultyApplication) State() *ReviewState      { return &a.ReviewState }

// ApplyDecision accepts interview_date (YYYY-MM-DD) when shortlisting only.
func (a *FacultyApplication) ApplyDecision(to RequestStatus, extra map[string]string) (map[string]interface{}, error) {
	cols := map[string]interface{}{}
	for key, value := range extra {
		switch key {
		case "interview_date":
			v := strings.TrimSpace(value)
			if v == "" {
				continue
			}
			if to != StatusShortlisted {
				return nil, fmt.Errorf("interview_date is only accepted when shortlisting")
			}
			d, err := time.Parse(DateLayout, v)
			if err != nil {
				return nil, fmt.Errorf("interview_date must be YYYY-MM-DD")
			}
			a.InterviewDate = &d
			cols["interview_date"] = d
		default:
			return nil, fmt.Errorf("unsupported decision field %q", key)
		}
	}
	return cols, nil
}

// FullName joins first and last name.
func (a *FacultyApplication) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
