package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleChangeRequest struct {
	ID                string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	Department        string  `gorm:"column:department;type:varchar(120);not null" json:"department"`
	Subject           string  `gorm:"column:subject;type:varchar(200);not null" json:"subject"`
	CurrentPeriod     string  `gorm:"column:current_period;type:varchar(60)" json:"current_period"`
	RequestedPeriod   string  `gorm:"column:requested_period;type:varchar(60)" json:"requested_period"`
	CurrentSchedule   string  `gorm:"column:current_schedule;type:varchar(255);not null" json:"current_schedule"`
	RequestedSchedule string  `gorm:"column:requested_schedule;type:varchar(255);not null" json:"requested_schedule"`
	Reason            string  `gorm:"column:reason;type:text;not null" json:"reason"`
	ApprovedSchedule  *string `gorm:"column:approved_schedule;type:varchar(255)" json:"approved_schedule"`

	ReviewState

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Submitter *User `gorm:"foreignKey:SubmitterID;references:UserID" json:"submitter,omitempty"`
}

func (ScheduleChangeRequest) TableName() string { return "schedule_change_requests" }

func (r *ScheduleChangeRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *ScheduleChangeRequest) GetID() string            { return r.ID }
func (r *ScheduleChangeRequest) RequestKind() RequestKind { return KindScheduleChange }
func (r *ScheduleChangeRequest) State() *ReviewState      { return &r.ReviewState }

// ApplyDecision accepts approved_schedule, the slot the reviewer actually
// granted, on approval only.
func (r *ScheduleChangeRequest) ApplyDecision(to RequestStatus, extra map[string]string) (map[string]interface{}, error) {
	cols := map[string]interface{}{}
	for key, value := range extra {
		switch key {
		case "approved_schedule":
			v := strings.TrimSpace(value)
			if v == "" {
				continue
			}
			if to != StatusApproved {
				return nil, fmt.Errorf("approved_schedule is only accepted on approval")
			}
			r.ApprovedSchedule = &v
			cols["approved_schedule"] = v
		default:
			return nil, fmt.Errorf("unsupported decision field %q", key)
		}
	}
	return cols, nil
}
