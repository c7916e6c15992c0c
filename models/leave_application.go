package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Leave types accepted by the apply endpoint.
const (
	LeaveTypeAnnual    = "annual"
	LeaveTypeSick      = "sick"
	LeaveTypePersonal  = "personal"
	LeaveTypeMaternity = "maternity"
	LeaveTypeAcademic  = "academic"
	LeaveTypeOther     = "other"
)

var LeaveTypes = []string{
	LeaveTypeAnnual, LeaveTypeSick, LeaveTypePersonal,
	LeaveTypeMaternity, LeaveTypeAcademic, LeaveTypeOther,
}

type LeaveApplication struct {
	ID        string    `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	LeaveType string    `gorm:"column:leave_type;type:varchar(30);not null" json:"leave_type"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null" json:"end_date"`
	Duration  int       `gorm:"column:duration;not null" json:"duration"`
	Reason    string    `gorm:"column:reason;type:text" json:"reason"`

	ReviewState

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Submitter *User `gorm:"foreignKey:SubmitterID;references:UserID" json:"submitter,omitempty"`
}

func (LeaveApplication) TableName() string { return "leave_applications" }

func (l *LeaveApplication) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l *LeaveApplication) GetID() string            { return l.ID }
func (l *LeaveApplication) RequestKind() RequestKind { return KindLeave }
func (l *LeaveApplication) State() *ReviewState      { return &l.ReviewState }

// ApplyDecision rejects any decision data; leave reviews carry notes only.
func (l *LeaveApplication) ApplyDecision(_ RequestStatus, extra map[string]string) (map[string]interface{}, error) {
	for key := range extra {
		return nil, fmt.Errorf("unsupported decision field %q", key)
	}
	return map[string]interface{}{}, nil
}

// InclusiveDays counts calendar days from start to end, both included.
// The result is zero or negative when end precedes start.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
