package models

import "time"

// RequestStatus is the lifecycle state of a reviewable request.
type RequestStatus string

const (
	StatusPending     RequestStatus = "pending"
	StatusApproved    RequestStatus = "approved"
	StatusRejected    RequestStatus = "rejected"
	StatusUnderReview RequestStatus = "under-review"
	StatusShortlisted RequestStatus = "shortlisted"
	StatusHired       RequestStatus = "hired"
)

// RequestKind identifies which workflow a request belongs to.
type RequestKind string

const (
	KindLeave              RequestKind = "leave"
	KindScheduleChange     RequestKind = "schedule-change"
	KindFacultyApplication RequestKind = "faculty-application"
)

// ReviewState holds the columns every reviewable request shares.
// SubmitterID is nil for faculty applications sent by public candidates.
type ReviewState struct {
	Status              RequestStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`
	SubmitterID         *uint         `gorm:"column:submitter_id;index" json:"submitter_id"`
	SubmitterDepartment string        `gorm:"column:submitter_department;type:varchar(120);index" json:"submitter_department"`
	SubmittedAt         time.Time     `gorm:"column:submitted_at;not null" json:"submitted_at"`
	ReviewedBy          *uint         `gorm:"column:reviewed_by" json:"reviewed_by"`
	ReviewedAt          *time.Time    `gorm:"column:reviewed_at" json:"reviewed_at"`
	ReviewNotes         *string       `gorm:"column:review_notes;type:text" json:"review_notes"`
}

// IsOwnedBy reports whether userID submitted the request.
func (s *ReviewState) IsOwnedBy(userID uint) bool {
	return s.SubmitterID != nil && *s.SubmitterID == userID
}

// Reviewable is implemented by the request kinds driven by the workflow engine.
type Reviewable interface {
	GetID() string
	RequestKind() RequestKind
	State() *ReviewState
	// ApplyDecision copies kind-specific decision data onto the entity and
	// returns the columns it touched. to is the status being entered.
	ApplyDecision(to RequestStatus, extra map[string]string) (map[string]interface{}, error)
}
