package models

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ReviewHistory tracks historical status changes for every request kind.
type ReviewHistory struct {
	HistoryID   uint          `gorm:"primaryKey;column:history_id" json:"history_id"`
	Kind        RequestKind   `gorm:"column:kind;type:varchar(40);not null;index:idx_history_request" json:"kind"`
	RequestID   string        `gorm:"column:request_id;type:char(36);not null;index:idx_history_request" json:"request_id"`
	OldStatus   RequestStatus `gorm:"column:old_status;type:varchar(20);not null" json:"old_status"`
	NewStatus   RequestStatus `gorm:"column:new_status;type:varchar(20);not null" json:"new_status"`
	ChangedBy   uint          `gorm:"column:changed_by;not null" json:"changed_by"`
	ReviewNotes *string       `gorm:"column:review_notes;type:text" json:"review_notes"`
	CreatedAt   time.Time     `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for ReviewHistory.
func (ReviewHistory) TableName() string {
	return "request_review_history"
}
