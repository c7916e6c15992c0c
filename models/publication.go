package models

import (
	"time"

	"gorm.io/gorm"
)

// PublicationStatus is the author-driven lifecycle of a publication record.
type PublicationStatus string

const (
	PublicationDraft     PublicationStatus = "draft"
	PublicationSubmitted PublicationStatus = "submitted"
	PublicationAccepted  PublicationStatus = "accepted"
	PublicationPublished PublicationStatus = "published"
)

var PublicationTypes = []string{"journal", "conference", "book", "chapter", "other"}

type Publication struct {
	ID              uint              `json:"id"                          gorm:"primaryKey;autoIncrement"`
	UserID          uint              `json:"user_id"                     gorm:"not null;index:idx_pub_user"`
	Department      string            `json:"department"                  gorm:"type:varchar(120);index"`
	Title           string            `json:"title"                       gorm:"type:varchar(500);not null"`
	Authors         *string           `json:"authors,omitempty"           gorm:"type:text"`
	Journal         *string           `json:"journal,omitempty"           gorm:"type:varchar(255)"`
	PublicationType string            `json:"publication_type"            gorm:"type:varchar(20);not null;default:'journal'"`
	PublicationDate *time.Time        `json:"publication_date,omitempty"  gorm:"type:date"`
	DOI             *string           `json:"doi,omitempty"               gorm:"type:varchar(255)"`
	URL             *string           `json:"url,omitempty"               gorm:"type:varchar(512)"`
	Status          PublicationStatus `json:"status"                      gorm:"type:varchar(20);not null;default:'draft';index"`
	IsVerified      bool              `json:"is_verified"                 gorm:"type:tinyint(1);not null;default:0"`
	VerifiedBy      *uint             `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time        `json:"verified_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"  gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at"  gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at"  gorm:"column:deleted_at;index"`
}

func (Publication) TableName() string { return "publications" }
