package models

import "time"

// Subject represents a course taught by a department.
type Subject struct {
	SubjectID  uint      `gorm:"primaryKey;column:subject_id" json:"subject_id"`
	Code       string    `gorm:"column:code;type:varchar(30);uniqueIndex" json:"code"`
	Name       string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Department string    `gorm:"column:department;type:varchar(120);not null;index" json:"department"`
	Credits    int       `gorm:"column:credits;not null" json:"credits"`
	Semester   int       `gorm:"column:semester;not null" json:"semester"`
	FacultyID  *uint     `gorm:"column:faculty_id" json:"faculty_id,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Faculty *User `gorm:"foreignKey:FacultyID;references:UserID" json:"faculty,omitempty"`
}

func (Subject) TableName() string { return "subjects" }
