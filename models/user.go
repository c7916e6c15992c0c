package models

import (
	"strings"
	"time"
)

// Role IDs as stored in users.role_id.
const (
	RoleFaculty    = 1
	RoleResearcher = 2
	RoleAdmin      = 3
	RoleDean       = 4
	RoleVC         = 5
)

var roleNames = map[int]string{
	RoleFaculty:    "faculty",
	RoleResearcher: "researcher",
	RoleAdmin:      "admin",
	RoleDean:       "dean",
	RoleVC:         "vc",
}

// RoleName returns the short role name, or "" for unknown IDs.
func RoleName(roleID int) string {
	return roleNames[roleID]
}

// RoleIDByName resolves a role name (case-insensitive) to its ID.
func RoleIDByName(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for id, n := range roleNames {
		if n == key {
			return id, true
		}
	}
	return 0, false
}

type User struct {
	UserID          uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName       string     `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName        string     `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Email           string     `gorm:"column:email;type:varchar(255);unique" json:"email"`
	Password        string     `gorm:"column:password" json:"-"`
	RoleID          int        `gorm:"column:role_id;not null" json:"role_id"`
	Department      string     `gorm:"column:department;type:varchar(120);index" json:"department"`
	Designation     *string    `gorm:"column:designation;type:varchar(120)" json:"designation,omitempty"`
	Phone           *string    `gorm:"column:phone;type:varchar(40)" json:"phone,omitempty"`
	ProfileImageURL *string    `gorm:"column:profile_image_url;type:varchar(512)" json:"profile_image_url,omitempty"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

// RoleName returns the user's short role name.
func (u *User) RoleName() string {
	return RoleName(u.RoleID)
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
