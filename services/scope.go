package services

import (
	"strings"

	"faculty-management-api/models"

	"gorm.io/gorm"
)

// Viewer is the authenticated caller as resolved by the auth middleware.
type Viewer struct {
	UserID     uint
	RoleID     int
	Department string
}

func (v Viewer) Is(roleIDs ...int) bool {
	for _, id := range roleIDs {
		if v.RoleID == id {
			return true
		}
	}
	return false
}

// Scope is the row predicate a viewer may list or read.
// The zero value matches nothing.
type Scope struct {
	All        bool
	OwnerID    *uint
	Department *string
}

func ownerScope(userID uint) Scope {
	id := userID
	return Scope{OwnerID: &id}
}

func departmentScope(dept string) Scope {
	d := dept
	return Scope{Department: &d}
}

// ScopeFor returns which requests of kind the viewer may see.
// Researchers have no access to request kinds.
func ScopeFor(v Viewer, kind models.RequestKind) (Scope, error) {
	switch v.RoleID {
	case models.RoleAdmin, models.RoleVC:
		return Scope{All: true}, nil
	case models.RoleDean:
		if strings.TrimSpace(v.Department) == "" {
			return Scope{}, ErrForbidden
		}
		return departmentScope(v.Department), nil
	case models.RoleFaculty:
		return ownerScope(v.UserID), nil
	}
	return Scope{}, ErrForbidden
}

// OwnScope restricts to records the viewer submitted, whatever the role.
func OwnScope(v Viewer) Scope {
	return ownerScope(v.UserID)
}

// PublicationScope returns which publications the viewer may see.
func PublicationScope(v Viewer) (Scope, error) {
	switch v.RoleID {
	case models.RoleAdmin, models.RoleVC, models.RoleResearcher:
		return Scope{All: true}, nil
	case models.RoleDean:
		if strings.TrimSpace(v.Department) == "" {
			return Scope{}, ErrForbidden
		}
		return departmentScope(v.Department), nil
	case models.RoleFaculty:
		return ownerScope(v.UserID), nil
	}
	return Scope{}, ErrForbidden
}

// Apply adds the predicate to q using the given owner and department columns.
func (s Scope) Apply(q *gorm.DB, ownerCol, deptCol string) *gorm.DB {
	if s.All {
		return q
	}
	if s.OwnerID == nil && s.Department == nil {
		return q.Where("1 = 0")
	}
	if s.OwnerID != nil {
		q = q.Where(ownerCol+" = ?", *s.OwnerID)
	}
	if s.Department != nil {
		q = q.Where(deptCol+" = ?", *s.Department)
	}
	return q
}

// ApplyRequests applies the predicate to a reviewable request table.
func (s Scope) ApplyRequests(q *gorm.DB) *gorm.DB {
	return s.Apply(q, "submitter_id", "submitter_department")
}

// Matches evaluates the predicate against one owner/department pair.
func (s Scope) Matches(ownerID *uint, department string) bool {
	if s.All {
		return true
	}
	if s.OwnerID == nil && s.Department == nil {
		return false
	}
	if s.OwnerID != nil && (ownerID == nil || *ownerID != *s.OwnerID) {
		return false
	}
	if s.Department != nil && department != *s.Department {
		return false
	}
	return true
}

// MatchesState evaluates the predicate against a request's review state.
func (s Scope) MatchesState(st *models.ReviewState) bool {
	return s.Matches(st.SubmitterID, st.SubmitterDepartment)
}

// CanReview checks the reviewer may decide on a request of kind.
// Nobody reviews their own request.
func CanReview(v Viewer, kind models.RequestKind, st *models.ReviewState) error {
	if st.IsOwnedBy(v.UserID) {
		return ErrForbidden
	}
	switch v.RoleID {
	case models.RoleAdmin, models.RoleVC:
		return nil
	case models.RoleDean:
		switch kind {
		case models.KindLeave, models.KindScheduleChange, models.KindFacultyApplication:
			if v.Department != "" && st.SubmitterDepartment == v.Department {
				return nil
			}
		}
	}
	return ErrForbidden
}

// EventVisible reports whether the viewer may receive evt on a live stream.
// It applies the same rule as listing the request.
func EventVisible(v Viewer, evt Event) bool {
	if evt.SubmitterID != nil && *evt.SubmitterID == v.UserID {
		return true
	}
	scope, err := ScopeFor(v, evt.Kind)
	if err != nil {
		return false
	}
	return scope.Matches(evt.SubmitterID, evt.Department)
}
