package services

import (
	"context"
	"errors"
	"strings"

	"faculty-management-api/config"
	"faculty-management-api/models"
	"faculty-management-api/utils"

	"gorm.io/gorm"
)

type SubjectInput struct {
	Code       string `json:"code" binding:"required,max=30"`
	Name       string `json:"name" binding:"required,max=200"`
	Department string `json:"department" binding:"required,max=120"`
	Credits    int    `json:"credits" binding:"required,min=1,max=10"`
	Semester   int    `json:"semester" binding:"required,min=1,max=12"`
	FacultyID  *uint  `json:"faculty_id"`
}

type SubjectService struct {
	db *gorm.DB
}

func NewSubjectService(db *gorm.DB) *SubjectService {
	if db == nil {
		db = config.DB
	}
	return &SubjectService{db: db}
}

func (s *SubjectService) List(ctx context.Context, department string, semester, limit, offset int) ([]models.Subject, int64, error) {
	page := ListFilter{Limit: limit, Offset: offset}.normalized()

	q := s.db.WithContext(ctx).Model(&models.Subject{})
	if d := strings.TrimSpace(department); d != "" {
		q = q.Where("department = ?", d)
	}
	if semester > 0 {
		q = q.Where("semester = ?", semester)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var subjects []models.Subject
	if err := q.Preload("Faculty").Order("code ASC").Limit(page.Limit).Offset(page.Offset).Find(&subjects).Error; err != nil {
		return nil, 0, err
	}
	return subjects, total, nil
}

func (s *SubjectService) Get(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).Preload("Faculty").First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("subject")
		}
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectService) Create(ctx context.Context, in SubjectInput) (*models.Subject, error) {
	subject := &models.Subject{}
	if err := s.fill(ctx, subject, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(subject).Error; err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id uint, in SubjectInput) (*models.Subject, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fill(ctx, subject, in); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.Subject{}).Where("subject_id = ?", id).
		Updates(map[string]interface{}{
			"code":       subject.Code,
			"name":       subject.Name,
			"department": subject.Department,
			"credits":    subject.Credits,
			"semester":   subject.Semester,
			"faculty_id": subject.FacultyID,
		}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SubjectService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Subject{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("subject")
	}
	return nil
}

func (s *SubjectService) fill(ctx context.Context, subject *models.Subject, in SubjectInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	code := strings.ToUpper(utils.SanitizeInput(in.Code))

	var clash int64
	q := s.db.WithContext(ctx).Model(&models.Subject{}).Where("code = ?", code)
	if subject.SubjectID > 0 {
		q = q.Where("subject_id <> ?", subject.SubjectID)
	}
	if err := q.Count(&clash).Error; err != nil {
		return err
	}
	if clash > 0 {
		return invalid("code", "is already in use")
	}

	if in.FacultyID != nil {
		var n int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("user_id = ? AND delete_at IS NULL AND role_id IN ?", *in.FacultyID, []int{models.RoleFaculty, models.RoleDean}).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return invalid("faculty_id", "must reference a faculty member")
		}
	}

	subject.Code = code
	subject.Name = utils.SanitizeInput(in.Name)
	subject.Department = utils.SanitizeInput(in.Department)
	subject.Credits = in.Credits
	subject.Semester = in.Semester
	subject.FacultyID = in.FacultyID
	return nil
}
