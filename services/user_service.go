package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"faculty-management-api/config"
	"faculty-management-api/models"
	"faculty-management-api/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateUserInput is the admin form for a new account.
type CreateUserInput struct {
	FirstName   string  `json:"first_name" binding:"required,max=100"`
	LastName    string  `json:"last_name" binding:"required,max=100"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	Role        string  `json:"role" binding:"required,role"`
	Department  string  `json:"department" binding:"max=120"`
	Designation *string `json:"designation" binding:"omitempty,max=120"`
	Phone       *string `json:"phone" binding:"omitempty,max=40"`
}

// UpdateUserInput is a partial admin update; nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Role        *string `json:"role" binding:"omitempty,role"`
	Department  *string `json:"department" binding:"omitempty,max=120"`
	Designation *string `json:"designation" binding:"omitempty,max=120"`
	Phone       *string `json:"phone" binding:"omitempty,max=40"`
	IsActive    *bool   `json:"is_active"`
}

// ProfileInput is what users may change about themselves.
type ProfileInput struct {
	FirstName       *string `json:"first_name" binding:"omitempty,max=100"`
	LastName        *string `json:"last_name" binding:"omitempty,max=100"`
	Designation     *string `json:"designation" binding:"omitempty,max=120"`
	Phone           *string `json:"phone" binding:"omitempty,max=40"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,max=512"`
}

// UserFilter narrows the admin user list.
type UserFilter struct {
	RoleID     int
	Department string
	Search     string
	Limit      int
	Offset     int
}

type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	if db == nil {
		db = config.DB
	}
	return &UserService{db: db, now: time.Now}
}

func (s *UserService) active(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("delete_at IS NULL")
}

// Authenticate checks an email/password pair against an active account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.active(ctx).
		Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FindUser loads an active account by id.
func (s *UserService) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.active(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	page := ListFilter{Limit: f.Limit, Offset: f.Offset}.normalized()

	q := s.active(ctx)
	if f.RoleID > 0 {
		q = q.Where("role_id = ?", f.RoleID)
	}
	if d := strings.TrimSpace(f.Department); d != "" {
		q = q.Where("department = ?", d)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("(first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := q.Order("first_name ASC, last_name ASC").Limit(page.Limit).Offset(page.Offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if ok, msg := utils.ValidatePassword(in.Password); !ok {
		return nil, invalid("password", "%s", msg)
	}
	roleID, _ := models.RoleIDByName(in.Role)
	department := utils.SanitizeInput(in.Department)
	if (roleID == models.RoleFaculty || roleID == models.RoleDean) && department == "" {
		return nil, invalid("department", "is required for faculty and deans")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		FirstName:   utils.SanitizeInput(in.FirstName),
		LastName:    utils.SanitizeInput(in.LastName),
		Email:       email,
		Password:    hash,
		RoleID:      roleID,
		Department:  department,
		Designation: optionalString(in.Designation),
		Phone:       optionalString(in.Phone),
		IsActive:    true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	user, err := s.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := map[string]interface{}{}
	if in.FirstName != nil {
		cols["first_name"] = utils.SanitizeInput(*in.FirstName)
	}
	if in.LastName != nil {
		cols["last_name"] = utils.SanitizeInput(*in.LastName)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		cols["email"] = email
	}
	if in.Role != nil {
		roleID, _ := models.RoleIDByName(*in.Role)
		cols["role_id"] = roleID
	}
	if in.Department != nil {
		cols["department"] = utils.SanitizeInput(*in.Department)
	}
	if in.Designation != nil {
		cols["designation"] = optionalString(in.Designation)
	}
	if in.Phone != nil {
		cols["phone"] = optionalString(in.Phone)
	}
	if in.IsActive != nil {
		cols["is_active"] = *in.IsActive
	}
	if len(cols) == 0 {
		return user, nil
	}
	cols["update_at"] = s.now()

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", id).Updates(cols).Error; err != nil {
		return nil, err
	}
	return s.FindUser(ctx, id)
}

// UpdateProfile applies a self-service profile change.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	cols := map[string]interface{}{"update_at": s.now()}
	if in.FirstName != nil {
		cols["first_name"] = utils.SanitizeInput(*in.FirstName)
	}
	if in.LastName != nil {
		cols["last_name"] = utils.SanitizeInput(*in.LastName)
	}
	if in.Designation != nil {
		cols["designation"] = optionalString(in.Designation)
	}
	if in.Phone != nil {
		cols["phone"] = optionalString(in.Phone)
	}
	if in.ProfileImageURL != nil {
		cols["profile_image_url"] = optionalString(in.ProfileImageURL)
	}
	if err := s.active(ctx).Where("user_id = ?", id).Updates(cols).Error; err != nil {
		return nil, err
	}
	return s.FindUser(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.FindUser(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(current, user.Password) {
		return invalid("current_password", "is incorrect")
	}
	if ok, msg := utils.ValidatePassword(next); !ok {
		return invalid("new_password", "%s", msg)
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{"password": hash, "update_at": s.now()}).Error
}

// Delete soft-deletes an account. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, admin Viewer, id uint) error {
	if admin.UserID == id {
		return invalid("user_id", "you cannot delete your own account")
	}
	now := s.now()
	res := s.active(ctx).Where("user_id = ?", id).
		Updates(map[string]interface{}{"delete_at": now, "is_active": false, "update_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("user")
	}
	config.Log.Warn("user deleted", zap.Uint("user_id", id), zap.Uint("admin_id", admin.UserID))
	return nil
}

// Reviewers returns the accounts that review requests of kind from department.
func (s *UserService) Reviewers(ctx context.Context, kind models.RequestKind, department string) ([]models.User, error) {
	q := s.active(ctx).Where("is_active = ?", true)
	if kind == models.KindFacultyApplication {
		q = q.Where("(role_id = ? OR (role_id = ? AND department = ?))", models.RoleAdmin, models.RoleDean, department)
	} else {
		q = q.Where("role_id = ? AND department = ?", models.RoleDean, department)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, except uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if except > 0 {
		q = q.Where("user_id <> ?", except)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return invalid("email", "is already registered")
	}
	return nil
}
