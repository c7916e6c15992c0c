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

// PublicationInput is the editable part of a publication record.
type PublicationInput struct {
	Title           string  `json:"title" binding:"required,max=500"`
	Authors         *string `json:"authors"`
	Journal         *string `json:"journal" binding:"omitempty,max=255"`
	PublicationType string  `json:"publication_type" binding:"omitempty,pubtype"`
	PublicationDate *string `json:"publication_date" binding:"omitempty,date"`
	DOI             *string `json:"doi" binding:"omitempty,max=255"`
	URL             *string `json:"url" binding:"omitempty,max=512"`
}

// publicationFlow maps each status to its only successor.
var publicationFlow = map[models.PublicationStatus]models.PublicationStatus{
	models.PublicationDraft:     models.PublicationSubmitted,
	models.PublicationSubmitted: models.PublicationAccepted,
	models.PublicationAccepted:  models.PublicationPublished,
}

// NextPublicationStatus reports whether to directly follows from.
func NextPublicationStatus(from, to models.PublicationStatus) bool {
	next, ok := publicationFlow[from]
	return ok && next == to
}

type PublicationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPublicationService(db *gorm.DB) *PublicationService {
	if db == nil {
		db = config.DB
	}
	return &PublicationService{db: db, now: time.Now}
}

func (s *PublicationService) Create(ctx context.Context, viewer Viewer, in PublicationInput) (*models.Publication, error) {
	pub := &models.Publication{
		UserID:     viewer.UserID,
		Department: viewer.Department,
		Status:     models.PublicationDraft,
	}
	if err := fillPublication(pub, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(pub).Error; err != nil {
		return nil, err
	}
	return pub, nil
}

// List returns publications visible to the viewer, newest first.
func (s *PublicationService) List(ctx context.Context, viewer Viewer, status string, limit, offset int) ([]models.Publication, int64, error) {
	scope, err := PublicationScope(viewer)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, scope, status, limit, offset)
}

func (s *PublicationService) ListMine(ctx context.Context, viewer Viewer, status string, limit, offset int) ([]models.Publication, int64, error) {
	return s.list(ctx, OwnScope(viewer), status, limit, offset)
}

func (s *PublicationService) list(ctx context.Context, scope Scope, status string, limit, offset int) ([]models.Publication, int64, error) {
	f := ListFilter{Limit: limit, Offset: offset}.normalized()

	q := scope.Apply(s.db.WithContext(ctx).Model(&models.Publication{}), "user_id", "department")
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pubs []models.Publication
	if err := q.Order("publication_date DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&pubs).Error; err != nil {
		return nil, 0, err
	}
	return pubs, total, nil
}

// Get loads a publication the viewer may see; anything else is not found.
func (s *PublicationService) Get(ctx context.Context, viewer Viewer, id uint) (*models.Publication, error) {
	pub, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if pub.UserID == viewer.UserID {
		return pub, nil
	}
	scope, err := PublicationScope(viewer)
	if err != nil || !scope.Matches(&pub.UserID, pub.Department) {
		return nil, notFound("publication")
	}
	return pub, nil
}

func (s *PublicationService) Update(ctx context.Context, viewer Viewer, id uint, in PublicationInput) (*models.Publication, error) {
	pub, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if pub.Status == models.PublicationPublished {
		return nil, transitionError(pub.Status, "edit")
	}
	if err := fillPublication(pub, in); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.Publication{}).
		Where("id = ? AND status = ?", pub.ID, pub.Status).
		Updates(map[string]interface{}{
			"title":            pub.Title,
			"authors":          pub.Authors,
			"journal":          pub.Journal,
			"publication_type": pub.PublicationType,
			"publication_date": pub.PublicationDate,
			"doi":              pub.DOI,
			"url":              pub.URL,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	return pub, nil
}

// ChangeStatus moves the owner's publication one step along
// draft -> submitted -> accepted -> published.
func (s *PublicationService) ChangeStatus(ctx context.Context, viewer Viewer, id uint, to models.PublicationStatus) (*models.Publication, error) {
	pub, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	from := pub.Status
	if !NextPublicationStatus(from, to) {
		return nil, transitionError(from, to)
	}

	res := s.db.WithContext(ctx).Model(&models.Publication{}).
		Where("id = ? AND status = ?", pub.ID, from).
		Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	pub.Status = to
	return pub, nil
}

// Verify sets the verification flag. Only researchers and administrators verify.
func (s *PublicationService) Verify(ctx context.Context, viewer Viewer, id uint, verified bool) (*models.Publication, error) {
	if !viewer.Is(models.RoleResearcher, models.RoleAdmin) {
		return nil, ErrForbidden
	}
	pub, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := map[string]interface{}{"is_verified": verified}
	if verified {
		now := s.now()
		by := viewer.UserID
		pub.VerifiedAt, pub.VerifiedBy = &now, &by
	} else {
		pub.VerifiedAt, pub.VerifiedBy = nil, nil
	}
	cols["verified_at"] = pub.VerifiedAt
	cols["verified_by"] = pub.VerifiedBy
	pub.IsVerified = verified

	if err := s.db.WithContext(ctx).Model(&models.Publication{}).Where("id = ?", id).Updates(cols).Error; err != nil {
		return nil, err
	}
	config.Log.Info("publication verification changed",
		zap.Uint("publication_id", id),
		zap.Bool("verified", verified),
		zap.Uint("by", viewer.UserID))
	return pub, nil
}

// Delete soft-deletes a publication. Owners may delete until it is published;
// administrators may delete any.
func (s *PublicationService) Delete(ctx context.Context, viewer Viewer, id uint) error {
	pub, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !viewer.Is(models.RoleAdmin) {
		if pub.UserID != viewer.UserID {
			return ErrForbidden
		}
		if pub.Status == models.PublicationPublished {
			return transitionError(pub.Status, "delete")
		}
	}
	return s.db.WithContext(ctx).Delete(&models.Publication{}, id).Error
}

func (s *PublicationService) find(ctx context.Context, id uint) (*models.Publication, error) {
	var pub models.Publication
	if err := s.db.WithContext(ctx).First(&pub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("publication")
		}
		return nil, err
	}
	return &pub, nil
}

func (s *PublicationService) owned(ctx context.Context, viewer Viewer, id uint) (*models.Publication, error) {
	pub, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if pub.UserID != viewer.UserID {
		return nil, ErrForbidden
	}
	return pub, nil
}

func fillPublication(pub *models.Publication, in PublicationInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	date, err := parseOptionalDate("publication_date", in.PublicationDate)
	if err != nil {
		return err
	}
	pubType := strings.ToLower(strings.TrimSpace(in.PublicationType))
	if pubType == "" {
		pubType = "journal"
	}

	pub.Title = utils.SanitizeInput(in.Title)
	pub.Authors = optionalString(in.Authors)
	pub.Journal = optionalString(in.Journal)
	pub.PublicationType = pubType
	pub.PublicationDate = date
	pub.DOI = optionalString(in.DOI)
	pub.URL = optionalString(in.URL)
	return nil
}
