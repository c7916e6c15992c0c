package services

import (
	"context"
	"strings"

	"faculty-management-api/config"
	"faculty-management-api/models"
	"faculty-management-api/utils"

	"gorm.io/gorm"
)

type GalleryInput struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description"`
	ImageURL    string  `json:"image_url" binding:"required,max=512"`
	Category    string  `json:"category" binding:"max=60"`
}

type GalleryService struct {
	db *gorm.DB
}

func NewGalleryService(db *gorm.DB) *GalleryService {
	if db == nil {
		db = config.DB
	}
	return &GalleryService{db: db}
}

// List is public.
func (s *GalleryService) List(ctx context.Context, category string, limit, offset int) ([]models.GalleryImage, int64, error) {
	page := ListFilter{Limit: limit, Offset: offset}.normalized()

	q := s.db.WithContext(ctx).Model(&models.GalleryImage{})
	if c := strings.TrimSpace(category); c != "" {
		q = q.Where("category = ?", c)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var images []models.GalleryImage
	if err := q.Order("created_at DESC, image_id DESC").Limit(page.Limit).Offset(page.Offset).Find(&images).Error; err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

func (s *GalleryService) Create(ctx context.Context, uploader Viewer, in GalleryInput) (*models.GalleryImage, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	image := &models.GalleryImage{
		Title:       utils.SanitizeInput(in.Title),
		Description: optionalString(in.Description),
		ImageURL:    utils.SanitizeInput(in.ImageURL),
		Category:    strings.ToLower(utils.SanitizeInput(in.Category)),
		UploadedBy:  uploader.UserID,
	}
	if image.Title == "" {
		return nil, invalid("title", "is required")
	}
	if image.ImageURL == "" {
		return nil, invalid("image_url", "is required")
	}
	if image.Category == "" {
		image.Category = "general"
	}
	if err := s.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func (s *GalleryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.GalleryImage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("gallery image")
	}
	return nil
}
