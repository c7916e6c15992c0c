package models

import "time"

type GalleryImage struct {
	ImageID     uint      `gorm:"primaryKey;column:image_id" json:"image_id"`
	Title       string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	ImageURL    string    `gorm:"column:image_url;type:varchar(512);not null" json:"image_url"`
	Category    string    `gorm:"column:category;type:varchar(60);index" json:"category"`
	UploadedBy  uint      `gorm:"column:uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (GalleryImage) TableName() string { return "gallery_images" }
