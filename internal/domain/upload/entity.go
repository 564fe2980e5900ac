// internal/domain/upload/entity.go
package upload

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile represents a product image pinned to IPFS
type UploadedFile struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OriginalName string `gorm:"not null;size:255" json:"original_name"`
	CID          string `gorm:"not null;size:128;uniqueIndex" json:"cid"`
	GatewayURL   string `gorm:"not null;size:500" json:"gateway_url"`
	MimeType     string `gorm:"not null;size:100" json:"mime_type"`
	Size         int64  `gorm:"not null" json:"size"`
	PinSize      int64  `json:"pin_size"`
	UploadedBy   string `gorm:"size:255;index" json:"uploaded_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (UploadedFile) TableName() string { return "uploaded_files" }

// IsImage checks if the file is an image
func (f *UploadedFile) IsImage() bool {
	imageTypes := []string{
		"image/jpeg", "image/png", "image/gif",
		"image/webp", "image/svg+xml",
	}

	for _, imageType := range imageTypes {
		if f.MimeType == imageType {
			return true
		}
	}
	return false
}
