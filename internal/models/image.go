package models

import "time"

// ImageMetadata describes an uploaded image. The blob itself lives in
// object storage under StorageKey; only the metadata is persisted here.
type ImageMetadata struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	FileName    string    `gorm:"size:255;not null" json:"fileName"`
	ContentType string    `gorm:"size:100;not null" json:"contentType"`
	SizeBytes   int64     `gorm:"not null;default:0" json:"sizeBytes"`
	StorageKey  string    `gorm:"size:64;not null;uniqueIndex" json:"storageKey"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName pins the relational table name, which would otherwise depend
// on how "metadata" pluralizes.
func (ImageMetadata) TableName() string { return "images" }
