package models

import "time"

// MediaFile records a stored upload so images no longer referenced by any post can be swept.
type MediaFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FilePath  string    `gorm:"size:1024;not null" json:"file_path"`
	URL       string    `gorm:"size:512;not null;index" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
