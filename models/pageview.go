package models

import "time"

// PageView counts successful loads of one path during one local day.
type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_page_views_day_path,priority:1" json:"date"`
	Path      string    `gorm:"size:255;not null;uniqueIndex:idx_page_views_day_path,priority:2" json:"path"`
	Count     int64     `gorm:"not null;default:1" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day truncates t to local midnight, the bucket page views are counted in.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
