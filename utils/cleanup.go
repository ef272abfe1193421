package utils

import (
	"context"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

// StartMediaSweeper periodically removes stored images that no post references
// any more (replaced on edit, cleared, or whose post was deleted).
func StartMediaSweeper(ctx context.Context, db *gorm.DB, interval, grace time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := SweepOrphanMedia(ctx, db, grace); err != nil {
					Sugar.Warnf("media sweep failed: %v", err)
				} else if n > 0 {
					Sugar.Infof("media sweep removed %d orphaned files", n)
				}
			}
		}
	}()
}

// SweepOrphanMedia deletes media rows and files older than grace that no post uses.
// Fresh uploads are kept for grace so a post being saved is never raced.
func SweepOrphanMedia(ctx context.Context, db *gorm.DB, grace time.Duration) (int, error) {
	used := db.Model(&models.Post{}).Select("image").Where("image <> ''")
	var items []models.MediaFile
	err := db.WithContext(ctx).
		Where("created_at <= ?", time.Now().Add(-grace)).
		Where("url NOT IN (?)", used).
		Limit(100).
		Find(&items).Error
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, it := range items {
		if err := os.Remove(it.FilePath); err != nil && !os.IsNotExist(err) {
			Sugar.Warnf("remove %s: %v", it.FilePath, err)
			continue
		}
		if err := db.WithContext(ctx).Delete(&models.MediaFile{}, it.ID).Error; err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
