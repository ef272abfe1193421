package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// skipped paths never count as page views
var pvSkipPrefixes = []string{"/api/", "/admin/", "/auth/", "/media/", "/metrics", "/health"}

// PageViewRecorder counts successful GET page views per day and path.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet {
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range pvSkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		now := time.Now()
		// upsert keeps concurrent hits on the same (date, path) from colliding
		err := db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": now}),
		}).Create(&models.PageView{Date: models.Day(now), Path: path, Count: 1}).Error
		if err != nil {
			utils.Sugar.Debugf("record page view %s: %v", path, err)
		}
	}
}
