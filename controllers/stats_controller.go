package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// StatsController reports site-wide counters.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns table totals and today's page views. A failing count reads as 0
// rather than failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	db := s.db.WithContext(ctx.Request.Context())
	count := func(model interface{}) int64 {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			utils.Sugar.Warnf("stats count %T: %v", model, err)
			return 0
		}
		return n
	}

	var views int64
	if err := db.Model(&models.PageView{}).
		Where("date >= ?", models.Day(time.Now())).
		Select("COALESCE(SUM(count),0)").
		Scan(&views).Error; err != nil {
		views = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":       count(&models.User{}),
		"group_count":      count(&models.Group{}),
		"post_count":       count(&models.Post{}),
		"comment_count":    count(&models.Comment{}),
		"follow_count":     count(&models.Follow{}),
		"page_views_today": views,
	})
}
