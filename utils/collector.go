package utils

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

var tableRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "yatube_table_rows",
	Help: "Row count per table.",
}, []string{"table"})

var countedTables = map[string]interface{}{
	"users":    &models.User{},
	"groups":   &models.Group{},
	"posts":    &models.Post{},
	"comments": &models.Comment{},
	"follows":  &models.Follow{},
}

// StartStatsCollector refreshes the yatube_table_rows gauges every interval until ctx ends.
func StartStatsCollector(ctx context.Context, db *gorm.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			CollectTableRows(ctx, db)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// CollectTableRows takes one sample of every counted table.
func CollectTableRows(ctx context.Context, db *gorm.DB) {
	for table, model := range countedTables {
		var n int64
		if err := db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			Sugar.Warnf("count %s: %v", table, err)
			continue
		}
		tableRows.WithLabelValues(table).Set(float64(n))
	}
}
