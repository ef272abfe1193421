package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/routes"
	"github.com/cppla/yatube/seed"
	"github.com/cppla/yatube/utils"
)

func main() {
	seedDemo := flag.Bool("seed", false, "fill an empty database with demo users, groups and posts")
	flag.Parse()

	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() {
		if err := utils.SyncLogger(); err != nil {
			log.Printf("flush logger: %v", err)
		}
	}()

	db := config.InitDatabase(models.All()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT)
	defer stop()

	if *seedDemo {
		if err := seed.Demo(ctx, db); err != nil {
			utils.Sugar.Fatalf("seed failed: %v", err)
		}
	}

	feed := utils.NewFeedCache(utils.GetRedis(), time.Duration(cfg.FeedCacheSeconds)*time.Second)
	r := routes.SetupRouter(db, feed)

	utils.StartMediaSweeper(ctx, db, time.Duration(cfg.MediaSweepMin)*time.Minute, time.Hour)
	utils.StartStatsCollector(ctx, db, time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.NewServer(":"+cfg.AppPort, r).Run(ctx); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
