package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/agrivest/agrivest-backend/internal/config"
	"github.com/agrivest/agrivest-backend/internal/db"
	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/server"
	"github.com/agrivest/agrivest-backend/internal/storage"
	"github.com/agrivest/agrivest-backend/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Investment{},
		&model.Transaction{},
		&model.Referral{},
		&model.Setting{},
	); err != nil {
		log.Printf("auto migrate error: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, admin list caching disabled: %v", err)
			rdb = nil
		}
	}

	var uploader storage.Uploader
	if cfg.StorageBucket != "" {
		gcs, err := storage.NewGCSUploader(context.Background(), cfg.StorageBucket)
		if err != nil {
			log.Printf("storage init error, proof upload disabled: %v", err)
		} else {
			defer gcs.Close()
			uploader = gcs
		}
	}

	srv, err := server.New(cfg, conn, rdb, uploader)
	if err != nil {
		log.Fatalf("server init error: %v", err)
	}

	if cfg.SweepIntervalMinutes > 0 {
		sweeper := worker.NewSweeper(srv.Investments, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)
		go sweeper.Start()
	}

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
