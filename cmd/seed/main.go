package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/agrivest/agrivest-backend/internal/config"
	"github.com/agrivest/agrivest-backend/internal/db"
	"github.com/agrivest/agrivest-backend/internal/model"
)

// Seeds the admin account and the payment settings rows. Safe to run more
// than once.
func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(
		&model.User{},
		&model.Investment{},
		&model.Transaction{},
		&model.Referral{},
		&model.Setting{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := seedAdmin(ctx, gdb); err != nil {
		return err
	}
	return seedSettings(ctx, gdb)
}

func seedAdmin(ctx context.Context, gdb *gorm.DB) error {
	adminUID := os.Getenv("ADMIN_UID")
	if adminUID == "" {
		log.Printf("ADMIN_UID not set; skipping admin seed")
		return nil
	}

	var existing model.User
	err := gdb.WithContext(ctx).Where("uid = ?", adminUID).First(&existing).Error
	if err == nil {
		log.Printf("admin already exists (id=%d); skipping", existing.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := model.User{
		UID:          adminUID,
		Name:         envOr("ADMIN_NAME", "Platform Admin"),
		Phone:        envOr("ADMIN_PHONE", "+0000000000"),
		ReferralCode: strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8],
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	if err := gdb.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("admin created (id=%d)", admin.ID)
	return nil
}

func seedSettings(ctx context.Context, gdb *gorm.DB) error {
	defaults := map[string]string{
		"usdt_address":       "TQeJp6kDvGWUUPb915b8WgZPThGQcnpqe9",
		"usdt_bonus_percent": "30",
		"exchange_rate":      "600",
	}
	for key, value := range defaults {
		var existing model.Setting
		err := gdb.WithContext(ctx).Where("`key` = ?", key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := gdb.WithContext(ctx).Create(&model.Setting{Key: key, Value: value}).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
		log.Printf("setting %s seeded", key)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
