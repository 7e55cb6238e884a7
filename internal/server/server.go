package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/agrivest/agrivest-backend/internal/config"
	"github.com/agrivest/agrivest-backend/internal/handler"
	appmw "github.com/agrivest/agrivest-backend/internal/middleware"
	"github.com/agrivest/agrivest-backend/internal/repository"
	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/agrivest/agrivest-backend/internal/storage"
)

type Server struct {
	e           *echo.Echo
	Investments service.InvestmentService
}

func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, uploader storage.Uploader) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	tm := repository.NewTxManager(db)

	userSvc := service.NewUserService(userRepo, tm)
	investmentSvc := service.NewInvestmentService(investmentRepo, tm)
	transactionSvc := service.NewTransactionService(transactionRepo, investmentRepo, tm)
	referralSvc := service.NewReferralService(referralRepo, userRepo)
	settingsSvc := service.NewSettingsService(settingRepo)

	authHandler := handler.NewAuthHandler(userSvc)
	userHandler := handler.NewUserHandler()
	packHandler := handler.NewPackHandler()
	investmentHandler := handler.NewInvestmentHandler(investmentSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)
	referralHandler := handler.NewReferralHandler(referralSvc)
	uploadHandler := handler.NewUploadHandler(uploader)
	adminHandler := handler.NewAdminHandler(userSvc, transactionSvc, settingsSvc, rdb)
	cronHandler := handler.NewCronHandler(investmentSvc, cfg.CronKey)

	authMw, err := appmw.NewAuthMiddleware(context.Background(), cfg.FirebaseProjectID)
	if err != nil {
		return nil, err
	}
	accountMw := appmw.NewAccountMiddleware(userSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")
	api.GET("/packs", packHandler.List)
	api.POST("/auth/register", authHandler.Register, authMw.RequireAuth)

	authed := api.Group("", authMw.RequireAuth, accountMw.RequireAccount)
	authed.GET("/me", userHandler.Me)
	authed.POST("/uploads/proof", uploadHandler.UploadProof)
	authed.POST("/deposits", transactionHandler.CreateDeposit)
	authed.POST("/withdrawals", transactionHandler.CreateWithdrawal)
	authed.GET("/transactions", transactionHandler.ListMine)
	authed.POST("/investments", investmentHandler.Invest)
	authed.GET("/investments", investmentHandler.ListMine)
	authed.POST("/investments/:id/harvest", investmentHandler.Harvest)
	authed.GET("/referrals", referralHandler.ListMine)

	admin := api.Group("/admin", authMw.RequireAuth, accountMw.RequireAccount, accountMw.RequireAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id/ban", adminHandler.BanUser)
	admin.POST("/users/:id/unban", adminHandler.UnbanUser)
	admin.POST("/users/:id/balance", adminHandler.AdjustBalance)
	admin.GET("/transactions", adminHandler.ListTransactions)
	admin.POST("/transactions/:id/approve", adminHandler.ApproveTransaction)
	admin.POST("/transactions/:id/reject", adminHandler.RejectTransaction)
	admin.GET("/settings", adminHandler.GetSettings)
	admin.PUT("/settings", adminHandler.UpdateSetting)

	api.POST("/cron/daily-gains", cronHandler.DailyGains)

	return &Server{e: e, Investments: investmentSvc}, nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
