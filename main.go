package main

import (
	"GuardianMobile/config"
	"GuardianMobile/controllers"
	"GuardianMobile/repositories/impl"
	"GuardianMobile/routes"
	"GuardianMobile/services"
	"GuardianMobile/websocket"
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Initialize database and Firebase
	config.InitDatabase()
	config.InitFirebase()

	// Initialize repositories
	guardianRepo := impl.NewGuardianRepository(config.DB)
	childRepo := impl.NewChildRepository(config.DB)
	deviceRepo := impl.NewDeviceRepository(config.DB)
	scheduleRepo := impl.NewScheduleRepository(config.DB)
	linkRepo := impl.NewDeviceScheduleRepository(config.DB)
	auditRepo := impl.NewAuditRepository(config.DB)

	// Initialize services
	auditService := services.NewAuditService(auditRepo)
	lockStateService := services.NewLockStateService(deviceRepo, linkRepo, auditService)
	authService := services.NewAuthService(guardianRepo, deviceRepo, config.FirebaseAuth)
	deviceService := services.NewDeviceService(deviceRepo, childRepo, guardianRepo, auditService, lockStateService)
	scheduleService := services.NewScheduleService(scheduleRepo, deviceRepo, linkRepo)
	guardianService := services.NewGuardianService(guardianRepo, childRepo, deviceRepo)

	// Set services in controllers
	controllers.SetAuthService(authService)
	controllers.SetGuardianService(guardianService)
	controllers.SetDeviceService(deviceService)
	controllers.SetScheduleService(scheduleService)
	controllers.SetLockStateService(lockStateService)
	controllers.SetAuditService(auditService)

	// WebSocket hub для потока состояний панели опекуна
	hub := websocket.NewHub()
	controllers.SetWebSocketHub(hub)

	// Цикл сверки: периодический пересчет состояний и рассылка изменений
	reconciliation := services.NewReconciliationService(deviceRepo, guardianRepo, lockStateService, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reconciliation.Run(ctx)

	// Initialize Gin router
	r := gin.Default()

	// Register routes
	routes.RegisterRoutes(r)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	r.Run(":" + port)
}
