package routes

import (
	"GuardianMobile/controllers"
	"GuardianMobile/middlewares"
	"GuardianMobile/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Public routes
	r.POST("/register/guardian", controllers.RegisterGuardian)
	r.POST("/login/guardian", controllers.LoginGuardian)
	r.POST("/auth/token-verify", controllers.TokenVerify)

	// Поток подключения устройства: заявка и согласие идут без токена,
	// решение принимает шлюз идентичности
	r.POST("/devices/attach", controllers.AttachDevice)
	r.POST("/devices/consent", controllers.DeviceConsent)

	// Маршрут WebSocket для панели опекуна
	r.GET("/ws", middlewares.AuthMiddleware(), controllers.ServeWs)

	// Маршруты устройства по его сессионному токену
	device := r.Group("/device")
	device.Use(middlewares.AuthMiddleware(), middlewares.RequireUserType(services.UserTypeDevice))
	{
		device.POST("/heartbeat", controllers.DeviceHeartbeat)
	}

	// Маршруты опекуна
	guardians := r.Group("/guardians")
	guardians.Use(middlewares.AuthMiddleware(), middlewares.RequireUserType(services.UserTypeGuardian))
	{
		guardians.POST("/code/refresh", controllers.RefreshGuardianCode)

		guardians.GET("/profile", controllers.GetGuardianProfile)
		guardians.PUT("/profile", controllers.UpdateGuardianProfile)
		guardians.DELETE("/profile", controllers.DeleteGuardianProfile)

		guardians.GET("/devices", controllers.ListDevices)
		guardians.GET("/devices/:device_id", controllers.GetDevice)
		guardians.PUT("/devices/:device_id", controllers.UpdateDevice)
		guardians.DELETE("/devices/:device_id", controllers.DeleteDevice)
		guardians.GET("/devices/:device_id/state", controllers.GetDeviceState)
		guardians.GET("/devices/:device_id/schedules", controllers.ListDeviceSchedules)
		guardians.GET("/devices/:device_id/audit", controllers.GetDeviceAuditLog)
		guardians.DELETE("/devices/:device_id/override", controllers.ClearDeviceOverride)

		guardians.POST("/schedules", controllers.CreateSchedule)
		guardians.GET("/schedules", controllers.ListSchedules)
		guardians.GET("/schedules/:schedule_id", controllers.GetSchedule)
		guardians.PUT("/schedules/:schedule_id", controllers.UpdateSchedule)
		guardians.DELETE("/schedules/:schedule_id", controllers.DeleteSchedule)
		guardians.GET("/schedules/:schedule_id/devices", controllers.ListScheduleDevices)
		guardians.POST("/schedules/:schedule_id/assign", controllers.AssignSchedule)
		guardians.POST("/schedules/:schedule_id/unassign", controllers.UnassignSchedule)

		// Ручные переопределения действуют поверх расписаний
		guardians.POST("/lock-all", controllers.LockAllDevices)
		guardians.POST("/unlock-all", controllers.UnlockAllDevices)

		guardians.GET("/audit", controllers.GetAuditLog)
	}
}
