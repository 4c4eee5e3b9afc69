package controllers

import (
	"net/http"
	"strconv"

	"GuardianMobile/services"

	"github.com/gin-gonic/gin"
)

var lockStateService *services.LockStateService
var auditService *services.AuditService

func SetLockStateService(service *services.LockStateService) {
	lockStateService = service
}

func SetAuditService(service *services.AuditService) {
	auditService = service
}

// LockAllDevices ставит ручную блокировку на все устройства опекуна.
// Переопределение накладывается поверх состояния по расписаниям и не
// изменяет сами расписания.
func LockAllDevices(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	if err := lockStateService.LockAll(guardian.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true})
}

// UnlockAllDevices ставит ручную разблокировку на все устройства опекуна
func UnlockAllDevices(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	if err := lockStateService.UnlockAll(guardian.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true})
}

// ClearDeviceOverride снимает ручное переопределение с одного устройства,
// возвращая его под управление расписаний
func ClearDeviceOverride(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	deviceID, ok := idParam(c, "device_id")
	if !ok {
		return
	}

	if err := lockStateService.ClearOverride(guardian.ID, deviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true})
}

// GetAuditLog возвращает опекуну журнал событий безопасности его устройств
func GetAuditLog(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := auditService.AuditRepo.FindByGuardianID(guardian.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": entries})
}

// GetDeviceAuditLog возвращает журнал событий одного устройства опекуна
func GetDeviceAuditLog(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	deviceID, ok := idParam(c, "device_id")
	if !ok {
		return
	}

	if _, err := deviceService.ReadDevice(guardian.ID, deviceID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := auditService.AuditRepo.FindByDeviceID(deviceID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": entries})
}
