package controllers

import (
	"errors"
	"net/http"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/services"

	"github.com/gin-gonic/gin"
)

var scheduleService *services.ScheduleService

func SetScheduleService(service *services.ScheduleService) {
	scheduleService = service
}

func CreateSchedule(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	var input models.Schedule
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	schedule, err := scheduleService.CreateSchedule(guardian.ID, input)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": true, "data": schedule})
}

func ListSchedules(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	schedules, err := scheduleService.ListSchedules(guardian.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": schedules})
}

func GetSchedule(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	scheduleID, ok := idParam(c, "schedule_id")
	if !ok {
		return
	}

	schedule, err := scheduleService.ReadSchedule(guardian.ID, scheduleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": schedule})
}

func UpdateSchedule(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	scheduleID, ok := idParam(c, "schedule_id")
	if !ok {
		return
	}

	var input models.Schedule
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	schedule, err := scheduleService.UpdateSchedule(guardian.ID, scheduleID, input)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": schedule})
}

func DeleteSchedule(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	scheduleID, ok := idParam(c, "schedule_id")
	if !ok {
		return
	}

	if err := scheduleService.DeleteSchedule(guardian.ID, scheduleID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true})
}

// AssignSchedule привязывает расписание к устройству. Повторная привязка
// той же пары не является ошибкой.
func AssignSchedule(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	scheduleID, ok := idParam(c, "schedule_id")
	if !ok {
		return
	}

	var input struct {
		DeviceID uint `json:"device_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := scheduleService.AssignDevice(guardian.ID, scheduleID, input.DeviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true})
}

func UnassignSchedule(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	scheduleID, ok := idParam(c, "schedule_id")
	if !ok {
		return
	}

	var input struct {
		DeviceID uint `json:"device_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := scheduleService.UnassignDevice(guardian.ID, scheduleID, input.DeviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true})
}

// ListDeviceSchedules возвращает расписания, назначенные устройству
func ListDeviceSchedules(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	deviceID, ok := idParam(c, "device_id")
	if !ok {
		return
	}

	schedules, err := scheduleService.ListDeviceSchedules(guardian.ID, deviceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": schedules})
}

// ListScheduleDevices возвращает устройства, на которые назначено расписание
func ListScheduleDevices(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	scheduleID, ok := idParam(c, "schedule_id")
	if !ok {
		return
	}

	devices, err := scheduleService.ListScheduleDevices(guardian.ID, scheduleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": devices})
}
