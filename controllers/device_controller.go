package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/services"

	"github.com/gin-gonic/gin"
)

var deviceService *services.DeviceService

func SetDeviceService(service *services.DeviceService) {
	deviceService = service
}

// guardianFromContext извлекает опекуна по firebase_uid из контекста
// (установлен в AuthMiddleware)
func guardianFromContext(c *gin.Context) (models.Guardian, bool) {
	firebaseUID, exists := c.Get("firebase_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing firebase_uid"})
		return models.Guardian{}, false
	}

	userType, exists := c.Get("user_type")
	if !exists || userType.(string) != services.UserTypeGuardian {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden: guardians only"})
		return models.Guardian{}, false
	}

	guardian, err := authService.GuardianRepo.FindByFirebaseUID(firebaseUID.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "guardian not found"})
		return models.Guardian{}, false
	}

	return guardian, true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number"})
		return 0, false
	}
	return uint(id), true
}

// AttachDevice обрабатывает заявку устройства на подключение. Решение
// принимает шлюз идентичности; новая запись создается только по
// действующему коду привязки опекуна.
func AttachDevice(c *gin.Context) {
	var request services.AttachRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	result, err := deviceService.AuthorizeAttach(request)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrIdentityMismatch):
			c.JSON(http.StatusForbidden, gin.H{"outcome": result.Outcome, "reason": result.Reason})
		case errors.Is(err, engine.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, engine.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	response := gin.H{
		"outcome": result.Outcome,
		"device":  result.Device,
	}
	if result.Reason != "" {
		response["reason"] = result.Reason
	}

	switch result.Outcome {
	case engine.OutcomeAllow:
		// Прошедшее шлюз устройство получает сессионный токен
		token, tokenErr := authService.DeviceToken(result.Device)
		if tokenErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": tokenErr.Error()})
			return
		}
		response["token"] = token
		c.JSON(http.StatusOK, response)
	case engine.OutcomeRequiresConsent:
		c.JSON(http.StatusAccepted, response)
	default:
		c.JSON(http.StatusForbidden, response)
	}
}

// DeviceConsent фиксирует решение по согласию на управляемом устройстве.
// Запрос обязан назвать идентичность устройства: решение принимается
// только с того аппарата, к которому относится запись. Решение
// одноразовое: повторная попытка отклоняется.
func DeviceConsent(c *gin.Context) {
	var input struct {
		DeviceID    uint   `json:"device_id" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
		Fingerprint string `json:"fingerprint"`
		Approve     *bool  `json:"approve" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	claimed := engine.ClaimedIdentity{
		PhoneNumber: input.PhoneNumber,
		Fingerprint: input.Fingerprint,
	}

	device, err := deviceService.Consent(input.DeviceID, claimed, *input.Approve)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrIdentityMismatch):
			c.JSON(http.StatusForbidden, gin.H{"outcome": engine.OutcomeDeny, "reason": engine.ReasonIdentityMismatch})
		case errors.Is(err, engine.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, engine.ErrValidation):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	response := gin.H{"message": true, "device": device}
	if device.HasConsent() {
		// После одобрения устройству выдается сессионный токен
		token, tokenErr := authService.DeviceToken(device)
		if tokenErr == nil {
			response["token"] = token
		}
	}

	c.JSON(http.StatusOK, response)
}

// DeviceHeartbeat обновляет отметку активности и возвращает эффективное
// состояние блокировки. Вызывается самим устройством по его токену;
// заявленная в теле идентичность сверяется шлюзом с записью устройства.
func DeviceHeartbeat(c *gin.Context) {
	deviceID, exists := c.Get("device_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: device token required"})
		return
	}

	var input struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	claimed := engine.ClaimedIdentity{
		PhoneNumber: input.PhoneNumber,
		Fingerprint: input.Fingerprint,
	}

	view, err := deviceService.Heartbeat(deviceID.(uint), claimed)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrIdentityMismatch):
			c.JSON(http.StatusForbidden, gin.H{"outcome": engine.OutcomeDeny, "reason": engine.ReasonIdentityMismatch})
		case errors.Is(err, engine.ErrConsentDenied):
			c.JSON(http.StatusForbidden, gin.H{"outcome": engine.OutcomeDeny, "reason": engine.ReasonConsentDenied})
		case errors.Is(err, engine.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetDeviceState возвращает опекуну эффективное состояние устройства
func GetDeviceState(c *gin.Context) {
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

	view, err := lockStateService.EvaluateDeviceView(deviceID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

func ListDevices(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	devices, err := deviceService.ListDevices(guardian.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": devices})
}

func GetDevice(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	deviceID, ok := idParam(c, "device_id")
	if !ok {
		return
	}

	device, err := deviceService.ReadDevice(guardian.ID, deviceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"message": true, "data": device}
	// Профиль ребенка прикладывается к ответу, если он есть
	if child, childErr := deviceService.ChildRepo.FindByID(device.ChildID); childErr == nil {
		response["child"] = child
	}

	c.JSON(http.StatusOK, response)
}

func UpdateDevice(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	deviceID, ok := idParam(c, "device_id")
	if !ok {
		return
	}

	var input models.Device
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	device, err := deviceService.UpdateDevice(guardian.ID, deviceID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true, "data": device})
}

func DeleteDevice(c *gin.Context) {
	guardian, ok := guardianFromContext(c)
	if !ok {
		return
	}

	deviceID, ok := idParam(c, "device_id")
	if !ok {
		return
	}

	if err := deviceService.DeleteDevice(guardian.ID, deviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": true})
}
