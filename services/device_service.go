package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories"
)

type DeviceService struct {
	DeviceRepo   repositories.DeviceRepository
	ChildRepo    repositories.ChildRepository
	GuardianRepo repositories.GuardianRepository
	Audit        *AuditService
	LockState    *LockStateService
}

func NewDeviceService(
	deviceRepo repositories.DeviceRepository,
	childRepo repositories.ChildRepository,
	guardianRepo repositories.GuardianRepository,
	audit *AuditService,
	lockState *LockStateService,
) *DeviceService {
	return &DeviceService{
		DeviceRepo:   deviceRepo,
		ChildRepo:    childRepo,
		GuardianRepo: guardianRepo,
		Audit:        audit,
		LockState:    lockState,
	}
}

// AttachRequest — заявка устройства на подключение
type AttachRequest struct {
	Code        string `json:"code"` // Код привязки опекуна, нужен при первой регистрации и перерегистрации
	PhoneNumber string `json:"phone_number" binding:"required"`
	Fingerprint string `json:"fingerprint"`
	Timezone    string `json:"timezone"`
	ChildName   string `json:"child_name"`
}

// AttachResult — решение шлюза плюс запись устройства, к которой оно
// относится
type AttachResult struct {
	Outcome string        `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
	Device  models.Device `json:"device"`
}

// AuthorizeAttach проверяет заявленную идентичность устройства через шлюз
// и ведет запись устройства через этапы регистрации. Новая запись
// создается только по действующему коду привязки опекуна.
func (s *DeviceService) AuthorizeAttach(request AttachRequest) (AttachResult, error) {
	claimed := engine.ClaimedIdentity{
		PhoneNumber: request.PhoneNumber,
		Fingerprint: request.Fingerprint,
	}

	device, err := s.DeviceRepo.FindByPhoneOrFingerprint(claimed.PhoneNumber, claimed.Fingerprint)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.registerDevice(request)
		}
		return AttachResult{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	// Смена отпечатка при прежнем номере — событие перерегистрации.
	// Она возможна только через поток согласия по действующему коду
	// опекуна, никогда молча
	if fingerprintConflict(device, claimed) {
		s.Audit.RecordIdentityMismatch(device, claimed)

		if request.Code != "" {
			return s.reRegisterDevice(request, device, claimed)
		}

		return AttachResult{Outcome: engine.OutcomeDeny, Reason: engine.ReasonIdentityMismatch}, engine.ErrIdentityMismatch
	}

	result := engine.Authorize(claimed, device)

	if result.Outcome == engine.OutcomeDeny && result.Reason == engine.ReasonIdentityMismatch {
		// Каждое несовпадение фиксируется в журнале безопасности
		s.Audit.RecordIdentityMismatch(device, claimed)

		if request.Code != "" {
			return s.reRegisterDevice(request, device, claimed)
		}

		return AttachResult{Outcome: result.Outcome, Reason: result.Reason}, engine.ErrIdentityMismatch
	}

	if result.PinFingerprint {
		// Доверие при первом подключении: закрепляем отпечаток
		s.Audit.RecordFingerprintPinned(device, claimed.Fingerprint)
		device.Fingerprint = claimed.Fingerprint
	}

	switch result.Outcome {
	case engine.OutcomeAllow:
		if device.RegistrationStage != models.StageActive {
			device.RegistrationStage = models.StageApproved
		}
	case engine.OutcomeRequiresConsent:
		device.RegistrationStage = models.StageConsentPending
	case engine.OutcomeDeny:
		device.RegistrationStage = models.StageDeniedStage
	}

	if request.Timezone != "" {
		device.Timezone = request.Timezone
	}
	device.Touch()

	if err := s.DeviceRepo.Save(&device); err != nil {
		return AttachResult{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	return AttachResult{Outcome: result.Outcome, Reason: result.Reason, Device: device}, nil
}

// registerDevice создает новую запись устройства по коду привязки опекуна
func (s *DeviceService) registerDevice(request AttachRequest) (AttachResult, error) {
	guardian, err := s.validGuardianByCode(request.Code)
	if err != nil {
		return AttachResult{}, err
	}

	child := models.Child{
		GuardianID: guardian.ID,
		Name:       request.ChildName,
	}
	if err := s.ChildRepo.Save(&child); err != nil {
		return AttachResult{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	device := models.Device{
		ChildID:           child.ID,
		GuardianID:        guardian.ID,
		PhoneNumber:       request.PhoneNumber,
		Fingerprint:       request.Fingerprint,
		Timezone:          request.Timezone,
		IsActive:          true,
		ConsentStatus:     models.ConsentPending,
		RegistrationStage: models.StageConsentPending,
	}
	device.Touch()

	if err := s.DeviceRepo.Save(&device); err != nil {
		return AttachResult{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	if device.Fingerprint != "" {
		s.Audit.RecordFingerprintPinned(device, device.Fingerprint)
	}

	return AttachResult{Outcome: engine.OutcomeRequiresConsent, Device: device}, nil
}

// reRegisterDevice перепривязывает отпечаток существующей записи через
// поток согласия: статус согласия сбрасывается в ожидание, перепривязка
// фиксируется в журнале
func (s *DeviceService) reRegisterDevice(request AttachRequest, device models.Device, claimed engine.ClaimedIdentity) (AttachResult, error) {
	guardian, err := s.validGuardianByCode(request.Code)
	if err != nil {
		return AttachResult{}, err
	}
	if guardian.ID != device.GuardianID {
		return AttachResult{Outcome: engine.OutcomeDeny, Reason: engine.ReasonIdentityMismatch}, engine.ErrIdentityMismatch
	}

	s.Audit.RecordFingerprintRePin(device, device.Fingerprint, claimed.Fingerprint)

	device.Fingerprint = claimed.Fingerprint
	device.ConsentStatus = models.ConsentPending
	device.RegistrationStage = models.StageConsentPending
	if request.Timezone != "" {
		device.Timezone = request.Timezone
	}
	device.Touch()

	if err := s.DeviceRepo.Save(&device); err != nil {
		return AttachResult{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	return AttachResult{Outcome: engine.OutcomeRequiresConsent, Device: device}, nil
}

// fingerprintConflict сообщает, что заявленный отпечаток расходится с
// уже закрепленным за записью
func fingerprintConflict(device models.Device, claimed engine.ClaimedIdentity) bool {
	return device.Fingerprint != "" && claimed.Fingerprint != "" && claimed.Fingerprint != device.Fingerprint
}

// Consent фиксирует решение человека на управляемом устройстве. Решение
// должно исходить с самого устройства: заявленная идентичность сверяется
// с записью через шлюз. Переход pending→approved или pending→denied
// выполняется ровно один раз на событие регистрации.
func (s *DeviceService) Consent(deviceID uint, claimed engine.ClaimedIdentity, approve bool) (models.Device, error) {
	device, err := s.DeviceRepo.FindByID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Device{}, fmt.Errorf("%w: device %d", engine.ErrNotFound, deviceID)
		}
		return models.Device{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	if fingerprintConflict(device, claimed) || device.PhoneNumber != claimed.PhoneNumber {
		s.Audit.RecordIdentityMismatch(device, claimed)
		return models.Device{}, engine.ErrIdentityMismatch
	}

	if device.ConsentDecided() {
		return models.Device{}, fmt.Errorf("%w: consent already decided", engine.ErrValidation)
	}

	if approve {
		device.ConsentStatus = models.ConsentApproved
		device.RegistrationStage = models.StageApproved
	} else {
		device.ConsentStatus = models.ConsentDenied
		device.RegistrationStage = models.StageDeniedStage
	}

	if err := s.DeviceRepo.Save(&device); err != nil {
		return models.Device{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	s.Audit.RecordConsentDecision(device, approve)
	return device, nil
}

// Heartbeat обновляет отметку активности устройства и возвращает его
// эффективное состояние. Это опрос со стороны устройства; каждый вызов —
// полный пересчет. Заявленная в теле heartbeat идентичность проходит тот
// же шлюз, что и заявка на подключение: токен сессии называет запись, а
// шлюз сверяет, что запрос все еще приходит с того же аппарата.
func (s *DeviceService) Heartbeat(deviceID uint, claimed engine.ClaimedIdentity) (DeviceStateView, error) {
	device, err := s.DeviceRepo.FindByID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeviceStateView{}, fmt.Errorf("%w: device %d", engine.ErrNotFound, deviceID)
		}
		return DeviceStateView{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	if claimed.PhoneNumber != "" || claimed.Fingerprint != "" {
		// Закрепленный отпечаток в heartbeat не перепривязывается: смена
		// аппарата идет только через поток перерегистрации
		if fingerprintConflict(device, claimed) {
			s.Audit.RecordIdentityMismatch(device, claimed)
			return DeviceStateView{}, engine.ErrIdentityMismatch
		}

		result := engine.Authorize(claimed, device)
		if result.Outcome == engine.OutcomeDeny {
			if result.Reason == engine.ReasonIdentityMismatch {
				s.Audit.RecordIdentityMismatch(device, claimed)
				return DeviceStateView{}, engine.ErrIdentityMismatch
			}
			return DeviceStateView{}, engine.ErrConsentDenied
		}
		if result.PinFingerprint {
			s.Audit.RecordFingerprintPinned(device, claimed.Fingerprint)
			device.Fingerprint = claimed.Fingerprint
		}
	}

	device.Touch()
	// Первый heartbeat после одобрения переводит устройство в активный этап
	if device.HasConsent() && device.RegistrationStage == models.StageApproved {
		device.RegistrationStage = models.StageActive
	}
	if err := s.DeviceRepo.Save(&device); err != nil {
		return DeviceStateView{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	return s.LockState.EvaluateDeviceView(deviceID, time.Now())
}

func (s *DeviceService) ReadDevice(guardianID, deviceID uint) (models.Device, error) {
	device, err := s.ownedDevice(guardianID, deviceID)
	if err != nil {
		return models.Device{}, err
	}
	return device, nil
}

func (s *DeviceService) ListDevices(guardianID uint) ([]models.Device, error) {
	return s.DeviceRepo.FindByGuardianID(guardianID)
}

// UpdateDevice позволяет опекуну изменить зону, номер и активность
func (s *DeviceService) UpdateDevice(guardianID, deviceID uint, input models.Device) (models.Device, error) {
	device, err := s.ownedDevice(guardianID, deviceID)
	if err != nil {
		return models.Device{}, err
	}

	if input.Timezone != "" {
		device.Timezone = input.Timezone
	}
	if input.PhoneNumber != "" {
		device.PhoneNumber = input.PhoneNumber
	}
	device.IsActive = input.IsActive

	if err := s.DeviceRepo.Save(&device); err != nil {
		return models.Device{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	return device, nil
}

// DeleteDevice удаляет устройство со всеми связями и журналом (каскад).
// Профиль ребенка без устройства не нужен и удаляется вместе с ним.
func (s *DeviceService) DeleteDevice(guardianID, deviceID uint) error {
	device, err := s.ownedDevice(guardianID, deviceID)
	if err != nil {
		return err
	}
	if err := s.DeviceRepo.Delete(deviceID); err != nil {
		return err
	}
	if device.ChildID != 0 {
		return s.ChildRepo.Delete(device.ChildID)
	}
	return nil
}

func (s *DeviceService) ownedDevice(guardianID, deviceID uint) (models.Device, error) {
	device, err := s.DeviceRepo.FindByID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Device{}, fmt.Errorf("%w: device %d", engine.ErrNotFound, deviceID)
		}
		return models.Device{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	if device.GuardianID != guardianID {
		return models.Device{}, errors.New("device does not belong to this guardian")
	}
	return device, nil
}

// validGuardianByCode находит опекуна по действующему коду привязки
func (s *DeviceService) validGuardianByCode(code string) (models.Guardian, error) {
	if code == "" {
		return models.Guardian{}, errors.New("guardian code is required")
	}
	guardian, err := s.GuardianRepo.FindByCode(code)
	if err != nil {
		return models.Guardian{}, errors.New("invalid guardian code")
	}
	if !guardian.IsCodeValid() {
		return models.Guardian{}, errors.New("guardian code has expired")
	}
	return guardian, nil
}
