package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"gorm.io/gorm"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories"
)

// LockStateService пересчитывает эффективное состояние устройства из
// назначенных расписаний и поддерживает кэш на записи устройства.
type LockStateService struct {
	DeviceRepo repositories.DeviceRepository
	LinkRepo   repositories.DeviceScheduleRepository
	Audit      *AuditService
}

func NewLockStateService(deviceRepo repositories.DeviceRepository, linkRepo repositories.DeviceScheduleRepository, audit *AuditService) *LockStateService {
	return &LockStateService{DeviceRepo: deviceRepo, LinkRepo: linkRepo, Audit: audit}
}

// DeviceStateView — ответ опрашивающим сторонам. Состояние по расписаниям
// и ручное переопределение остаются раздельными сигналами; переопределение
// применяется ПОСЛЕ чтения результата агрегатора и никогда не
// подмешивается в него.
type DeviceStateView struct {
	ScheduleState   engine.EffectiveDeviceState `json:"schedule_state"`
	OverrideState   string                      `json:"override_state,omitempty"`
	EffectiveLocked bool                        `json:"effective_locked"`
}

// EvaluateDevice пересчитывает состояние устройства на момент now и
// обновляет денормализованный кэш. Каждый вызов — полный идемпотентный
// пересчет без инкрементального состояния между опросами.
func (s *LockStateService) EvaluateDevice(deviceID uint, now time.Time) (engine.EffectiveDeviceState, error) {
	device, err := s.DeviceRepo.FindByID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.EffectiveDeviceState{}, fmt.Errorf("%w: device %d", engine.ErrNotFound, deviceID)
		}
		return engine.EffectiveDeviceState{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	schedules, err := s.LinkRepo.GetAssignedSchedules(deviceID)
	if err != nil {
		return engine.EffectiveDeviceState{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	state := engine.Resolve(device, schedules, now)

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return engine.EffectiveDeviceState{}, err
	}
	if err := s.DeviceRepo.SetCachedLockState(deviceID, state.IsLocked, string(stateJSON)); err != nil {
		return engine.EffectiveDeviceState{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	return state, nil
}

// EvaluateDeviceView пересчитывает состояние и компонует его с ручным
// переопределением устройства
func (s *LockStateService) EvaluateDeviceView(deviceID uint, now time.Time) (DeviceStateView, error) {
	device, err := s.DeviceRepo.FindByID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeviceStateView{}, fmt.Errorf("%w: device %d", engine.ErrNotFound, deviceID)
		}
		return DeviceStateView{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	state, err := s.EvaluateDevice(deviceID, now)
	if err != nil {
		return DeviceStateView{}, err
	}

	return ComposeView(device, state), nil
}

// ComposeView применяет ручное переопределение поверх состояния по
// расписаниям. Переопределение побеждает, но оба сигнала видны вызывающему.
func ComposeView(device models.Device, state engine.EffectiveDeviceState) DeviceStateView {
	view := DeviceStateView{
		ScheduleState:   state,
		OverrideState:   device.OverrideState,
		EffectiveLocked: state.IsLocked,
	}
	switch device.OverrideState {
	case models.OverrideLocked:
		view.EffectiveLocked = true
	case models.OverrideUnlocked:
		view.EffectiveLocked = false
	}
	return view
}

// LockAll устанавливает ручную блокировку на все устройства опекуна
func (s *LockStateService) LockAll(guardianID uint) error {
	return s.setOverrideAll(guardianID, models.OverrideLocked)
}

// UnlockAll устанавливает ручную разблокировку на все устройства опекуна
func (s *LockStateService) UnlockAll(guardianID uint) error {
	return s.setOverrideAll(guardianID, models.OverrideUnlocked)
}

// ClearOverride снимает ручное переопределение с одного устройства
func (s *LockStateService) ClearOverride(guardianID, deviceID uint) error {
	device, err := s.DeviceRepo.FindByID(deviceID)
	if err != nil {
		return err
	}
	if device.GuardianID != guardianID {
		return errors.New("device does not belong to this guardian")
	}

	device.OverrideState = models.OverrideNone
	device.OverrideSetAt = nil
	if err := s.DeviceRepo.Save(&device); err != nil {
		return err
	}

	s.Audit.RecordOverride(device, models.OverrideNone)
	return nil
}

func (s *LockStateService) setOverrideAll(guardianID uint, state string) error {
	devices, err := s.DeviceRepo.FindByGuardianID(guardianID)
	if err != nil {
		return err
	}

	now := time.Now()
	// Один UPDATE на весь парк: переопределение применяется либо ко всем
	// устройствам опекуна, либо ни к одному
	if err := s.DeviceRepo.SetOverrideForGuardian(guardianID, state, &now); err != nil {
		return err
	}

	for i := range devices {
		devices[i].OverrideState = state
		devices[i].OverrideSetAt = &now
		s.Audit.RecordOverride(devices[i], state)
	}
	return nil
}
