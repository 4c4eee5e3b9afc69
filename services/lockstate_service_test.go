package services

import (
	"errors"
	"testing"
	"time"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLockStateServiceWithMocks() (*LockStateService, *mocks.DeviceRepository, *mocks.DeviceScheduleRepository, *mocks.AuditRepository) {
	mockDeviceRepo := new(mocks.DeviceRepository)
	mockLinkRepo := new(mocks.DeviceScheduleRepository)
	mockAuditRepo := new(mocks.AuditRepository)

	auditService := NewAuditService(mockAuditRepo)
	lockStateService := NewLockStateService(mockDeviceRepo, mockLinkRepo, auditService)

	return lockStateService, mockDeviceRepo, mockLinkRepo, mockAuditRepo
}

func TestEvaluateDevicePersistsCache(t *testing.T) {
	lockStateService, mockDeviceRepo, mockLinkRepo, _ := newLockStateServiceWithMocks()

	device := models.Device{ID: 5, GuardianID: 1, ConsentStatus: models.ConsentApproved}
	schedules := []models.Schedule{
		{
			ID:                      3,
			StartTime:               "08:00",
			EndTime:                 "14:00",
			DaysOfWeek:              "[0,1,2,3,4,5,6]",
			IsActive:                true,
			NetworkRestrictionLevel: models.RestrictionWifiOnly,
			RestrictWifi:            true,
			AllowEmergencyAccess:    true,
		},
	}

	mockDeviceRepo.On("FindByID", uint(5)).Return(device, nil)
	mockLinkRepo.On("GetAssignedSchedules", uint(5)).Return(schedules, nil)
	mockDeviceRepo.On("SetCachedLockState", uint(5), true, mock.AnythingOfType("string")).Return(nil)

	// Внутри окна расписания
	now := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)

	state, err := lockStateService.EvaluateDevice(5, now)

	assert.NoError(t, err)
	assert.True(t, state.IsLocked)
	assert.Equal(t, models.RestrictionWifiOnly, state.RestrictionLevel)
	assert.Equal(t, []uint{3}, state.ActiveScheduleIDs)
	mockDeviceRepo.AssertExpectations(t)
	mockLinkRepo.AssertExpectations(t)
}

func TestComposeViewOverrideWins(t *testing.T) {
	locked := engine.EffectiveDeviceState{DeviceID: 5, IsLocked: true}
	unlocked := engine.EffectiveDeviceState{DeviceID: 5, IsLocked: false}

	// Переопределение побеждает, но состояние по расписаниям остается видимым
	view := ComposeView(models.Device{OverrideState: models.OverrideUnlocked}, locked)
	assert.False(t, view.EffectiveLocked)
	assert.True(t, view.ScheduleState.IsLocked)
	assert.Equal(t, models.OverrideUnlocked, view.OverrideState)

	view = ComposeView(models.Device{OverrideState: models.OverrideLocked}, unlocked)
	assert.True(t, view.EffectiveLocked)
	assert.False(t, view.ScheduleState.IsLocked)

	// Без переопределения действует состояние по расписаниям
	view = ComposeView(models.Device{}, locked)
	assert.True(t, view.EffectiveLocked)
	assert.Empty(t, view.OverrideState)
}

func TestLockAllSetsOverrideOnAllDevices(t *testing.T) {
	lockStateService, mockDeviceRepo, _, mockAuditRepo := newLockStateServiceWithMocks()

	devices := []models.Device{
		{ID: 5, GuardianID: 1},
		{ID: 6, GuardianID: 1},
	}

	mockDeviceRepo.On("FindByGuardianID", uint(1)).Return(devices, nil)
	// Переопределение накладывается одним запросом на весь парк
	mockDeviceRepo.On("SetOverrideForGuardian", uint(1), models.OverrideLocked, mock.AnythingOfType("*time.Time")).
		Return(nil).Once()
	mockAuditRepo.On("Save", mock.MatchedBy(func(entry *models.AuditLog) bool {
		return entry.Event == models.AuditOverrideSet
	})).Return(nil).Times(2)

	assert.NoError(t, lockStateService.LockAll(1))
	mockDeviceRepo.AssertNotCalled(t, "Save", mock.Anything)
	mockDeviceRepo.AssertExpectations(t)
	mockAuditRepo.AssertExpectations(t)
}

func TestLockAllStoreFailureWritesNoAudit(t *testing.T) {
	lockStateService, mockDeviceRepo, _, mockAuditRepo := newLockStateServiceWithMocks()

	devices := []models.Device{
		{ID: 5, GuardianID: 1},
		{ID: 6, GuardianID: 1},
	}

	mockDeviceRepo.On("FindByGuardianID", uint(1)).Return(devices, nil)
	mockDeviceRepo.On("SetOverrideForGuardian", uint(1), models.OverrideLocked, mock.AnythingOfType("*time.Time")).
		Return(errors.New("database error"))

	// Отказ хранилища не оставляет частично примененного переопределения
	// и не порождает записей журнала
	assert.Error(t, lockStateService.LockAll(1))
	mockAuditRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestClearOverrideChecksOwnership(t *testing.T) {
	lockStateService, mockDeviceRepo, _, _ := newLockStateServiceWithMocks()

	mockDeviceRepo.On("FindByID", uint(5)).Return(models.Device{ID: 5, GuardianID: 99, OverrideState: models.OverrideLocked}, nil)

	err := lockStateService.ClearOverride(1, 5)

	assert.Error(t, err)
	mockDeviceRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestClearOverride(t *testing.T) {
	lockStateService, mockDeviceRepo, _, mockAuditRepo := newLockStateServiceWithMocks()

	setAt := time.Now()
	device := models.Device{ID: 5, GuardianID: 1, OverrideState: models.OverrideLocked, OverrideSetAt: &setAt}

	mockDeviceRepo.On("FindByID", uint(5)).Return(device, nil)
	mockDeviceRepo.On("Save", mock.MatchedBy(func(d *models.Device) bool {
		return d.OverrideState == models.OverrideNone && d.OverrideSetAt == nil
	})).Return(nil)
	mockAuditRepo.On("Save", mock.MatchedBy(func(entry *models.AuditLog) bool {
		return entry.Event == models.AuditOverrideCleared
	})).Return(nil)

	assert.NoError(t, lockStateService.ClearOverride(1, 5))
	mockDeviceRepo.AssertExpectations(t)
	mockAuditRepo.AssertExpectations(t)
}
