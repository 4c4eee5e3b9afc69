package services

import (
	"encoding/json"
	"testing"
	"time"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// recordingBroadcaster накапливает разосланные дельты для проверок
type recordingBroadcaster struct {
	calls []struct {
		GuardianUID string
		View        DeviceStateView
	}
}

func (b *recordingBroadcaster) BroadcastDeviceState(guardianUID string, view DeviceStateView) {
	b.calls = append(b.calls, struct {
		GuardianUID string
		View        DeviceStateView
	}{guardianUID, view})
}

func newReconciliationWithMocks() (*ReconciliationService, *mocks.DeviceRepository, *mocks.GuardianRepository, *mocks.DeviceScheduleRepository, *recordingBroadcaster) {
	mockDeviceRepo := new(mocks.DeviceRepository)
	mockGuardianRepo := new(mocks.GuardianRepository)
	mockLinkRepo := new(mocks.DeviceScheduleRepository)
	mockAuditRepo := new(mocks.AuditRepository)
	broadcaster := &recordingBroadcaster{}

	auditService := NewAuditService(mockAuditRepo)
	lockStateService := NewLockStateService(mockDeviceRepo, mockLinkRepo, auditService)
	reconciliation := NewReconciliationService(mockDeviceRepo, mockGuardianRepo, lockStateService, broadcaster)

	return reconciliation, mockDeviceRepo, mockGuardianRepo, mockLinkRepo, broadcaster
}

func cachedStateJSON(t *testing.T, state engine.EffectiveDeviceState) string {
	t.Helper()
	data, err := json.Marshal(state)
	assert.NoError(t, err)
	return string(data)
}

func TestReconcileBroadcastsOnStateChange(t *testing.T) {
	reconciliation, mockDeviceRepo, mockGuardianRepo, mockLinkRepo, broadcaster := newReconciliationWithMocks()

	// В кэше устройство разблокировано, но окно расписания уже наступило
	device := models.Device{
		ID:            5,
		GuardianID:    1,
		ConsentStatus: models.ConsentApproved,
		LockState: cachedStateJSON(t, engine.EffectiveDeviceState{
			DeviceID:          5,
			IsLocked:          false,
			ActiveScheduleIDs: []uint{},
		}),
	}
	schedules := []models.Schedule{
		{ID: 3, StartTime: "08:00", EndTime: "14:00", DaysOfWeek: "[0,1,2,3,4,5,6]", IsActive: true},
	}

	mockDeviceRepo.On("FindActive").Return([]models.Device{device}, nil)
	mockDeviceRepo.On("FindByID", uint(5)).Return(device, nil)
	mockLinkRepo.On("GetAssignedSchedules", uint(5)).Return(schedules, nil)
	mockDeviceRepo.On("SetCachedLockState", uint(5), true, mock.AnythingOfType("string")).Return(nil)
	mockGuardianRepo.On("FindByID", uint(1)).Return(models.Guardian{ID: 1, FirebaseUID: "guardian_uid_1"}, nil)

	now := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	reconciliation.reconcileAll(now)

	assert.Len(t, broadcaster.calls, 1)
	assert.Equal(t, "guardian_uid_1", broadcaster.calls[0].GuardianUID)
	assert.True(t, broadcaster.calls[0].View.EffectiveLocked)
}

func TestReconcileSkipsUnchangedState(t *testing.T) {
	reconciliation, mockDeviceRepo, _, mockLinkRepo, broadcaster := newReconciliationWithMocks()

	// Кэш совпадает с пересчетом: отличается только отметка времени,
	// она не считается изменением
	device := models.Device{
		ID:            5,
		GuardianID:    1,
		ConsentStatus: models.ConsentApproved,
		LockState: cachedStateJSON(t, engine.EffectiveDeviceState{
			DeviceID:          5,
			IsLocked:          false,
			ActiveScheduleIDs: []uint{},
			ComputedAt:        time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		}),
	}

	mockDeviceRepo.On("FindActive").Return([]models.Device{device}, nil)
	mockDeviceRepo.On("FindByID", uint(5)).Return(device, nil)
	mockLinkRepo.On("GetAssignedSchedules", uint(5)).Return([]models.Schedule{}, nil)
	mockDeviceRepo.On("SetCachedLockState", uint(5), false, mock.AnythingOfType("string")).Return(nil)

	now := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	reconciliation.reconcileAll(now)

	assert.Empty(t, broadcaster.calls)
}

func TestReconcileBroadcastsWhenCacheEmpty(t *testing.T) {
	reconciliation, mockDeviceRepo, mockGuardianRepo, mockLinkRepo, broadcaster := newReconciliationWithMocks()

	// Пустой кэш: дельта поднимается в любом случае
	device := models.Device{ID: 5, GuardianID: 1, ConsentStatus: models.ConsentApproved}

	mockDeviceRepo.On("FindActive").Return([]models.Device{device}, nil)
	mockDeviceRepo.On("FindByID", uint(5)).Return(device, nil)
	mockLinkRepo.On("GetAssignedSchedules", uint(5)).Return([]models.Schedule{}, nil)
	mockDeviceRepo.On("SetCachedLockState", uint(5), false, mock.AnythingOfType("string")).Return(nil)
	mockGuardianRepo.On("FindByID", uint(1)).Return(models.Guardian{ID: 1, FirebaseUID: "guardian_uid_1"}, nil)

	reconciliation.reconcileAll(time.Now())

	assert.Len(t, broadcaster.calls, 1)
}

func TestReconcileIntervalDefault(t *testing.T) {
	t.Setenv("RECONCILE_INTERVAL", "")
	assert.Equal(t, 15*time.Second, reconcileInterval())

	t.Setenv("RECONCILE_INTERVAL", "30s")
	assert.Equal(t, 30*time.Second, reconcileInterval())

	// Некорректное значение откатывается к значению по умолчанию
	t.Setenv("RECONCILE_INTERVAL", "sometimes")
	assert.Equal(t, 15*time.Second, reconcileInterval())
}

func TestStatesEqualIgnoresComputedAt(t *testing.T) {
	a := engine.EffectiveDeviceState{
		DeviceID:          5,
		IsLocked:          true,
		RestrictionLevel:  models.RestrictionWifiOnly,
		ActiveScheduleIDs: []uint{3},
		ComputedAt:        time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}
	b := a
	b.ComputedAt = b.ComputedAt.Add(15 * time.Second)

	assert.True(t, statesEqual(a, b))

	b.IsLocked = false
	assert.False(t, statesEqual(a, b))
}
