package services

import (
	"testing"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newScheduleServiceWithMocks() (*ScheduleService, *mocks.ScheduleRepository, *mocks.DeviceRepository, *mocks.DeviceScheduleRepository) {
	mockScheduleRepo := new(mocks.ScheduleRepository)
	mockDeviceRepo := new(mocks.DeviceRepository)
	mockLinkRepo := new(mocks.DeviceScheduleRepository)

	scheduleService := NewScheduleService(mockScheduleRepo, mockDeviceRepo, mockLinkRepo)

	return scheduleService, mockScheduleRepo, mockDeviceRepo, mockLinkRepo
}

func TestCreateScheduleDefaultsDaysOfWeek(t *testing.T) {
	scheduleService, mockScheduleRepo, _, _ := newScheduleServiceWithMocks()

	mockScheduleRepo.On("Save", mock.MatchedBy(func(schedule *models.Schedule) bool {
		// Пустые дни недели означают "каждый день"
		return schedule.DaysOfWeek == "[0,1,2,3,4,5,6]" && schedule.GuardianID == uint(1)
	})).Return(nil)

	schedule, err := scheduleService.CreateSchedule(1, models.Schedule{
		Label:     "Школьные часы",
		StartTime: "08:00",
		EndTime:   "14:00",
		IsActive:  true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "[0,1,2,3,4,5,6]", schedule.DaysOfWeek)
	mockScheduleRepo.AssertExpectations(t)
}

func TestCreateScheduleInvalidTime(t *testing.T) {
	scheduleService, mockScheduleRepo, _, _ := newScheduleServiceWithMocks()

	_, err := scheduleService.CreateSchedule(1, models.Schedule{
		StartTime: "25:00",
		EndTime:   "14:00",
	})

	assert.ErrorIs(t, err, engine.ErrValidation)
	mockScheduleRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpdateScheduleChecksOwnership(t *testing.T) {
	scheduleService, mockScheduleRepo, _, _ := newScheduleServiceWithMocks()

	stored := models.Schedule{ID: 3, GuardianID: 2, StartTime: "08:00", EndTime: "14:00", DaysOfWeek: "[1,2]"}

	mockScheduleRepo.On("FindByID", uint(3)).Return(stored, nil)

	_, err := scheduleService.UpdateSchedule(1, 3, models.Schedule{Label: "Новая"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
	mockScheduleRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpdateSchedule(t *testing.T) {
	scheduleService, mockScheduleRepo, _, _ := newScheduleServiceWithMocks()

	stored := models.Schedule{ID: 3, GuardianID: 1, StartTime: "08:00", EndTime: "14:00", DaysOfWeek: "[1,2]", IsActive: true}

	mockScheduleRepo.On("FindByID", uint(3)).Return(stored, nil)
	mockScheduleRepo.On("Save", mock.MatchedBy(func(schedule *models.Schedule) bool {
		return schedule.StartTime == "21:00" && schedule.EndTime == "07:00"
	})).Return(nil)

	// Окно через полночь допустимо
	updated, err := scheduleService.UpdateSchedule(1, 3, models.Schedule{
		StartTime: "21:00",
		EndTime:   "07:00",
		IsActive:  true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "21:00", updated.StartTime)
	mockScheduleRepo.AssertExpectations(t)
}

func TestAssignDeviceIsIdempotent(t *testing.T) {
	scheduleService, mockScheduleRepo, mockDeviceRepo, mockLinkRepo := newScheduleServiceWithMocks()

	mockScheduleRepo.On("FindByID", uint(3)).Return(models.Schedule{ID: 3, GuardianID: 1}, nil)
	mockDeviceRepo.On("FindByID", uint(5)).Return(models.Device{ID: 5, GuardianID: 1}, nil)
	mockLinkRepo.On("EnsureAssigned", uint(5), uint(3)).Return(nil)

	// Повторное назначение той же пары — успех без изменений
	assert.NoError(t, scheduleService.AssignDevice(1, 3, 5))
	assert.NoError(t, scheduleService.AssignDevice(1, 3, 5))

	mockLinkRepo.AssertNumberOfCalls(t, "EnsureAssigned", 2)
}

func TestAssignDeviceForeignDevice(t *testing.T) {
	scheduleService, mockScheduleRepo, mockDeviceRepo, mockLinkRepo := newScheduleServiceWithMocks()

	mockScheduleRepo.On("FindByID", uint(3)).Return(models.Schedule{ID: 3, GuardianID: 1}, nil)
	mockDeviceRepo.On("FindByID", uint(5)).Return(models.Device{ID: 5, GuardianID: 99}, nil)

	err := scheduleService.AssignDevice(1, 3, 5)

	assert.Error(t, err)
	mockLinkRepo.AssertNotCalled(t, "EnsureAssigned", mock.Anything, mock.Anything)
}

func TestUnassignDevice(t *testing.T) {
	scheduleService, mockScheduleRepo, mockDeviceRepo, mockLinkRepo := newScheduleServiceWithMocks()

	mockScheduleRepo.On("FindByID", uint(3)).Return(models.Schedule{ID: 3, GuardianID: 1}, nil)
	mockDeviceRepo.On("FindByID", uint(5)).Return(models.Device{ID: 5, GuardianID: 1}, nil)
	mockLinkRepo.On("Unassign", uint(5), uint(3)).Return(nil)

	assert.NoError(t, scheduleService.UnassignDevice(1, 3, 5))
	mockLinkRepo.AssertExpectations(t)
}

func TestDeleteScheduleNotFound(t *testing.T) {
	scheduleService, mockScheduleRepo, _, _ := newScheduleServiceWithMocks()

	mockScheduleRepo.On("FindByID", uint(42)).Return(models.Schedule{}, gorm.ErrRecordNotFound)

	err := scheduleService.DeleteSchedule(1, 42)

	assert.ErrorIs(t, err, engine.ErrNotFound)
	mockScheduleRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestListDeviceSchedules(t *testing.T) {
	scheduleService, _, mockDeviceRepo, mockLinkRepo := newScheduleServiceWithMocks()

	assigned := []models.Schedule{
		{ID: 3, GuardianID: 1, Label: "Школьные часы"},
		{ID: 4, GuardianID: 1, Label: "Ночной сон"},
	}

	mockDeviceRepo.On("FindByID", uint(5)).Return(models.Device{ID: 5, GuardianID: 1}, nil)
	mockLinkRepo.On("GetAssignedSchedules", uint(5)).Return(assigned, nil)

	schedules, err := scheduleService.ListDeviceSchedules(1, 5)

	assert.NoError(t, err)
	assert.Equal(t, assigned, schedules)
}

func TestListScheduleDevices(t *testing.T) {
	scheduleService, mockScheduleRepo, _, mockLinkRepo := newScheduleServiceWithMocks()

	assigned := []models.Device{
		{ID: 5, GuardianID: 1},
		{ID: 6, GuardianID: 1},
	}

	mockScheduleRepo.On("FindByID", uint(3)).Return(models.Schedule{ID: 3, GuardianID: 1}, nil)
	mockLinkRepo.On("GetAssignedDevices", uint(3)).Return(assigned, nil)

	devices, err := scheduleService.ListScheduleDevices(1, 3)

	assert.NoError(t, err)
	assert.Equal(t, assigned, devices)
}

func TestListScheduleDevicesChecksOwnership(t *testing.T) {
	scheduleService, mockScheduleRepo, _, mockLinkRepo := newScheduleServiceWithMocks()

	mockScheduleRepo.On("FindByID", uint(3)).Return(models.Schedule{ID: 3, GuardianID: 99}, nil)

	_, err := scheduleService.ListScheduleDevices(1, 3)

	assert.Error(t, err)
	mockLinkRepo.AssertNotCalled(t, "GetAssignedDevices", mock.Anything)
}
