package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories"
)

type ScheduleService struct {
	ScheduleRepo repositories.ScheduleRepository
	DeviceRepo   repositories.DeviceRepository
	LinkRepo     repositories.DeviceScheduleRepository
}

func NewScheduleService(
	scheduleRepo repositories.ScheduleRepository,
	deviceRepo repositories.DeviceRepository,
	linkRepo repositories.DeviceScheduleRepository,
) *ScheduleService {
	return &ScheduleService{ScheduleRepo: scheduleRepo, DeviceRepo: deviceRepo, LinkRepo: linkRepo}
}

func (s *ScheduleService) CreateSchedule(guardianID uint, input models.Schedule) (models.Schedule, error) {
	// Пустые дни недели означают "каждый день"
	if input.DaysOfWeek == "" {
		input.DaysOfWeek = "[0,1,2,3,4,5,6]"
	}

	if err := engine.ValidateSchedule(input); err != nil {
		return models.Schedule{}, err
	}

	input.ID = 0
	input.GuardianID = guardianID

	if err := s.ScheduleRepo.Save(&input); err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	return input, nil
}

func (s *ScheduleService) UpdateSchedule(guardianID, scheduleID uint, input models.Schedule) (models.Schedule, error) {
	schedule, err := s.ownedSchedule(guardianID, scheduleID)
	if err != nil {
		return models.Schedule{}, err
	}

	if input.Label != "" {
		schedule.Label = input.Label
	}
	if input.StartTime != "" {
		schedule.StartTime = input.StartTime
	}
	if input.EndTime != "" {
		schedule.EndTime = input.EndTime
	}
	if input.DaysOfWeek != "" {
		schedule.DaysOfWeek = input.DaysOfWeek
	}
	schedule.IsActive = input.IsActive
	schedule.NetworkRestrictionLevel = input.NetworkRestrictionLevel
	schedule.RestrictWifi = input.RestrictWifi
	schedule.RestrictMobileData = input.RestrictMobileData
	schedule.AllowEmergencyAccess = input.AllowEmergencyAccess

	if err := engine.ValidateSchedule(schedule); err != nil {
		return models.Schedule{}, err
	}

	if err := s.ScheduleRepo.Save(&schedule); err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	return schedule, nil
}

func (s *ScheduleService) ReadSchedule(guardianID, scheduleID uint) (models.Schedule, error) {
	return s.ownedSchedule(guardianID, scheduleID)
}

func (s *ScheduleService) ListSchedules(guardianID uint) ([]models.Schedule, error) {
	return s.ScheduleRepo.FindByGuardianID(guardianID)
}

// DeleteSchedule удаляет расписание; связи с устройствами удаляются каскадно
func (s *ScheduleService) DeleteSchedule(guardianID, scheduleID uint) error {
	if _, err := s.ownedSchedule(guardianID, scheduleID); err != nil {
		return err
	}
	return s.ScheduleRepo.Delete(scheduleID)
}

// AssignDevice связывает устройство с расписанием. Операция идемпотентна:
// повторное назначение существующей пары — успех без изменений.
func (s *ScheduleService) AssignDevice(guardianID, scheduleID, deviceID uint) error {
	if _, err := s.ownedSchedule(guardianID, scheduleID); err != nil {
		return err
	}
	if err := s.ownedDevice(guardianID, deviceID); err != nil {
		return err
	}
	return s.LinkRepo.EnsureAssigned(deviceID, scheduleID)
}

func (s *ScheduleService) UnassignDevice(guardianID, scheduleID, deviceID uint) error {
	if _, err := s.ownedSchedule(guardianID, scheduleID); err != nil {
		return err
	}
	if err := s.ownedDevice(guardianID, deviceID); err != nil {
		return err
	}
	return s.LinkRepo.Unassign(deviceID, scheduleID)
}

// ListDeviceSchedules возвращает расписания, назначенные устройству
func (s *ScheduleService) ListDeviceSchedules(guardianID, deviceID uint) ([]models.Schedule, error) {
	if err := s.ownedDevice(guardianID, deviceID); err != nil {
		return nil, err
	}
	return s.LinkRepo.GetAssignedSchedules(deviceID)
}

// ListScheduleDevices возвращает устройства, связанные с расписанием
func (s *ScheduleService) ListScheduleDevices(guardianID, scheduleID uint) ([]models.Device, error) {
	if _, err := s.ownedSchedule(guardianID, scheduleID); err != nil {
		return nil, err
	}
	return s.LinkRepo.GetAssignedDevices(scheduleID)
}

func (s *ScheduleService) ownedSchedule(guardianID, scheduleID uint) (models.Schedule, error) {
	schedule, err := s.ScheduleRepo.FindByID(scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Schedule{}, fmt.Errorf("%w: schedule %d", engine.ErrNotFound, scheduleID)
		}
		return models.Schedule{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	if schedule.GuardianID != guardianID {
		return models.Schedule{}, errors.New("schedule does not belong to this guardian")
	}
	return schedule, nil
}

func (s *ScheduleService) ownedDevice(guardianID, deviceID uint) error {
	device, err := s.DeviceRepo.FindByID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: device %d", engine.ErrNotFound, deviceID)
		}
		return fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	if device.GuardianID != guardianID {
		return errors.New("device does not belong to this guardian")
	}
	return nil
}
