package repositories

import "GuardianMobile/models"

// DeviceScheduleRepository — индекс связей устройство↔расписание
// (многие-ко-многим)
type DeviceScheduleRepository interface {
	// EnsureAssigned идемпотентна: повторная вставка существующей пары,
	// в том числе конкурентная, — успешный no-op, не ошибка
	EnsureAssigned(deviceID, scheduleID uint) error
	Unassign(deviceID, scheduleID uint) error
	// GetAssignedSchedules возвращает расписания устройства в стабильном
	// порядке (по id), чтобы агрегация была детерминированной
	GetAssignedSchedules(deviceID uint) ([]models.Schedule, error)
	GetAssignedDevices(scheduleID uint) ([]models.Device, error)
}
