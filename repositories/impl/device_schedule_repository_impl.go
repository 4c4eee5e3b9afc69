package impl

import (
	"GuardianMobile/models"
	"GuardianMobile/repositories"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceScheduleRepositoryImpl struct {
	DB *gorm.DB
}

func NewDeviceScheduleRepository(db *gorm.DB) repositories.DeviceScheduleRepository {
	return &DeviceScheduleRepositoryImpl{DB: db}
}

func (r *DeviceScheduleRepositoryImpl) EnsureAssigned(deviceID, scheduleID uint) error {
	// ON CONFLICT DO NOTHING: гонка двух конкурентных вставок одной пары
	// заканчивается одной строкой и успехом у обоих вызывающих
	link := models.DeviceSchedule{DeviceID: deviceID, ScheduleID: scheduleID}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "schedule_id"}},
		DoNothing: true,
	}).Create(&link).Error
}

func (r *DeviceScheduleRepositoryImpl) Unassign(deviceID, scheduleID uint) error {
	return r.DB.Where("device_id = ? AND schedule_id = ?", deviceID, scheduleID).
		Delete(&models.DeviceSchedule{}).Error
}

func (r *DeviceScheduleRepositoryImpl) GetAssignedSchedules(deviceID uint) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.DB.
		Joins("JOIN device_schedules ON device_schedules.schedule_id = schedules.id").
		Where("device_schedules.device_id = ?", deviceID).
		Order("schedules.id").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *DeviceScheduleRepositoryImpl) GetAssignedDevices(scheduleID uint) ([]models.Device, error) {
	var devices []models.Device
	err := r.DB.
		Joins("JOIN device_schedules ON device_schedules.device_id = devices.id").
		Where("device_schedules.schedule_id = ?", scheduleID).
		Order("devices.id").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}
