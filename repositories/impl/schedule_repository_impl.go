package impl

import (
	"GuardianMobile/models"
	"GuardianMobile/repositories"

	"gorm.io/gorm"
)

type ScheduleRepositoryImpl struct {
	DB *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) repositories.ScheduleRepository {
	return &ScheduleRepositoryImpl{DB: db}
}

func (r *ScheduleRepositoryImpl) FindByID(id uint) (models.Schedule, error) {
	var schedule models.Schedule
	if err := r.DB.First(&schedule, id).Error; err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}

func (r *ScheduleRepositoryImpl) FindByGuardianID(guardianID uint) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := r.DB.Where("guardian_id = ?", guardianID).Order("id").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleRepositoryImpl) Save(schedule *models.Schedule) error {
	return r.DB.Save(schedule).Error
}

func (r *ScheduleRepositoryImpl) Delete(scheduleID uint) error {
	// Удаление расписания каскадно убирает его связи с устройствами
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", scheduleID).Delete(&models.DeviceSchedule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Schedule{}, scheduleID).Error
	})
}
