package repositories

import "GuardianMobile/models"

type ScheduleRepository interface {
	FindByID(id uint) (models.Schedule, error)
	FindByGuardianID(guardianID uint) ([]models.Schedule, error)
	Save(schedule *models.Schedule) error
	// Delete удаляет расписание вместе с его связями с устройствами
	Delete(scheduleID uint) error
}
