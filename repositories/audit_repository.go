package repositories

import "GuardianMobile/models"

type AuditRepository interface {
	Save(entry *models.AuditLog) error
	FindByGuardianID(guardianID uint, limit int) ([]models.AuditLog, error)
	FindByDeviceID(deviceID uint, limit int) ([]models.AuditLog, error)
}
