package impl

import (
	"GuardianMobile/models"
	"GuardianMobile/repositories"

	"gorm.io/gorm"
)

type AuditRepositoryImpl struct {
	DB *gorm.DB
}

func NewAuditRepository(db *gorm.DB) repositories.AuditRepository {
	return &AuditRepositoryImpl{DB: db}
}

func (r *AuditRepositoryImpl) Save(entry *models.AuditLog) error {
	return r.DB.Create(entry).Error
}

func (r *AuditRepositoryImpl) FindByGuardianID(guardianID uint, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	if err := r.DB.Where("guardian_id = ?", guardianID).
		Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *AuditRepositoryImpl) FindByDeviceID(deviceID uint, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	if err := r.DB.Where("device_id = ?", deviceID).
		Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
