package repositories

import "GuardianMobile/models"

type ChildRepository interface {
	FindByID(id uint) (models.Child, error)
	FindByGuardianID(guardianID uint) ([]models.Child, error)
	Save(child *models.Child) error
	Delete(id uint) error
}
