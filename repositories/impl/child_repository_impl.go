package impl

import (
	"GuardianMobile/models"
	"GuardianMobile/repositories"

	"gorm.io/gorm"
)

type ChildRepositoryImpl struct {
	DB *gorm.DB
}

func NewChildRepository(db *gorm.DB) repositories.ChildRepository {
	return &ChildRepositoryImpl{DB: db}
}

func (r *ChildRepositoryImpl) FindByID(id uint) (models.Child, error) {
	var child models.Child
	if err := r.DB.First(&child, id).Error; err != nil {
		return models.Child{}, err
	}
	return child, nil
}

func (r *ChildRepositoryImpl) FindByGuardianID(guardianID uint) ([]models.Child, error) {
	var children []models.Child
	if err := r.DB.Where("guardian_id = ?", guardianID).Order("id").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (r *ChildRepositoryImpl) Save(child *models.Child) error {
	return r.DB.Save(child).Error
}

func (r *ChildRepositoryImpl) Delete(id uint) error {
	return r.DB.Delete(&models.Child{}, id).Error
}
