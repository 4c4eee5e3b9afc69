package impl

import (
	"GuardianMobile/models"
	"GuardianMobile/repositories"

	"gorm.io/gorm"
)

type GuardianRepositoryImpl struct {
	DB *gorm.DB
}

func NewGuardianRepository(db *gorm.DB) repositories.GuardianRepository {
	return &GuardianRepositoryImpl{DB: db}
}

func (r *GuardianRepositoryImpl) FindByID(id uint) (models.Guardian, error) {
	var guardian models.Guardian
	if err := r.DB.First(&guardian, id).Error; err != nil {
		return models.Guardian{}, err
	}
	return guardian, nil
}

func (r *GuardianRepositoryImpl) FindByFirebaseUID(firebaseUID string) (models.Guardian, error) {
	var guardian models.Guardian
	if err := r.DB.Where("firebase_uid = ?", firebaseUID).First(&guardian).Error; err != nil {
		return models.Guardian{}, err
	}
	return guardian, nil
}

func (r *GuardianRepositoryImpl) FindByEmail(email string) (models.Guardian, error) {
	var guardian models.Guardian
	if err := r.DB.Where("email = ?", email).First(&guardian).Error; err != nil {
		return models.Guardian{}, err
	}
	return guardian, nil
}

func (r *GuardianRepositoryImpl) FindByCode(code string) (models.Guardian, error) {
	var guardian models.Guardian
	if err := r.DB.Where("code = ?", code).First(&guardian).Error; err != nil {
		return models.Guardian{}, err
	}
	return guardian, nil
}

func (r *GuardianRepositoryImpl) CountByCode(code string, count *int64) error {
	return r.DB.Model(&models.Guardian{}).Where("code = ?", code).Count(count).Error
}

func (r *GuardianRepositoryImpl) Save(guardian *models.Guardian) error {
	return r.DB.Save(guardian).Error
}

func (r *GuardianRepositoryImpl) DeleteByFirebaseUID(firebaseUID string) error {
	return r.DB.Where("firebase_uid = ?", firebaseUID).Delete(&models.Guardian{}).Error
}
