package repositories

import "GuardianMobile/models"

type GuardianRepository interface {
	FindByID(id uint) (models.Guardian, error)
	FindByFirebaseUID(firebaseUID string) (models.Guardian, error)
	FindByEmail(email string) (models.Guardian, error)
	FindByCode(code string) (models.Guardian, error)
	CountByCode(code string, count *int64) error
	Save(guardian *models.Guardian) error
	DeleteByFirebaseUID(firebaseUID string) error
}
