package services

import (
	"testing"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newGuardianServiceWithMocks() (*GuardianService, *mocks.GuardianRepository, *mocks.ChildRepository, *mocks.DeviceRepository) {
	mockGuardianRepo := new(mocks.GuardianRepository)
	mockChildRepo := new(mocks.ChildRepository)
	mockDeviceRepo := new(mocks.DeviceRepository)

	guardianService := NewGuardianService(mockGuardianRepo, mockChildRepo, mockDeviceRepo)

	return guardianService, mockGuardianRepo, mockChildRepo, mockDeviceRepo
}

func TestReadGuardianProfile(t *testing.T) {
	guardianService, mockGuardianRepo, mockChildRepo, mockDeviceRepo := newGuardianServiceWithMocks()

	guardian := models.Guardian{ID: 1, FirebaseUID: "guardian_uid_1", Name: "Айгерим"}
	children := []models.Child{{ID: 3, GuardianID: 1, Name: "Aruzhan"}}
	devices := []models.Device{{ID: 5, GuardianID: 1, ChildID: 3}}

	mockGuardianRepo.On("FindByFirebaseUID", "guardian_uid_1").Return(guardian, nil)
	mockChildRepo.On("FindByGuardianID", uint(1)).Return(children, nil)
	mockDeviceRepo.On("FindByGuardianID", uint(1)).Return(devices, nil)

	profile, err := guardianService.ReadGuardian("guardian_uid_1")

	assert.NoError(t, err)
	assert.Equal(t, guardian, profile.Guardian)
	assert.Len(t, profile.Children, 1)
	assert.Len(t, profile.Devices, 1)
}

func TestReadGuardianNotFound(t *testing.T) {
	guardianService, mockGuardianRepo, _, _ := newGuardianServiceWithMocks()

	mockGuardianRepo.On("FindByFirebaseUID", "missing_uid").Return(models.Guardian{}, gorm.ErrRecordNotFound)

	_, err := guardianService.ReadGuardian("missing_uid")

	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestUpdateGuardianChangesOnlyProvidedFields(t *testing.T) {
	guardianService, mockGuardianRepo, _, _ := newGuardianServiceWithMocks()

	stored := models.Guardian{ID: 1, FirebaseUID: "guardian_uid_1", Name: "Айгерим", Email: "old@example.com", Lang: "kk"}

	mockGuardianRepo.On("FindByFirebaseUID", "guardian_uid_1").Return(stored, nil)
	mockGuardianRepo.On("Save", mock.MatchedBy(func(guardian *models.Guardian) bool {
		// Пустые поля ввода не затирают существующие значения
		return guardian.Name == "Айгерим" && guardian.Email == "new@example.com" && guardian.Lang == "kk"
	})).Return(nil)

	guardian, err := guardianService.UpdateGuardian("guardian_uid_1", models.Guardian{Email: "new@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", guardian.Email)
	mockGuardianRepo.AssertExpectations(t)
}

func TestUpdateGuardianHashesPassword(t *testing.T) {
	guardianService, mockGuardianRepo, _, _ := newGuardianServiceWithMocks()

	stored := models.Guardian{ID: 1, FirebaseUID: "guardian_uid_1"}

	mockGuardianRepo.On("FindByFirebaseUID", "guardian_uid_1").Return(stored, nil)
	mockGuardianRepo.On("Save", mock.MatchedBy(func(guardian *models.Guardian) bool {
		return bcrypt.CompareHashAndPassword([]byte(guardian.Password), []byte("new-password")) == nil
	})).Return(nil)

	_, err := guardianService.UpdateGuardian("guardian_uid_1", models.Guardian{Password: "new-password"})

	assert.NoError(t, err)
	mockGuardianRepo.AssertExpectations(t)
}

func TestDeleteGuardianCascades(t *testing.T) {
	guardianService, mockGuardianRepo, mockChildRepo, mockDeviceRepo := newGuardianServiceWithMocks()

	guardian := models.Guardian{ID: 1, FirebaseUID: "guardian_uid_1"}
	devices := []models.Device{{ID: 5, GuardianID: 1, ChildID: 3}, {ID: 6, GuardianID: 1, ChildID: 4}}
	children := []models.Child{{ID: 3, GuardianID: 1}, {ID: 4, GuardianID: 1}}

	mockGuardianRepo.On("FindByFirebaseUID", "guardian_uid_1").Return(guardian, nil)
	mockDeviceRepo.On("FindByGuardianID", uint(1)).Return(devices, nil)
	mockDeviceRepo.On("Delete", uint(5)).Return(nil)
	mockDeviceRepo.On("Delete", uint(6)).Return(nil)
	mockChildRepo.On("FindByGuardianID", uint(1)).Return(children, nil)
	mockChildRepo.On("Delete", uint(3)).Return(nil)
	mockChildRepo.On("Delete", uint(4)).Return(nil)
	mockGuardianRepo.On("DeleteByFirebaseUID", "guardian_uid_1").Return(nil)

	// Firebase в тестовом окружении не настроен; ошибка его клиента
	// логируется и не прерывает удаление локальных данных
	err := guardianService.DeleteGuardian("guardian_uid_1")

	assert.NoError(t, err)
	mockGuardianRepo.AssertExpectations(t)
	mockChildRepo.AssertExpectations(t)
	mockDeviceRepo.AssertExpectations(t)
}

func TestDeleteGuardianNotFound(t *testing.T) {
	guardianService, mockGuardianRepo, _, _ := newGuardianServiceWithMocks()

	mockGuardianRepo.On("FindByFirebaseUID", "missing_uid").Return(models.Guardian{}, gorm.ErrRecordNotFound)

	err := guardianService.DeleteGuardian("missing_uid")

	assert.ErrorIs(t, err, engine.ErrNotFound)
	mockGuardianRepo.AssertNotCalled(t, "DeleteByFirebaseUID", mock.Anything)
}
