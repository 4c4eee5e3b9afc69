package services

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories"
)

// GuardianService — чтение и изменение профиля опекуна, включая полное
// удаление учетной записи с каскадом по детям и устройствам.
type GuardianService struct {
	GuardianRepo repositories.GuardianRepository
	ChildRepo    repositories.ChildRepository
	DeviceRepo   repositories.DeviceRepository
}

func NewGuardianService(
	guardianRepo repositories.GuardianRepository,
	childRepo repositories.ChildRepository,
	deviceRepo repositories.DeviceRepository,
) *GuardianService {
	return &GuardianService{
		GuardianRepo: guardianRepo,
		ChildRepo:    childRepo,
		DeviceRepo:   deviceRepo,
	}
}

// GuardianProfile — профиль вместе с детьми и устройствами опекуна
type GuardianProfile struct {
	Guardian models.Guardian `json:"guardian"`
	Children []models.Child  `json:"children"`
	Devices  []models.Device `json:"devices"`
}

func (s *GuardianService) ReadGuardian(firebaseUID string) (GuardianProfile, error) {
	guardian, err := s.GuardianRepo.FindByFirebaseUID(firebaseUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GuardianProfile{}, fmt.Errorf("%w: guardian", engine.ErrNotFound)
		}
		return GuardianProfile{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	children, err := s.ChildRepo.FindByGuardianID(guardian.ID)
	if err != nil {
		return GuardianProfile{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	devices, err := s.DeviceRepo.FindByGuardianID(guardian.ID)
	if err != nil {
		return GuardianProfile{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	return GuardianProfile{Guardian: guardian, Children: children, Devices: devices}, nil
}

func (s *GuardianService) UpdateGuardian(firebaseUID string, input models.Guardian) (models.Guardian, error) {
	guardian, err := s.GuardianRepo.FindByFirebaseUID(firebaseUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Guardian{}, fmt.Errorf("%w: guardian", engine.ErrNotFound)
		}
		return models.Guardian{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	if input.Lang != "" {
		guardian.Lang = input.Lang
	}
	if input.Name != "" {
		guardian.Name = input.Name
	}
	if input.Email != "" {
		guardian.Email = input.Email
	}
	if input.Password != "" {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		guardian.Password = string(hashedPassword)
	}

	if err := s.GuardianRepo.Save(&guardian); err != nil {
		return models.Guardian{}, fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	return guardian, nil
}

// DeleteGuardian удаляет учетную запись опекуна целиком: устройства,
// профили детей, запись в Firebase и локальную запись. Ошибка удаления
// из Firebase логируется, но не прерывает удаление локальных данных
// (пользователя там может уже не быть).
func (s *GuardianService) DeleteGuardian(firebaseUID string) error {
	guardian, err := s.GuardianRepo.FindByFirebaseUID(firebaseUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: guardian", engine.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}

	devices, err := s.DeviceRepo.FindByGuardianID(guardian.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	for _, device := range devices {
		if err := s.DeviceRepo.Delete(device.ID); err != nil {
			return fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
		}
	}

	children, err := s.ChildRepo.FindByGuardianID(guardian.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
	}
	for _, child := range children {
		if err := s.ChildRepo.Delete(child.ID); err != nil {
			return fmt.Errorf("%w: %v", engine.ErrTransientStore, err)
		}
	}

	if err := DeleteFirebaseUser(guardian.FirebaseUID); err != nil {
		log.Printf("Ошибка удаления опекуна %s из Firebase: %v", guardian.FirebaseUID, err)
	}

	return s.GuardianRepo.DeleteByFirebaseUID(firebaseUID)
}
