package repositories

import (
	"time"

	"GuardianMobile/models"
)

type DeviceRepository interface {
	FindByID(id uint) (models.Device, error)
	// FindByPhoneOrFingerprint ищет запись устройства по заявленной
	// идентичности: сначала по номеру телефона, затем по отпечатку
	FindByPhoneOrFingerprint(phone, fingerprint string) (models.Device, error)
	FindByGuardianID(guardianID uint) ([]models.Device, error)
	FindActive() ([]models.Device, error)
	Save(device *models.Device) error
	// SetOverrideForGuardian выставляет ручное переопределение на все
	// устройства опекуна одним запросом: частичного применения не бывает
	SetOverrideForGuardian(guardianID uint, state string, setAt *time.Time) error
	// SetCachedLockState — единственный путь записи кэша состояния
	// блокировки; никакой другой компонент не пишет это поле
	SetCachedLockState(deviceID uint, isLocked bool, stateJSON string) error
	// Delete удаляет устройство вместе со связями и записями журнала
	Delete(deviceID uint) error
}
