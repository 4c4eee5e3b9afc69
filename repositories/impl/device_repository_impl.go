package impl

import (
	"time"

	"GuardianMobile/models"
	"GuardianMobile/repositories"

	"gorm.io/gorm"
)

type DeviceRepositoryImpl struct {
	DB *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) repositories.DeviceRepository {
	return &DeviceRepositoryImpl{DB: db}
}

func (r *DeviceRepositoryImpl) FindByID(id uint) (models.Device, error) {
	var device models.Device
	if err := r.DB.First(&device, id).Error; err != nil {
		return models.Device{}, err
	}
	return device, nil
}

func (r *DeviceRepositoryImpl) FindByPhoneOrFingerprint(phone, fingerprint string) (models.Device, error) {
	var device models.Device

	// Сначала ищем по номеру телефона — основной ключ поиска
	if phone != "" {
		if err := r.DB.Where("phone_number = ?", phone).First(&device).Error; err == nil {
			return device, nil
		}
	}

	// Затем по отпечатку, если он заявлен
	if fingerprint != "" {
		if err := r.DB.Where("fingerprint = ?", fingerprint).First(&device).Error; err == nil {
			return device, nil
		}
	}

	return models.Device{}, gorm.ErrRecordNotFound
}

func (r *DeviceRepositoryImpl) FindByGuardianID(guardianID uint) ([]models.Device, error) {
	var devices []models.Device
	if err := r.DB.Where("guardian_id = ?", guardianID).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *DeviceRepositoryImpl) FindActive() ([]models.Device, error) {
	var devices []models.Device
	if err := r.DB.Where("is_active = ?", true).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *DeviceRepositoryImpl) Save(device *models.Device) error {
	return r.DB.Save(device).Error
}

func (r *DeviceRepositoryImpl) SetOverrideForGuardian(guardianID uint, state string, setAt *time.Time) error {
	return r.DB.Model(&models.Device{}).Where("guardian_id = ?", guardianID).
		Updates(map[string]interface{}{"override_state": state, "override_set_at": setAt}).Error
}

func (r *DeviceRepositoryImpl) SetCachedLockState(deviceID uint, isLocked bool, stateJSON string) error {
	return r.DB.Model(&models.Device{}).Where("id = ?", deviceID).
		Updates(map[string]interface{}{"is_locked": isLocked, "lock_state": stateJSON}).Error
}

func (r *DeviceRepositoryImpl) Delete(deviceID uint) error {
	// Устройство удаляется вместе со связями и журналом в одной транзакции
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", deviceID).Delete(&models.DeviceSchedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", deviceID).Delete(&models.AuditLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Device{}, deviceID).Error
	})
}
