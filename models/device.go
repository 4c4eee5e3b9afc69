package models

import "time"

// Статусы согласия пользователя управляемого устройства
const (
	ConsentPending  = "pending"
	ConsentApproved = "approved"
	ConsentDenied   = "denied"
)

// Этапы регистрации устройства (машина состояний на стороне устройства)
const (
	StageUnregistered    = "unregistered"
	StageIdentityPending = "identity_pending"
	StageConsentPending  = "consent_pending"
	StageApproved        = "approved"
	StageDeniedStage     = "denied"
	StageActive          = "active"
)

// Состояния ручного переопределения блокировки (lock-all / unlock-all)
const (
	OverrideNone     = ""
	OverrideLocked   = "locked"
	OverrideUnlocked = "unlocked"
)

type Device struct {
	ID          uint   `json:"id" gorm:"primary_key"`
	ChildID     uint   `json:"child_id"`                  // Ребенок, которому принадлежит устройство
	GuardianID  uint   `json:"guardian_id"`               // Денормализованная ссылка на опекуна
	Fingerprint string `json:"fingerprint"`               // Отпечаток устройства, может быть пустым до первой привязки
	PhoneNumber string `json:"phone_number" gorm:"index"` // Номер телефона устройства
	Timezone    string `json:"timezone"`                  // IANA имя зоны, пустое значение = UTC
	IsActive    bool   `json:"is_active"`
	IsLocked    bool   `json:"is_locked"`  // Кэш последнего вычисленного состояния, не источник истины
	LockState   string `json:"lock_state"` // Кэш полного EffectiveDeviceState в JSON

	ConsentStatus     string `json:"consent_status" gorm:"default:pending"`
	RegistrationStage string `json:"registration_stage" gorm:"default:unregistered"`

	// Ручное переопределение хранится отдельно от расписаний и кэша,
	// чтобы оба сигнала оставались раздельно аудируемыми
	OverrideState string     `json:"override_state"`
	OverrideSetAt *time.Time `json:"override_set_at"`

	LastSeenAt *time.Time `json:"last_seen_at"`
}

// HasConsent сообщает, одобрено ли удаленное управление устройством
func (d *Device) HasConsent() bool {
	return d.ConsentStatus == ConsentApproved
}

// ConsentDecided сообщает, принято ли решение по согласию (одобрено или отклонено)
func (d *Device) ConsentDecided() bool {
	return d.ConsentStatus == ConsentApproved || d.ConsentStatus == ConsentDenied
}

// Touch обновляет отметку последней активности устройства
func (d *Device) Touch() {
	now := time.Now()
	d.LastSeenAt = &now
}
