package models

import "time"

// Типы событий безопасности
const (
	AuditIdentityMismatch  = "identity_mismatch"
	AuditFingerprintPinned = "fingerprint_pinned"
	AuditFingerprintRePin  = "fingerprint_repin"
	AuditConsentApproved   = "consent_approved"
	AuditConsentDenied     = "consent_denied"
	AuditOverrideSet       = "override_set"
	AuditOverrideCleared   = "override_cleared"
)

// AuditLog хранит события безопасности: несовпадения идентичности, привязки
// отпечатков, решения по согласию и ручные переопределения.
// Идентификаторы записываются с пониженной точностью (см. audit_service).
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primary_key"`
	DeviceID   uint      `json:"device_id" gorm:"index"`
	GuardianID uint      `json:"guardian_id" gorm:"index"`
	Event      string    `json:"event"`
	Detail     string    `json:"detail"` // Дополнительные данные события в JSON
	CreatedAt  time.Time `json:"created_at"`
}
