package services

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories"
)

// AuditService записывает события безопасности: несовпадения идентичности,
// привязки отпечатков, решения по согласию и ручные переопределения.
// Идентификаторы всегда маскируются перед записью.
type AuditService struct {
	AuditRepo repositories.AuditRepository
}

func NewAuditService(auditRepo repositories.AuditRepository) *AuditService {
	return &AuditService{AuditRepo: auditRepo}
}

// RecordIdentityMismatch фиксирует отказ шлюза. Записываются и заявленные,
// и сохраненные идентификаторы с пониженной точностью.
func (s *AuditService) RecordIdentityMismatch(device models.Device, claimed engine.ClaimedIdentity) {
	s.record(device, models.AuditIdentityMismatch, map[string]string{
		"claimed_phone":       maskPhone(claimed.PhoneNumber),
		"claimed_fingerprint": maskFingerprint(claimed.Fingerprint),
		"stored_phone":        maskPhone(device.PhoneNumber),
		"stored_fingerprint":  maskFingerprint(device.Fingerprint),
	})
}

// RecordFingerprintPinned фиксирует закрепление отпечатка при первом
// успешном подключении
func (s *AuditService) RecordFingerprintPinned(device models.Device, fingerprint string) {
	s.record(device, models.AuditFingerprintPinned, map[string]string{
		"fingerprint": maskFingerprint(fingerprint),
	})
}

// RecordFingerprintRePin фиксирует перепривязку отпечатка через поток
// согласия (перерегистрация устройства)
func (s *AuditService) RecordFingerprintRePin(device models.Device, oldFingerprint, newFingerprint string) {
	s.record(device, models.AuditFingerprintRePin, map[string]string{
		"old_fingerprint": maskFingerprint(oldFingerprint),
		"new_fingerprint": maskFingerprint(newFingerprint),
	})
}

// RecordConsentDecision фиксирует одобрение или отклонение согласия
func (s *AuditService) RecordConsentDecision(device models.Device, approved bool) {
	event := models.AuditConsentApproved
	if !approved {
		event = models.AuditConsentDenied
	}
	s.record(device, event, nil)
}

// RecordOverride фиксирует установку или снятие ручного переопределения
func (s *AuditService) RecordOverride(device models.Device, state string) {
	event := models.AuditOverrideSet
	if state == models.OverrideNone {
		event = models.AuditOverrideCleared
	}
	s.record(device, event, map[string]string{"state": state})
}

func (s *AuditService) record(device models.Device, event string, detail map[string]string) {
	var detailJSON string
	if detail != nil {
		data, err := json.Marshal(detail)
		if err == nil {
			detailJSON = string(data)
		}
	}

	entry := models.AuditLog{
		DeviceID:   device.ID,
		GuardianID: device.GuardianID,
		Event:      event,
		Detail:     detailJSON,
		CreatedAt:  time.Now(),
	}

	// Журнал не должен ронять основной поток: ошибку записи только логируем
	if err := s.AuditRepo.Save(&entry); err != nil {
		log.Printf("[AUDIT] Ошибка записи события %s для устройства %d: %v", event, device.ID, err)
	}
}

// maskPhone оставляет только последние две цифры номера
func maskPhone(phone string) string {
	if phone == "" {
		return ""
	}
	if len(phone) <= 2 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}

// maskFingerprint оставляет первые четыре символа отпечатка
func maskFingerprint(fingerprint string) string {
	if fingerprint == "" {
		return ""
	}
	if len(fingerprint) <= 4 {
		return fingerprint[:1] + "..."
	}
	return fingerprint[:4] + "..."
}
