package engine

import "GuardianMobile/models"

// Исходы проверки идентичности и согласия
const (
	OutcomeAllow           = "allow"
	OutcomeDeny            = "deny"
	OutcomeRequiresConsent = "requires_consent"
)

// Причины отказа. Причина несовпадения идентичности никогда не уточняет,
// какой из факторов (телефон или отпечаток) не совпал.
const (
	ReasonIdentityMismatch = "IDENTITY_MISMATCH"
	ReasonConsentDenied    = "CONSENT_DENIED"
)

// ClaimedIdentity — идентичность, заявленная устройством при подключении
// или heartbeat. Отпечаток опционален.
type ClaimedIdentity struct {
	PhoneNumber string `json:"phone_number"`
	Fingerprint string `json:"fingerprint"`
}

// GateResult — решение шлюза идентичности и согласия
type GateResult struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`

	// PinFingerprint сигнализирует вызывающему, что отпечаток нужно
	// закрепить за записью устройства (доверие при первом подключении).
	// Сохранение — ответственность вызывающего, не шлюза.
	PinFingerprint bool `json:"-"`
}

// Authorize сверяет заявленную идентичность с сохраненной записью
// устройства. Сопоставление дизъюнктивное: достаточно совпадения телефона,
// совпадения отпечатка, либо отсутствия сохраненного отпечатка (он еще не
// закреплен). Отказ только когда телефон не совпал И сохраненный отпечаток
// существует и расходится с заявленным.
func Authorize(claimed ClaimedIdentity, stored models.Device) GateResult {
	phoneMatch := claimed.PhoneNumber != "" && claimed.PhoneNumber == stored.PhoneNumber
	fingerprintMatch := stored.Fingerprint != "" && claimed.Fingerprint == stored.Fingerprint
	unpinned := stored.Fingerprint == ""

	if !phoneMatch && !fingerprintMatch && !unpinned {
		return GateResult{Outcome: OutcomeDeny, Reason: ReasonIdentityMismatch}
	}

	pin := unpinned && claimed.Fingerprint != ""

	switch stored.ConsentStatus {
	case models.ConsentApproved:
		return GateResult{Outcome: OutcomeAllow, PinFingerprint: pin}
	case models.ConsentDenied:
		return GateResult{Outcome: OutcomeDeny, Reason: ReasonConsentDenied}
	default:
		// Согласие еще не запрошено или ожидает решения: это не отказ,
		// вызывающий должен показать запрос одобрения
		return GateResult{Outcome: OutcomeRequiresConsent, PinFingerprint: pin}
	}
}
