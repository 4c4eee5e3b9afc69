package models

// Уровни сетевых ограничений во время блокировки
const (
	RestrictionNone      = 0 // Без ограничений
	RestrictionAppLevel  = 1 // Блокировка на уровне приложений
	RestrictionWifiOnly  = 2 // Только Wi-Fi
	RestrictionFullBlock = 3 // Полная блокировка сети
)

// Schedule представляет повторяющееся временное окно блокировки устройства
type Schedule struct {
	ID         uint   `json:"id" gorm:"primary_key"`
	GuardianID uint   `json:"guardian_id" gorm:"index"`
	Label      string `json:"label"`
	StartTime  string `json:"start_time"`   // Время начала, формат "HH:MM"
	EndTime    string `json:"end_time"`     // Время окончания, формат "HH:MM"; start > end означает окно через полночь
	DaysOfWeek string `json:"days_of_week"` // Дни недели как записаны в хранилище: JSON массив чисел или имен, либо строка "1,...,7"
	IsActive   bool   `json:"is_active"`    // Административное включение, не зависит от временного окна

	NetworkRestrictionLevel int  `json:"network_restriction_level"`
	RestrictWifi            bool `json:"restrict_wifi"`
	RestrictMobileData      bool `json:"restrict_mobile_data"`
	AllowEmergencyAccess    bool `json:"allow_emergency_access"`
}
