package engine

import "time"

// EffectiveDeviceState — вычисленное состояние устройства. Оно выводится из
// назначенных расписаний и статуса согласия при каждом проходе сверки;
// кэш на записи устройства никогда не является источником истины.
type EffectiveDeviceState struct {
	DeviceID               uint      `json:"device_id"`
	IsLocked               bool      `json:"is_locked"`
	RestrictionLevel       int       `json:"restriction_level"`
	RestrictWifi           bool      `json:"restrict_wifi"`
	RestrictMobileData     bool      `json:"restrict_mobile_data"`
	EmergencyAccessAllowed bool      `json:"emergency_access_allowed"`
	ActiveScheduleIDs      []uint    `json:"active_schedule_ids"`
	ComputedAt             time.Time `json:"computed_at"`
}
