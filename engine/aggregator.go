package engine

import (
	"time"

	"GuardianMobile/models"
)

// Resolve объединяет все назначенные устройству расписания в эффективное
// состояние блокировки. Функция чистая и детерминированная; запись кэша на
// устройстве — ответственность вызывающего, не агрегатора.
func Resolve(device models.Device, schedules []models.Schedule, now time.Time) EffectiveDeviceState {
	state := EffectiveDeviceState{
		DeviceID:               device.ID,
		EmergencyAccessAllowed: true,
		ActiveScheduleIDs:      []uint{},
		ComputedAt:             now.UTC(),
	}

	// Жесткое предусловие: устройством без одобренного согласия нельзя
	// управлять удаленно, сколько бы расписаний ни было активно
	if !device.HasConsent() {
		return state
	}

	for _, s := range schedules {
		if !IsActive(s, now, device.Timezone) {
			continue
		}

		state.ActiveScheduleIDs = append(state.ActiveScheduleIDs, s.ID)

		// Наиболее строгое ограничение побеждает
		if s.NetworkRestrictionLevel > state.RestrictionLevel {
			state.RestrictionLevel = s.NetworkRestrictionLevel
		}
		state.RestrictWifi = state.RestrictWifi || s.RestrictWifi
		state.RestrictMobileData = state.RestrictMobileData || s.RestrictMobileData

		// Экстренный доступ запрещен, если хотя бы одно активное
		// расписание его запрещает
		state.EmergencyAccessAllowed = state.EmergencyAccessAllowed && s.AllowEmergencyAccess
	}

	state.IsLocked = len(state.ActiveScheduleIDs) > 0
	return state
}
