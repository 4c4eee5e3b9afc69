package engine

import (
	"strconv"
	"strings"
	"time"

	"GuardianMobile/models"
)

// IsActive решает, активно ли расписание в данный момент для устройства в
// указанной временной зоне. Функция чистая: одинаковые входы всегда дают
// одинаковый результат, что требуется для идемпотентности цикла сверки.
func IsActive(s models.Schedule, now time.Time, timezone string) bool {
	// Административно выключенное расписание неактивно независимо от окна
	if !s.IsActive {
		return false
	}

	local := now.In(loadZone(timezone))

	if !ParseDaySet(s.DaysOfWeek).Contains(local.Weekday()) {
		return false
	}

	start, ok := parseClock(s.StartTime)
	if !ok {
		return false
	}
	end, ok := parseClock(s.EndTime)
	if !ok {
		return false
	}

	minutes := local.Hour()*60 + local.Minute()

	if start <= end {
		// Обычное окно в пределах одного дня, границы включительно
		return minutes >= start && minutes <= end
	}
	// Окно через полночь: [start, 24:00) ∪ [00:00, end]
	return minutes >= start || minutes <= end
}

// loadZone загружает зону устройства; неизвестная или пустая зона — UTC.
// Это безопасное значение по умолчанию, а не ошибка.
func loadZone(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// parseClock разбирает время "HH:MM" в минуты с начала суток
func parseClock(clock string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}
