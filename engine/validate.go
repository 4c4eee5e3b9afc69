package engine

import (
	"fmt"

	"GuardianMobile/models"
)

// ValidateSchedule проверяет расписание перед записью в хранилище.
// Оценщик деградирует на испорченных данных молча; на пути записи
// некорректный ввод отклоняется явно.
func ValidateSchedule(s models.Schedule) error {
	if _, ok := parseClock(s.StartTime); !ok {
		return fmt.Errorf("%w: bad start time %q", ErrValidation, s.StartTime)
	}
	if _, ok := parseClock(s.EndTime); !ok {
		return fmt.Errorf("%w: bad end time %q", ErrValidation, s.EndTime)
	}
	if s.NetworkRestrictionLevel < models.RestrictionNone || s.NetworkRestrictionLevel > models.RestrictionFullBlock {
		return fmt.Errorf("%w: bad restriction level %d", ErrValidation, s.NetworkRestrictionLevel)
	}
	if s.DaysOfWeek != "" && ParseDaySet(s.DaysOfWeek).IsEmpty() {
		return fmt.Errorf("%w: unparsable days of week %q", ErrValidation, s.DaysOfWeek)
	}
	return nil
}
