package engine

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DaySet — каноническое множество дней недели (0=воскресенье .. 6=суббота).
// Хранилище кодирует дни тремя способами: JSON массив чисел, JSON массив
// имен дней и устаревшая строка "1,...,7" (1=понедельник), которую писал
// старый мобильный бэкенд. Все три нормализуются здесь.
type DaySet struct {
	days [7]bool
}

// Имена дней недели, принимаемые при разборе (полные и трехбуквенные)
var dayNames = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// ParseDaySet разбирает значение из хранилища в каноническое множество.
// Некорректные данные никогда не приводят к ошибке: результат — пустое
// множество, расписание просто никогда не активно.
func ParseDaySet(raw string) DaySet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DaySet{}
	}

	// Сначала пробуем JSON массив
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err == nil {
		return parseJSONDays(elems)
	}

	// Иначе устаревший формат "1,2,3" (1=понедельник .. 7=воскресенье)
	return parseLegacyDays(raw)
}

// parseJSONDays разбирает однородный JSON массив: либо все числа, либо все
// имена. Смешанные и некорректные элементы отбрасывают весь набор — лучше
// неактивное расписание, чем угаданное.
func parseJSONDays(elems []json.RawMessage) DaySet {
	var set DaySet
	numeric := false
	for i, e := range elems {
		var n int
		if err := json.Unmarshal(e, &n); err == nil {
			if i > 0 && !numeric {
				return DaySet{}
			}
			numeric = true
			if n < 0 || n > 6 {
				return DaySet{}
			}
			set.days[n] = true
			continue
		}

		var name string
		if err := json.Unmarshal(e, &name); err == nil {
			if numeric {
				return DaySet{}
			}
			idx, ok := dayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return DaySet{}
			}
			set.days[idx] = true
			continue
		}

		return DaySet{}
	}
	return set
}

// parseLegacyDays разбирает строку "1,2,...,7", где 1 — понедельник
func parseLegacyDays(raw string) DaySet {
	var set DaySet
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 7 {
			return DaySet{}
		}
		// 7 (воскресенье) переходит в 0
		set.days[n%7] = true
	}
	return set
}

// Contains проверяет, входит ли день недели в множество
func (s DaySet) Contains(wd time.Weekday) bool {
	return s.days[int(wd)]
}

// IsEmpty сообщает, что ни один день не выбран
func (s DaySet) IsEmpty() bool {
	for _, d := range s.days {
		if d {
			return false
		}
	}
	return true
}
