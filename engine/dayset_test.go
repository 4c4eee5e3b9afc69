package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumericDays(t *testing.T) {
	set := ParseDaySet("[0,6]")

	assert.True(t, set.Contains(time.Sunday))
	assert.True(t, set.Contains(time.Saturday))
	assert.False(t, set.Contains(time.Monday))
}

func TestParseNamedDays(t *testing.T) {
	// Полные и трехбуквенные имена, регистр не важен
	set := ParseDaySet(`["Mon", "tuesday", "FRI"]`)

	assert.True(t, set.Contains(time.Monday))
	assert.True(t, set.Contains(time.Tuesday))
	assert.True(t, set.Contains(time.Friday))
	assert.False(t, set.Contains(time.Sunday))
}

func TestParseLegacyCommaDays(t *testing.T) {
	// Старый формат мобильного бэкенда: 1=понедельник .. 7=воскресенье
	set := ParseDaySet("1,2,3,4,5,6,7")
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		assert.True(t, set.Contains(wd))
	}

	weekdays := ParseDaySet("1,2,3,4,5")
	assert.True(t, weekdays.Contains(time.Monday))
	assert.True(t, weekdays.Contains(time.Friday))
	assert.False(t, weekdays.Contains(time.Saturday))
	assert.False(t, weekdays.Contains(time.Sunday))
}

func TestParseMalformedDaysIsEmpty(t *testing.T) {
	cases := []string{
		"",
		"  ",
		"[7]", // вне диапазона 0..6 для числового формата
		"[-1]",
		`["понедельник"]`,
		`[1, "Mon"]`, // смешанный массив не угадываем
		"0,8",        // вне диапазона устаревшего формата
		"every day",
		`{"mon":true}`,
	}
	for _, raw := range cases {
		assert.True(t, ParseDaySet(raw).IsEmpty(), "raw=%q", raw)
	}
}

func TestParseDaysNeverPanics(t *testing.T) {
	// Разбор мусора не должен паниковать — только пустое множество
	assert.NotPanics(t, func() {
		ParseDaySet(`[[["x"]]]`)
		ParseDaySet("\x00\xff")
		ParseDaySet("[")
	})
}
