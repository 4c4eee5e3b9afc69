package models

// DeviceSchedule связывает устройство с расписанием (многие-ко-многим).
// Пара (device_id, schedule_id) уникальна; повторная вставка той же пары
// обрабатывается как успешный no-op.
type DeviceSchedule struct {
	ID         uint `json:"id" gorm:"primary_key"`
	DeviceID   uint `json:"device_id" gorm:"uniqueIndex:idx_device_schedule"`
	ScheduleID uint `json:"schedule_id" gorm:"uniqueIndex:idx_device_schedule"`
}
