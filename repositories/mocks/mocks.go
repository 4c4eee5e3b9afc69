// Package mocks содержит testify-моки репозиториев для модульных тестов
package mocks

import (
	"time"

	"GuardianMobile/models"

	"github.com/stretchr/testify/mock"
)

type GuardianRepository struct {
	mock.Mock
}

func (m *GuardianRepository) FindByID(id uint) (models.Guardian, error) {
	args := m.Called(id)
	return args.Get(0).(models.Guardian), args.Error(1)
}

func (m *GuardianRepository) FindByFirebaseUID(firebaseUID string) (models.Guardian, error) {
	args := m.Called(firebaseUID)
	return args.Get(0).(models.Guardian), args.Error(1)
}

func (m *GuardianRepository) FindByEmail(email string) (models.Guardian, error) {
	args := m.Called(email)
	return args.Get(0).(models.Guardian), args.Error(1)
}

func (m *GuardianRepository) FindByCode(code string) (models.Guardian, error) {
	args := m.Called(code)
	return args.Get(0).(models.Guardian), args.Error(1)
}

func (m *GuardianRepository) CountByCode(code string, count *int64) error {
	args := m.Called(code, count)
	return args.Error(0)
}

func (m *GuardianRepository) Save(guardian *models.Guardian) error {
	args := m.Called(guardian)
	return args.Error(0)
}

func (m *GuardianRepository) DeleteByFirebaseUID(firebaseUID string) error {
	args := m.Called(firebaseUID)
	return args.Error(0)
}

type ChildRepository struct {
	mock.Mock
}

func (m *ChildRepository) FindByID(id uint) (models.Child, error) {
	args := m.Called(id)
	return args.Get(0).(models.Child), args.Error(1)
}

func (m *ChildRepository) FindByGuardianID(guardianID uint) ([]models.Child, error) {
	args := m.Called(guardianID)
	return args.Get(0).([]models.Child), args.Error(1)
}

func (m *ChildRepository) Save(child *models.Child) error {
	args := m.Called(child)
	return args.Error(0)
}

func (m *ChildRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type DeviceRepository struct {
	mock.Mock
}

func (m *DeviceRepository) FindByID(id uint) (models.Device, error) {
	args := m.Called(id)
	return args.Get(0).(models.Device), args.Error(1)
}

func (m *DeviceRepository) FindByPhoneOrFingerprint(phone, fingerprint string) (models.Device, error) {
	args := m.Called(phone, fingerprint)
	return args.Get(0).(models.Device), args.Error(1)
}

func (m *DeviceRepository) FindByGuardianID(guardianID uint) ([]models.Device, error) {
	args := m.Called(guardianID)
	return args.Get(0).([]models.Device), args.Error(1)
}

func (m *DeviceRepository) FindActive() ([]models.Device, error) {
	args := m.Called()
	return args.Get(0).([]models.Device), args.Error(1)
}

func (m *DeviceRepository) Save(device *models.Device) error {
	args := m.Called(device)
	return args.Error(0)
}

func (m *DeviceRepository) SetOverrideForGuardian(guardianID uint, state string, setAt *time.Time) error {
	args := m.Called(guardianID, state, setAt)
	return args.Error(0)
}

func (m *DeviceRepository) SetCachedLockState(deviceID uint, isLocked bool, stateJSON string) error {
	args := m.Called(deviceID, isLocked, stateJSON)
	return args.Error(0)
}

func (m *DeviceRepository) Delete(deviceID uint) error {
	args := m.Called(deviceID)
	return args.Error(0)
}

type ScheduleRepository struct {
	mock.Mock
}

func (m *ScheduleRepository) FindByID(id uint) (models.Schedule, error) {
	args := m.Called(id)
	return args.Get(0).(models.Schedule), args.Error(1)
}

func (m *ScheduleRepository) FindByGuardianID(guardianID uint) ([]models.Schedule, error) {
	args := m.Called(guardianID)
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *ScheduleRepository) Save(schedule *models.Schedule) error {
	args := m.Called(schedule)
	return args.Error(0)
}

func (m *ScheduleRepository) Delete(scheduleID uint) error {
	args := m.Called(scheduleID)
	return args.Error(0)
}

type DeviceScheduleRepository struct {
	mock.Mock
}

func (m *DeviceScheduleRepository) EnsureAssigned(deviceID, scheduleID uint) error {
	args := m.Called(deviceID, scheduleID)
	return args.Error(0)
}

func (m *DeviceScheduleRepository) Unassign(deviceID, scheduleID uint) error {
	args := m.Called(deviceID, scheduleID)
	return args.Error(0)
}

func (m *DeviceScheduleRepository) GetAssignedSchedules(deviceID uint) ([]models.Schedule, error) {
	args := m.Called(deviceID)
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *DeviceScheduleRepository) GetAssignedDevices(scheduleID uint) ([]models.Device, error) {
	args := m.Called(scheduleID)
	return args.Get(0).([]models.Device), args.Error(1)
}

type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Save(entry *models.AuditLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *AuditRepository) FindByGuardianID(guardianID uint, limit int) ([]models.AuditLog, error) {
	args := m.Called(guardianID, limit)
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func (m *AuditRepository) FindByDeviceID(deviceID uint, limit int) ([]models.AuditLog, error) {
	args := m.Called(deviceID, limit)
	return args.Get(0).([]models.AuditLog), args.Error(1)
}
