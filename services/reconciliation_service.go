package services

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"

	"GuardianMobile/engine"
	"GuardianMobile/models"
	"GuardianMobile/repositories"
)

// StateBroadcaster доставляет дельты состояния на панель опекуна.
// Реализуется WebSocket-хабом; опрос через HTTP работает и без него.
type StateBroadcaster interface {
	BroadcastDeviceState(guardianUID string, view DeviceStateView)
}

// ReconciliationService — периодический цикл сверки. Каждый проход заново
// выводит состояние каждого активного устройства из агрегатора и
// поднимает наверх только изменения. Между проходами не переносится
// никакого инкрементального состояния.
type ReconciliationService struct {
	DeviceRepo   repositories.DeviceRepository
	GuardianRepo repositories.GuardianRepository
	LockState    *LockStateService
	Broadcaster  StateBroadcaster
	Interval     time.Duration
}

func NewReconciliationService(
	deviceRepo repositories.DeviceRepository,
	guardianRepo repositories.GuardianRepository,
	lockState *LockStateService,
	broadcaster StateBroadcaster,
) *ReconciliationService {
	return &ReconciliationService{
		DeviceRepo:   deviceRepo,
		GuardianRepo: guardianRepo,
		LockState:    lockState,
		Broadcaster:  broadcaster,
		Interval:     reconcileInterval(),
	}
}

// reconcileInterval читает интервал сверки из окружения, по умолчанию 15 секунд
func reconcileInterval() time.Duration {
	if raw := os.Getenv("RECONCILE_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		log.Printf("[RECONCILE] Некорректный RECONCILE_INTERVAL %q, используется 15s", raw)
	}
	return 15 * time.Second
}

// Run запускает цикл сверки до отмены контекста
func (s *ReconciliationService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	log.Printf("[RECONCILE] Цикл сверки запущен, интервал %s", s.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("[RECONCILE] Цикл сверки остановлен")
			return
		case now := <-ticker.C:
			s.reconcileAll(now)
		}
	}
}

// reconcileAll выполняет один полный проход по всем активным устройствам
func (s *ReconciliationService) reconcileAll(now time.Time) {
	devices, err := s.DeviceRepo.FindActive()
	if err != nil {
		// Временная ошибка хранилища: следующий тик повторит проход
		log.Printf("[RECONCILE] Ошибка чтения устройств: %v", err)
		return
	}

	for _, device := range devices {
		s.reconcileDevice(device, now)
	}
}

func (s *ReconciliationService) reconcileDevice(device models.Device, now time.Time) {
	previous := decodeCachedState(device.LockState)

	state, err := s.LockState.EvaluateDevice(device.ID, now)
	if err != nil {
		log.Printf("[RECONCILE] Ошибка пересчета устройства %d: %v", device.ID, err)
		return
	}

	if previous != nil && statesEqual(*previous, state) {
		return
	}

	log.Printf("[RECONCILE] Устройство %d: locked=%v level=%d активных расписаний %d",
		device.ID, state.IsLocked, state.RestrictionLevel, len(state.ActiveScheduleIDs))

	if s.Broadcaster == nil {
		return
	}

	guardian, err := s.GuardianRepo.FindByID(device.GuardianID)
	if err != nil {
		log.Printf("[RECONCILE] Опекун устройства %d не найден: %v", device.ID, err)
		return
	}

	s.Broadcaster.BroadcastDeviceState(guardian.FirebaseUID, ComposeView(device, state))
}

// decodeCachedState разбирает прошлый кэш состояния; пустой или
// испорченный кэш означает, что дельту нужно поднять в любом случае
func decodeCachedState(raw string) *engine.EffectiveDeviceState {
	if raw == "" {
		return nil
	}
	var state engine.EffectiveDeviceState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil
	}
	return &state
}

// statesEqual сравнивает состояния без учета отметки времени пересчета
func statesEqual(a, b engine.EffectiveDeviceState) bool {
	if a.IsLocked != b.IsLocked ||
		a.RestrictionLevel != b.RestrictionLevel ||
		a.RestrictWifi != b.RestrictWifi ||
		a.RestrictMobileData != b.RestrictMobileData ||
		a.EmergencyAccessAllowed != b.EmergencyAccessAllowed {
		return false
	}
	if len(a.ActiveScheduleIDs) != len(b.ActiveScheduleIDs) {
		return false
	}
	for i := range a.ActiveScheduleIDs {
		if a.ActiveScheduleIDs[i] != b.ActiveScheduleIDs[i] {
			return false
		}
	}
	return true
}
