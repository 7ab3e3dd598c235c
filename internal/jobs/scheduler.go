// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ночная чистка снимков
// и еженедельный перенос неактивных записей в архив.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/common"
	"serotonyl.ru/fortune-bot/internal/features/fortune"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	fortuneService *fortune.Service
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(fortuneService *fortune.Service) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:           c,
		fortuneService: fortuneService,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Чистка снимков прошлых дней в 00:10 по Москве.
	// Не ровно в полночь: даём фору отметкам, прилетевшим на границе дня.
	s.cron.AddFunc("10 0 * * *", func() {
		log.Info("[CRON] Чистка снимков прошлых дней")
		if _, err := s.fortuneService.PurgeOldSnapshots(ctx, common.MoscowTime()); err != nil {
			log.WithError(err).Error("[CRON] Ошибка чистки снимков")
		}
	})

	// Перенос неактивных записей в архив — по понедельникам в 03:00
	s.cron.AddFunc("0 3 * * 1", func() {
		log.Info("[CRON] Перенос неактивных записей в архив")
		if _, err := s.fortuneService.ArchiveStale(ctx, common.MoscowTime()); err != nil {
			log.WithError(err).Error("[CRON] Ошибка архивирования")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен (Europe/Moscow)")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
