package scheduler

import "time"

// Config интервалы фоновых воркеров
type Config struct {
	PendingGracePeriod time.Duration // сколько pending бронирование ждёт оплату
	PollInterval       time.Duration // тик reaper в активной фазе
	IdleProbe          time.Duration // проверка очереди в простое
	AdvanceInterval    time.Duration // тик перевода confirmed/in_progress
	DeleteExpired      bool          // удалять просроченные вместо отмены
}

const (
	workerReaper   = "reaper"
	workerAdvancer = "advancer"
)
