package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/types"
)

// Reason итог проверки окна
type Reason string

const (
	ReasonAccepted              Reason = "accepted"
	ReasonResourceLocked        Reason = "resource_locked"
	ReasonInvalidWindow         Reason = "invalid_window"
	ReasonResourceClosed        Reason = "resource_closed"
	ReasonOutsideOperatingHours Reason = "outside_operating_hours"
	ReasonBookingConflict       Reason = "booking_conflict"
	ReasonBlackoutConflict      Reason = "blackout_conflict"
)

var reasonErrors = map[Reason]error{
	ReasonResourceLocked:        ErrResourceLocked,
	ReasonInvalidWindow:         ErrInvalidWindow,
	ReasonResourceClosed:        ErrResourceClosed,
	ReasonOutsideOperatingHours: ErrOutsideOperatingHours,
	ReasonBookingConflict:       ErrBookingConflict,
	ReasonBlackoutConflict:      ErrBlackoutConflict,
}

// Input всё, что нужно для решения; загружается вызывающим из репозиториев
type Input struct {
	CourtState domain.CourtState

	// StartLocal и EndLocal - показания настенных часов в зоне TimeZone с точностью до минуты.
	// Зона самих значений time.Time игнорируется, используются только дата и время.
	StartLocal time.Time
	EndLocal   time.Time
	TimeZone   string

	// CourtTimeZone зона корта, в которой заданы часы работы.
	// Пусто - совпадает с TimeZone.
	CourtTimeZone string

	Hours     domain.OperatingHours
	Booked    []domain.BookedWindow
	Blackouts []domain.BlackoutWindow
}

// Verdict результат проверки
type Verdict struct {
	Reason Reason

	// Window окно в UTC; заполнено, если удалось перевести локальное время
	Window domain.TimeWindow

	Detail string

	// ConflictBookingID бронирование, с которым пересеклось окно
	ConflictBookingID *uuid.UUID

	// ConflictBlackoutID период недоступности, с которым пересеклось окно
	ConflictBlackoutID *uuid.UUID
}

func (v Verdict) Accepted() bool {
	return v.Reason == ReasonAccepted
}

// Err возвращает nil для принятого окна, иначе sentinel причины с деталями
func (v Verdict) Err() error {
	if v.Accepted() {
		return nil
	}
	sentinel, ok := reasonErrors[v.Reason]
	if !ok {
		return fmt.Errorf("availability: unknown verdict %q", v.Reason)
	}
	if v.Detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, v.Detail)
}

func reject(reason Reason, window domain.TimeWindow, format string, args ...interface{}) Verdict {
	return Verdict{Reason: reason, Window: window, Detail: fmt.Sprintf(format, args...)}
}

// Check решает, можно ли принять окно. Чистая функция: не обращается ни к часам, ни к хранилищу.
// Проверки идут по порядку и останавливаются на первой неудачной.
func Check(in Input, now time.Time) Verdict {
	var none domain.TimeWindow

	// 0. Корт заблокирован, зона не загружается или окно перевёрнуто
	if in.CourtState == domain.CourtStateLocked {
		return reject(ReasonResourceLocked, none, "court is locked")
	}

	loc, err := time.LoadLocation(in.TimeZone)
	if err != nil || in.TimeZone == "" {
		return reject(ReasonInvalidWindow, none, "unknown time zone %q", in.TimeZone)
	}
	courtLoc := loc
	if in.CourtTimeZone != "" && in.CourtTimeZone != in.TimeZone {
		if courtLoc, err = time.LoadLocation(in.CourtTimeZone); err != nil {
			return reject(ReasonInvalidWindow, none, "unknown court time zone %q", in.CourtTimeZone)
		}
	}

	if !minutePrecision(in.StartLocal) || !minutePrecision(in.EndLocal) {
		return reject(ReasonInvalidWindow, none, "window bounds must be whole minutes")
	}

	startWall, endWall := wallClock(in.StartLocal), wallClock(in.EndLocal)
	if !startWall.Before(endWall) {
		return reject(ReasonInvalidWindow, none, "start %s is not before end %s",
			startWall.Format(domain.LocalDateTimeFormat), endWall.Format(domain.LocalDateTimeFormat))
	}

	// 1. Переводим локальное время в UTC; время из дыры перехода на летнее время не существует
	start, ok := resolveLocal(startWall, loc)
	if !ok {
		return reject(ReasonInvalidWindow, none, "%s does not exist in %s",
			startWall.Format(domain.LocalDateTimeFormat), in.TimeZone)
	}
	end, ok := resolveLocal(endWall, loc)
	if !ok {
		return reject(ReasonInvalidWindow, none, "%s does not exist in %s",
			endWall.Format(domain.LocalDateTimeFormat), in.TimeZone)
	}

	window, err := domain.NewTimeWindow(start.UTC(), end.UTC())
	if err != nil {
		return reject(ReasonInvalidWindow, none, "window collapses in %s: %v", in.TimeZone, err)
	}

	// 2. Только будущее
	if !window.Start.After(now) {
		return reject(ReasonInvalidWindow, window, "window starts at %s which is not after now %s",
			window.Start.Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}

	// Дальше только часы корта, в какой бы зоне ни пришёл запрос
	courtStart, courtEnd := wallClock(window.Start.In(courtLoc)), wallClock(window.End.In(courtLoc))

	// 3. Один локальный день; конец ровно в 00:00 следующего дня считается тем же днём
	if !sameLocalDay(courtStart, courtEnd) {
		return reject(ReasonInvalidWindow, window, "window spans more than one local day of the court")
	}

	// 4. Часы работы на локальный день недели корта
	hours, open := in.Hours.ForDay(courtStart.Weekday())
	if !open {
		return reject(ReasonResourceClosed, window, "closed on %s", courtStart.Weekday())
	}

	// 5. Попадание в часы работы с учётом перехода через полночь
	startClock, endClock := types.NewTimeString(courtStart), types.NewTimeString(courtEnd)
	if courtStart.Second() != 0 || courtEnd.Second() != 0 || !hours.ContainsClock(startClock, endClock) {
		return reject(ReasonOutsideOperatingHours, window, "%s-%s is outside %s-%s on %s",
			startClock, endClock, hours.From, hours.To, courtStart.Weekday())
	}

	// 6. Пересечение с бронированиями
	for _, booked := range in.Booked {
		if window.Overlaps(booked.Window) {
			v := reject(ReasonBookingConflict, window, "overlaps booking %s %s", booked.BookingID, booked.Window)
			id := booked.BookingID
			v.ConflictBookingID = &id
			return v
		}
	}

	// 7. Пересечение с периодами недоступности
	for _, blackout := range in.Blackouts {
		if window.Overlaps(blackout.Window) {
			v := reject(ReasonBlackoutConflict, window, "overlaps blackout %s %s", blackout.ID, blackout.Window)
			id := blackout.ID
			v.ConflictBlackoutID = &id
			return v
		}
	}

	// 8. Принято
	return Verdict{Reason: ReasonAccepted, Window: window}
}

// ParseLocal разбирает локальное время формата 2006-01-02T15:04
func ParseLocal(s string) (time.Time, error) {
	t, err := time.Parse(domain.LocalDateTimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not %s", ErrInvalidWindow, s, domain.LocalDateTimeFormat)
	}
	return t, nil
}

// wallClock отбрасывает зону, оставляя показания часов
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// resolveLocal ставит показания часов в зону loc; false, если такого времени там не было
func resolveLocal(wall time.Time, loc *time.Location) (time.Time, bool) {
	t := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, loc)
	return t, wallClock(t).Equal(wall)
}

func minutePrecision(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0
}

func sameLocalDay(start, end time.Time) bool {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed {
		return true
	}
	nextDay := time.Date(sy, sm, sd+1, 0, 0, 0, 0, time.UTC)
	return end.Equal(nextDay)
}
