package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/types"
)

// DayHours локальное время работы корта в один день недели (без даты)
// From > To означает, что интервал переходит через полночь (22:00-02:00)
type DayHours struct {
	From types.TimeString
	To   types.TimeString
}

// Validate checks both bounds and rejects From == To
func (h DayHours) Validate() error {
	if err := h.From.Validate(); err != nil {
		return fmt.Errorf("%w: from: %v", ErrInvalidOperatingHours, err)
	}
	if err := h.To.Validate(); err != nil {
		return fmt.Errorf("%w: to: %v", ErrInvalidOperatingHours, err)
	}
	if h.From == h.To {
		return fmt.Errorf("%w: from and to are equal (%s)", ErrInvalidOperatingHours, h.From)
	}
	return nil
}

func (h DayHours) CrossesMidnight() bool {
	return h.From.Minutes() > h.To.Minutes()
}

// ContainsClock проверяет, что локальный интервал [start, end) целиком лежит в часах работы.
//
// Обе границы переносятся на 48-часовую шкалу, привязанную к From:
// конец часов работы сдвигается на сутки, если он не позже начала,
// конец кандидата сдвигается на сутки, если он не позже его начала,
// а кандидат целиком сдвигается на сутки, если начинается раньше From.
// Так 22:00-02:00 содержит 23:00-01:00 и 00:30-01:30, но не 03:00-04:00.
// From == To не содержит ничего.
func (h DayHours) ContainsClock(start, end types.TimeString) bool {
	opFrom, opTo := h.From.Minutes(), h.To.Minutes()
	cs, ce := start.Minutes(), end.Minutes()
	if opFrom < 0 || opTo < 0 || cs < 0 || ce < 0 || opFrom == opTo {
		return false
	}

	opEnd := opTo
	if opTo <= opFrom {
		opEnd += types.MinutesPerDay
	}
	if ce <= cs {
		ce += types.MinutesPerDay
	}
	if cs < opFrom {
		cs += types.MinutesPerDay
		ce += types.MinutesPerDay
	}

	return opFrom <= cs && ce <= opEnd
}

// OperatingHours часы работы по дням недели; отсутствующий день = корт закрыт
type OperatingHours map[time.Weekday]DayHours

// ForDay returns hours for the weekday and whether the court is open that day
func (o OperatingHours) ForDay(day time.Weekday) (DayHours, bool) {
	if o == nil {
		return DayHours{}, false
	}
	h, ok := o[day]
	return h, ok
}

func (o OperatingHours) Validate() error {
	for day, h := range o {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrInvalidOperatingHours, day)
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// ParseWeekday принимает английское название дня недели в любом регистре ("monday", "Mon")
func ParseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, true
		}
	}
	return 0, false
}
