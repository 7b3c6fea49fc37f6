package get_available_slots

import (
	"time"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/availability"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/types"
)

// segment полуоткрытый интервал минут от начала локального дня
type segment struct {
	from, to int
}

// daySegments режет часы работы по границам локального дня.
// Для 22:00-02:00 получаем [00:00, 02:00) и [22:00, 24:00): хвост прошлой ночи и начало текущей.
func daySegments(hours domain.DayHours) []segment {
	from, to := hours.From.Minutes(), hours.To.Minutes()
	if !hours.CrossesMidnight() {
		return []segment{{from: from, to: to}}
	}

	segments := make([]segment, 0, 2)
	if to > 0 {
		segments = append(segments, segment{from: 0, to: to})
	}
	return append(segments, segment{from: from, to: types.MinutesPerDay})
}

// generateSlots строит сетку с шагом duration и оставляет слоты, которые принял бы checker.
// Каждый слот проходит ту же проверку, что и создание бронирования.
func generateSlots(date time.Time, duration int, base availability.Input, now time.Time) []domain.AvailableSlot {
	hours, ok := base.Hours.ForDay(date.Weekday())
	if !ok {
		return []domain.AvailableSlot{}
	}

	midnight := dateOnly(date)
	result := make([]domain.AvailableSlot, 0)

	for _, seg := range daySegments(hours) {
		for start := seg.from; start+duration <= seg.to; start += duration {
			end := start + duration

			in := base
			in.StartLocal = midnight.Add(time.Duration(start) * time.Minute)
			in.EndLocal = midnight.Add(time.Duration(end) * time.Minute)

			verdict := availability.Check(in, now)
			if !verdict.Accepted() {
				continue
			}

			startTime, err := types.NewTimeStringFromMinutes(start)
			if err != nil {
				continue
			}
			endTime, err := types.NewTimeStringFromMinutes(end % types.MinutesPerDay)
			if err != nil {
				continue
			}

			result = append(result, domain.AvailableSlot{
				StartTime:       startTime,
				EndTime:         endTime,
				DurationMinutes: duration,
				Window:          verdict.Window,
			})
		}
	}

	return result
}
