package domain

import "github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/types"

// AvailableSlot свободный слот в сетке дня
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Window          TimeWindow // UTC
}
