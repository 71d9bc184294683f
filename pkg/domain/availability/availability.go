// Package availability resolves the bookable time slots of a doctor for a day or date.
package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"github.com/napryag/tg_doctors_bot/pkg/utils/errs"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// ScheduleFor returns the first schedule entry whose day equals day exactly.
func ScheduleFor(d model.Doctor, day string) (model.DoctorSchedule, bool) {
	for _, s := range d.Schedule {
		if s.Day == day {
			return s, true
		}
	}
	return model.DoctorSchedule{}, false
}

// SlotsForDay returns the available slots of day in schedule order. A day without a
// schedule entry has no slots.
func SlotsForDay(d model.Doctor, day string) []model.TimeSlot {
	s, ok := ScheduleFor(d, day)
	if !ok {
		return []model.TimeSlot{}
	}
	return availableOnly(s.Slots)
}

func availableOnly(slots []model.TimeSlot) []model.TimeSlot {
	out := make([]model.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Available {
			out = append(out, slot)
		}
	}
	return out
}

// DayOfWeek returns the English weekday name of a YYYY-MM-DD date.
func DayOfWeek(date string) (string, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return "", errs.New("failed to parse date").Arg("date", date).Wrap(fmt.Errorf("%w: %v", ErrInvalidDate, err))
	}
	return t.Weekday().String(), nil
}

// SlotsForDate resolves date to its weekday and returns that day's available slots.
func SlotsForDate(d model.Doctor, date string) ([]model.TimeSlot, error) {
	day, err := DayOfWeek(date)
	if err != nil {
		return nil, err
	}
	return SlotsForDay(d, day), nil
}

// Offered reports whether slot is currently bookable on date.
func Offered(d model.Doctor, date, slot string) bool {
	slots, err := SlotsForDate(d, date)
	if err != nil {
		return false
	}
	for _, s := range slots {
		if s.Time == slot {
			return true
		}
	}
	return false
}

// DefaultDay is the day preselected on the profile view.
func DefaultDay(d model.Doctor) string {
	if len(d.Schedule) == 0 {
		return ""
	}
	return d.Schedule[0].Day
}

func CountAvailable(s model.DoctorSchedule) int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Available {
			n++
		}
	}
	return n
}

// SelectableDates lists n consecutive dates starting with the calendar day of from.
func SelectableDates(from time.Time, n int) []string {
	y, m, d := from.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return out
}

// HumanDate formats a YYYY-MM-DD date for display, e.g. "Wed 14.01".
func HumanDate(iso string) string {
	t, err := time.Parse(DateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("Mon 02.01")
}
