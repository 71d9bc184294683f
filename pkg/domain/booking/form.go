package booking

import (
	"errors"

	"github.com/napryag/tg_doctors_bot/pkg/domain/availability"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"github.com/napryag/tg_doctors_bot/pkg/utils/errs"
)

type Phase int

const (
	Editing Phase = iota
	Submitting
	Confirmed
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Confirmed:
		return "confirmed"
	}
	return "unknown"
}

var (
	ErrNotEditing     = errors.New("form is not editable")
	ErrNotSubmitting  = errors.New("form is not submitting")
	ErrInvalid        = errors.New("form has field errors")
	ErrUnknownField   = errors.New("unknown form field")
	ErrPastDate       = errors.New("date is before the first selectable date")
	ErrNoDate         = errors.New("select a date first")
	ErrSlotNotOffered = errors.New("time slot is not offered on the selected date")
)

// Form is one booking form instance for one doctor.
type Form struct {
	Doctor  model.Doctor
	Input   model.BookingForm
	Errors  FieldErrors
	Day     string // weekday whose slots are offered
	MinDate string // YYYY-MM-DD, earliest selectable date
	Phase   Phase

	Appointment *model.Appointment // set once Confirmed
}

func NewForm(d model.Doctor, minDate string) *Form {
	return &Form{
		Doctor:  d,
		Errors:  FieldErrors{},
		Day:     availability.DefaultDay(d),
		MinDate: minDate,
	}
}

// Slots returns the bookable slots of the currently selected day.
func (f *Form) Slots() []model.TimeSlot {
	return availability.SlotsForDay(f.Doctor, f.Day)
}

// Set writes one field and clears that field's error only.
func (f *Form) Set(field, value string) error {
	if f.Phase != Editing {
		return ErrNotEditing
	}
	switch field {
	case FieldPatientName:
		f.Input.PatientName = value
	case FieldEmail:
		f.Input.Email = value
	case FieldNotes:
		f.Input.Notes = value
	case FieldDate:
		return f.SelectDate(value)
	case FieldTime:
		return f.SelectTime(value)
	default:
		return errs.New("failed to set field").Arg("field", field).Wrap(ErrUnknownField)
	}
	delete(f.Errors, field)
	return nil
}

// SelectDate switches the offered slots to the weekday of date. A chosen time is
// dropped when the date actually changes; re-selecting the current date is a no-op.
func (f *Form) SelectDate(date string) error {
	if f.Phase != Editing {
		return ErrNotEditing
	}
	if date == f.Input.Date {
		return nil
	}
	if date == "" {
		f.Input.Date = ""
		delete(f.Errors, FieldDate)
		return nil
	}

	day, err := availability.DayOfWeek(date)
	if err != nil {
		return err
	}
	if f.MinDate != "" && date < f.MinDate {
		return errs.New("failed to select date").Arg("date", date).Arg("min", f.MinDate).Wrap(ErrPastDate)
	}

	f.Input.Date = date
	f.Day = day
	f.Input.Time = ""
	delete(f.Errors, FieldDate)
	delete(f.Errors, FieldTime)
	return nil
}

func (f *Form) SelectTime(t string) error {
	if f.Phase != Editing {
		return ErrNotEditing
	}
	if f.Input.Date == "" {
		return ErrNoDate
	}
	for _, slot := range f.Slots() {
		if slot.Time == t {
			f.Input.Time = t
			delete(f.Errors, FieldTime)
			return nil
		}
	}
	return errs.New("failed to select time").Arg("time", t).Arg("day", f.Day).Wrap(ErrSlotNotOffered)
}

// Begin validates the whole form. On success the form moves to Submitting and the
// payload is returned; on failure Errors holds every field error and nothing changes
// otherwise.
func (f *Form) Begin() (Payload, error) {
	if f.Phase != Editing {
		return Payload{}, ErrNotEditing
	}
	p, fe := Check(f.Doctor, f.Input)
	f.Errors = fe
	if !fe.OK() {
		return Payload{}, ErrInvalid
	}
	f.Phase = Submitting
	return p, nil
}

// Confirm completes a submission. There is no failure transition out of Submitting.
func (f *Form) Confirm(a model.Appointment) error {
	if f.Phase != Submitting {
		return ErrNotSubmitting
	}
	f.Phase = Confirmed
	f.Appointment = &a
	return nil
}
