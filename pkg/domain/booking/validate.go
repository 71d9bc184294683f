package booking

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/napryag/tg_doctors_bot/pkg/domain/availability"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
)

type Kind string

const (
	MissingField    Kind = "MissingField"
	InvalidFormat   Kind = "InvalidFormat"
	SlotUnavailable Kind = "SlotUnavailable"
)

const (
	FieldPatientName = "patientName"
	FieldEmail       = "email"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldNotes       = "notes"
)

type FieldError struct {
	Kind    Kind
	Message string
}

// FieldErrors maps a form field to its error. Empty means the input is acceptable.
type FieldErrors map[string]FieldError

func (fe FieldErrors) OK() bool { return len(fe) == 0 }

// Payload is a validated booking request. Values are kept verbatim.
type Payload struct {
	DoctorID    string
	PatientName string
	Email       string
	Date        string
	Time        string
	Notes       string
}

type input struct {
	PatientName string `form:"patientName" validate:"notblank"`
	Email       string `form:"email" validate:"notblank,emailshape"`
	Date        string `form:"date" validate:"required,isodate"`
	Time        string `form:"time" validate:"required"`
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := availability.DayOfWeek(fl.Field().String())
		return err == nil
	})
	return v
}

var messages = map[string]map[Kind]string{
	FieldPatientName: {MissingField: "Patient name is required"},
	FieldEmail: {
		MissingField:  "Email is required",
		InvalidFormat: "Please enter a valid email address",
	},
	FieldDate: {
		MissingField:  "Please select a date",
		InvalidFormat: "Please enter the date as YYYY-MM-DD",
	},
	FieldTime: {
		MissingField:    "Please select a time slot",
		SlotUnavailable: "The selected time slot is not available on this date",
	},
}

func fieldError(field string, kind Kind) FieldError {
	return FieldError{Kind: kind, Message: messages[field][kind]}
}

// Validate checks every field of the form and reports all failures at once.
func Validate(form model.BookingForm) FieldErrors {
	out := FieldErrors{}

	err := validate.Struct(input{
		PatientName: form.PatientName,
		Email:       form.Email,
		Date:        form.Date,
		Time:        form.Time,
	})
	if err == nil {
		return out
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// only reachable on a programming error in input
		panic(err)
	}
	for _, fe := range verrs {
		kind := InvalidFormat
		switch fe.Tag() {
		case "notblank", "required":
			kind = MissingField
		}
		out[fe.Field()] = fieldError(fe.Field(), kind)
	}
	return out
}

// ValidateFor runs Validate and then checks that the chosen time is one of the
// doctor's available slots on the chosen date.
func ValidateFor(d model.Doctor, form model.BookingForm) FieldErrors {
	out := Validate(form)
	if _, bad := out[FieldDate]; bad {
		return out
	}
	if _, bad := out[FieldTime]; bad {
		return out
	}
	if !availability.Offered(d, form.Date, form.Time) {
		out[FieldTime] = fieldError(FieldTime, SlotUnavailable)
	}
	return out
}

// Check validates form for doctor d and returns the booking-ready payload when valid.
func Check(d model.Doctor, form model.BookingForm) (Payload, FieldErrors) {
	fe := ValidateFor(d, form)
	if !fe.OK() {
		return Payload{}, fe
	}
	return Payload{
		DoctorID:    d.ID,
		PatientName: form.PatientName,
		Email:       form.Email,
		Date:        form.Date,
		Time:        form.Time,
		Notes:       form.Notes,
	}, fe
}
