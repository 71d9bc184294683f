package booking

import (
	"testing"

	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
)

var doctor = model.Doctor{
	ID:           "1",
	Name:         "Dr. Sarah Johnson",
	Availability: model.AvailableToday,
	Schedule: []model.DoctorSchedule{
		{Day: "Monday", Slots: []model.TimeSlot{{Time: "09:00", Available: true}, {Time: "10:00", Available: false}}},
		{Day: "Thursday", Slots: []model.TimeSlot{{Time: "09:00", Available: true}, {Time: "14:00", Available: true}}},
	},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		form model.BookingForm
		want map[string]Kind
	}{
		{
			name: "valid",
			form: model.BookingForm{PatientName: "Jane Doe", Email: "jane@example.com", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{},
		},
		{
			name: "missing name",
			form: model.BookingForm{PatientName: "", Email: "a@b.com", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{FieldPatientName: MissingField},
		},
		{
			name: "blank name",
			form: model.BookingForm{PatientName: " \t ", Email: "a@b.com", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{FieldPatientName: MissingField},
		},
		{
			name: "invalid email",
			form: model.BookingForm{PatientName: "Jane Doe", Email: "not-an-email", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{FieldEmail: InvalidFormat},
		},
		{
			name: "blank email is missing not invalid",
			form: model.BookingForm{PatientName: "Jane Doe", Email: "   ", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{FieldEmail: MissingField},
		},
		{
			name: "email without dot in domain",
			form: model.BookingForm{PatientName: "Jane Doe", Email: "jane@example", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{FieldEmail: InvalidFormat},
		},
		{
			name: "email with whitespace",
			form: model.BookingForm{PatientName: "Jane Doe", Email: "ja ne@example.com", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{FieldEmail: InvalidFormat},
		},
		{
			name: "email with two ats",
			form: model.BookingForm{PatientName: "Jane Doe", Email: "a@b@c.com", Date: "2099-01-01", Time: "09:00"},
			want: map[string]Kind{FieldEmail: InvalidFormat},
		},
		{
			name: "malformed date",
			form: model.BookingForm{PatientName: "Jane Doe", Email: "a@b.com", Date: "01/01/2099", Time: "09:00"},
			want: map[string]Kind{FieldDate: InvalidFormat},
		},
		{
			name: "everything missing",
			form: model.BookingForm{},
			want: map[string]Kind{
				FieldPatientName: MissingField,
				FieldEmail:       MissingField,
				FieldDate:        MissingField,
				FieldTime:        MissingField,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.form)
			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %v, want kinds %v", got, tt.want)
			}
			for field, kind := range tt.want {
				fe, ok := got[field]
				if !ok || fe.Kind != kind {
					t.Fatalf("field %s = %+v, want %s", field, fe, kind)
				}
				if fe.Message == "" {
					t.Fatalf("field %s has no message", field)
				}
			}
		})
	}
}

func TestValidateForSlotMembership(t *testing.T) {
	base := model.BookingForm{PatientName: "Jane Doe", Email: "jane@example.com", Date: "2099-01-01"} // Thursday

	tests := []struct {
		time string
		ok   bool
	}{
		{"14:00", true},
		{"09:00", true},
		{"10:00", false},
		{"anything", false},
	}
	for _, tt := range tests {
		form := base
		form.Time = tt.time
		got := ValidateFor(doctor, form)
		if got.OK() != tt.ok {
			t.Errorf("ValidateFor(time=%q) = %v, want ok=%v", tt.time, got, tt.ok)
		}
		if !tt.ok && got[FieldTime].Kind != SlotUnavailable {
			t.Errorf("time %q kind = %s", tt.time, got[FieldTime].Kind)
		}
	}
}

func TestCheckPayloadIsVerbatim(t *testing.T) {
	form := model.BookingForm{PatientName: " Jane Doe ", Email: "jane@example.com", Date: "2099-01-01", Time: "14:00", Notes: "first visit"}
	p, fe := Check(doctor, form)
	if !fe.OK() {
		t.Fatalf("Check() errors: %v", fe)
	}
	want := Payload{DoctorID: "1", PatientName: " Jane Doe ", Email: "jane@example.com", Date: "2099-01-01", Time: "14:00", Notes: "first visit"}
	if p != want {
		t.Fatalf("payload = %+v, want %+v", p, want)
	}
}
