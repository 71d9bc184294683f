package session

import (
	"testing"

	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
)

var week = []model.DoctorSchedule{{Day: "Monday", Slots: []model.TimeSlot{{Time: "09:00", Available: true}}}}

var doctors = []model.Doctor{
	{ID: "1", Name: "Dr. Sarah Johnson", Specialization: "Cardiology", Availability: model.AvailableToday, Schedule: week},
	{ID: "3", Name: "Dr. Emily Rodriguez", Specialization: "Pediatrics", Availability: model.FullyBooked, Schedule: week},
	{ID: "5", Name: "Dr. Lisa Thompson", Specialization: "Neurology", Availability: model.OnLeave},
	{ID: "6", Name: "Dr. Robert Kim", Specialization: "Internal Medicine", Availability: model.AvailableSoon, Schedule: week},
	{ID: "7", Name: "Dr. No Hours", Specialization: "Cardiology", Availability: model.AvailableToday},
}

func reduce(s State, actions ...Action) State {
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

func TestNavigation(t *testing.T) {
	s := State{Doctors: doctors}

	s = Apply(s, SelectDoctor{ID: "1"})
	if s.View != ViewingProfile || s.Selected == nil || s.Selected.ID != "1" {
		t.Fatalf("after select: view=%s selected=%v", s.View, s.Selected)
	}

	s = Apply(s, OpenBooking{})
	if s.View != Booking {
		t.Fatalf("after book: view=%s", s.View)
	}

	s = Apply(s, Back{})
	if s.View != ViewingProfile || s.Selected == nil {
		t.Fatalf("back from booking: view=%s", s.View)
	}

	s = Apply(s, Back{})
	if s.View != Listing || s.Selected != nil {
		t.Fatalf("back from profile: view=%s selected=%v", s.View, s.Selected)
	}

	s = Apply(s, Back{})
	if s.View != Listing {
		t.Fatalf("back from listing: view=%s", s.View)
	}
}

func TestOpenBookingGuard(t *testing.T) {
	tests := []struct {
		id   string
		want View
	}{
		{"1", Booking},
		{"6", Booking},
		{"3", ViewingProfile},
		{"5", ViewingProfile},
		{"7", ViewingProfile},
	}
	for _, tt := range tests {
		s := reduce(State{Doctors: doctors}, SelectDoctor{ID: tt.id}, OpenBooking{})
		if s.View != tt.want {
			t.Errorf("doctor %s: view = %s, want %s", tt.id, s.View, tt.want)
		}
	}

	if s := Apply(State{Doctors: doctors}, OpenBooking{}); s.View != Listing {
		t.Errorf("OpenBooking from listing: view = %s", s.View)
	}
}

func TestNonBookableNeverReachBooking(t *testing.T) {
	all := []Action{
		SelectDoctor{ID: "3"}, SelectDoctor{ID: "5"}, SelectDoctor{ID: "1"}, OpenBooking{}, Back{},
		ClearSelection{}, SetSearchQuery{Query: "dr"}, ClearFilters{}, SetSpecialization{Specialization: "Neurology"},
	}

	// every sequence of length 4 over the action set
	var walk func(s State, depth int)
	walk = func(s State, depth int) {
		if s.View == Booking && !s.Selected.Availability.Bookable() {
			t.Fatalf("reached Booking with %s (%s)", s.Selected.ID, s.Selected.Availability)
		}
		if depth == 0 {
			return
		}
		for _, a := range all {
			walk(Apply(s, a), depth-1)
		}
	}
	walk(State{Doctors: doctors}, 4)
}

func TestSelectUnknownDoctorIgnored(t *testing.T) {
	s := Apply(State{Doctors: doctors}, SelectDoctor{ID: "nope"})
	if s.View != Listing || s.Selected != nil {
		t.Fatalf("view=%s selected=%v", s.View, s.Selected)
	}
}

func TestFiltersAndDerived(t *testing.T) {
	s := reduce(State{Doctors: doctors}, SetSearchQuery{Query: "kim"})
	if v := s.Visible(); len(v) != 1 || v[0].ID != "6" {
		t.Fatalf("Visible = %+v", v)
	}

	s = reduce(s, ClearFilters{}, SetSpecialization{Specialization: "Cardiology"})
	if v := s.Visible(); len(v) != 2 {
		t.Fatalf("Visible(Cardiology) = %+v", v)
	}

	s = Apply(s, ClearFilters{})
	if s.Query != "" || s.Specialization != "" || len(s.Visible()) != len(doctors) {
		t.Fatalf("ClearFilters left %q/%q", s.Query, s.Specialization)
	}

	specs := s.Specializations()
	if len(specs) != 4 || specs[0] != "Cardiology" || specs[3] != "Pediatrics" {
		t.Fatalf("Specializations = %v", specs)
	}
}

func TestAddAppointmentAppends(t *testing.T) {
	s0 := State{Doctors: doctors}
	s1 := Apply(s0, AddAppointment{Appointment: model.Appointment{ID: "a", Status: model.StatusConfirmed}})
	s2 := Apply(s1, AddAppointment{Appointment: model.Appointment{ID: "b", Status: model.StatusConfirmed}})

	if s0.Appointments.Len() != 0 || s1.Appointments.Len() != 1 {
		t.Fatalf("earlier states changed: %d, %d", s0.Appointments.Len(), s1.Appointments.Len())
	}
	l := s2.Appointments.List()
	if len(l) != 2 || l[0].ID != "a" || l[1].ID != "b" {
		t.Fatalf("appointments = %+v", l)
	}
}

func TestSetDoctorsReconcilesSelection(t *testing.T) {
	s := reduce(State{Doctors: doctors}, SelectDoctor{ID: "1"}, OpenBooking{})

	onLeave := append([]model.Doctor(nil), doctors...)
	onLeave[0].Availability = model.OnLeave
	s2 := Apply(s, SetDoctors{Doctors: onLeave})
	if s2.View != ViewingProfile || s2.Selected.Availability != model.OnLeave {
		t.Fatalf("view=%s selected=%+v", s2.View, s2.Selected)
	}

	s3 := Apply(s, SetDoctors{Doctors: doctors[1:]})
	if s3.View != Listing || s3.Selected != nil {
		t.Fatalf("removed doctor still selected: view=%s", s3.View)
	}
}
