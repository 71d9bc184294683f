// Package session holds the per-chat application state and the reducer that is its
// only mutation point.
package session

import (
	"github.com/napryag/tg_doctors_bot/pkg/domain/appointments"
	"github.com/napryag/tg_doctors_bot/pkg/domain/directory"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
)

type View int

const (
	Listing View = iota
	ViewingProfile
	Booking
)

func (v View) String() string {
	switch v {
	case Listing:
		return "listing"
	case ViewingProfile:
		return "profile"
	case Booking:
		return "booking"
	}
	return "unknown"
}

type State struct {
	Doctors        []model.Doctor
	Appointments   appointments.Store
	Selected       *model.Doctor
	Query          string
	Specialization string
	View           View
}

// Visible is the filtered doctor list for the current query and specialization.
func (s State) Visible() []model.Doctor {
	return directory.Filter(s.Doctors, s.Query, s.Specialization)
}

func (s State) Specializations() []string {
	return directory.Specializations(s.Doctors)
}

func (s State) Doctor(id string) (model.Doctor, bool) {
	for _, d := range s.Doctors {
		if d.ID == id {
			return d, true
		}
	}
	return model.Doctor{}, false
}

// ---------- Actions ----------

type Action interface{ action() }

type (
	SetDoctors        struct{ Doctors []model.Doctor }
	AddAppointment    struct{ Appointment model.Appointment }
	SelectDoctor      struct{ ID string }
	ClearSelection    struct{}
	SetSearchQuery    struct{ Query string }
	SetSpecialization struct{ Specialization string }
	ClearFilters      struct{}
	OpenBooking       struct{}
	Back              struct{}
)

func (SetDoctors) action()        {}
func (AddAppointment) action()    {}
func (SelectDoctor) action()      {}
func (ClearSelection) action()    {}
func (SetSearchQuery) action()    {}
func (SetSpecialization) action() {}
func (ClearFilters) action()      {}
func (OpenBooking) action()       {}
func (Back) action()              {}

// CanBook reports whether the booking form may be opened for d.
func CanBook(d model.Doctor) bool {
	return d.Availability.Bookable() && len(d.Schedule) > 0
}

// Apply returns the state that results from a. state itself is not modified.
func Apply(state State, a Action) State {
	next := state

	switch a := a.(type) {
	case SetDoctors:
		next.Doctors = a.Doctors
		if state.Selected != nil {
			d, ok := next.Doctor(state.Selected.ID)
			if !ok {
				next.Selected = nil
				next.View = Listing
				break
			}
			next.Selected = &d
			if next.View == Booking && !CanBook(d) {
				next.View = ViewingProfile
			}
		}

	case AddAppointment:
		next.Appointments = state.Appointments.With(a.Appointment)

	case SelectDoctor:
		d, ok := state.Doctor(a.ID)
		if !ok {
			return state
		}
		next.Selected = &d
		next.View = ViewingProfile

	case ClearSelection:
		next.Selected = nil
		next.View = Listing

	case SetSearchQuery:
		next.Query = a.Query

	case SetSpecialization:
		next.Specialization = a.Specialization

	case ClearFilters:
		next.Query = ""
		next.Specialization = ""

	case OpenBooking:
		if state.View != ViewingProfile || state.Selected == nil || !CanBook(*state.Selected) {
			return state
		}
		next.View = Booking

	case Back:
		switch state.View {
		case Booking:
			next.View = ViewingProfile
		case ViewingProfile:
			next.Selected = nil
			next.View = Listing
		}
	}

	return next
}
