// Package appointments holds the confirmed appointments of one session.
package appointments

import "github.com/napryag/tg_doctors_bot/pkg/repository/model"

// Store is an append-only list of appointments in confirmation order.
// The zero value is an empty store.
type Store struct {
	items []model.Appointment
}

func (s *Store) Add(a model.Appointment) {
	s.items = append(s.items[:len(s.items):len(s.items)], a)
}

// List returns a copy of all appointments in insertion order.
func (s *Store) List() []model.Appointment {
	out := make([]model.Appointment, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

// ForDoctor returns the appointments booked with doctorID in insertion order.
func (s *Store) ForDoctor(doctorID string) []model.Appointment {
	var out []model.Appointment
	for _, a := range s.items {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out
}

// With returns a new store holding s's appointments plus a. s is left unchanged.
func (s *Store) With(a model.Appointment) Store {
	next := Store{items: s.items}
	next.Add(a)
	return next
}
