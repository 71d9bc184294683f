package session

import (
	"sync"
	"time"

	"github.com/napryag/tg_doctors_bot/pkg/domain/availability"
	"github.com/napryag/tg_doctors_bot/pkg/domain/booking"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
)

// Session is the state of one chat: the reducer state plus the view-local state of
// the profile day picker and the booking form.
type Session struct {
	ChatID    int64
	State     State
	Day       string        // day shown on the profile view
	Form      *booking.Form // non-nil only in the Booking view
	Awaiting  string        // form field the next text message fills
	MessageID int           // message that renders this session

	now func() time.Time
}

func New(chatID int64, doctors []model.Doctor, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		ChatID: chatID,
		State:  State{Doctors: doctors},
		now:    now,
	}
}

// Today is the first selectable booking date.
func (s *Session) Today() string {
	return s.now().Format(availability.DateLayout)
}

// Submitting reports whether a booking of this session is in flight.
func (s *Session) Submitting() bool {
	return s.Form != nil && s.Form.Phase == booking.Submitting
}

// Dispatch applies a and syncs the view-local state. Navigation away from a form that
// is submitting is refused. It reports whether the action was applied.
func (s *Session) Dispatch(a Action) bool {
	if s.Submitting() {
		switch a.(type) {
		case Back, ClearSelection, SelectDoctor, SetDoctors:
			return false
		}
	}

	prev := s.State
	s.State = Apply(s.State, a)

	switch {
	case s.State.Selected == nil:
		s.Day = ""
	case prev.Selected == nil || prev.Selected.ID != s.State.Selected.ID:
		s.Day = availability.DefaultDay(*s.State.Selected)
	}

	if s.State.View != Booking {
		s.Form = nil
		s.Awaiting = ""
	} else if prev.View != Booking {
		s.Form = booking.NewForm(*s.State.Selected, s.Today())
		s.Awaiting = booking.FieldPatientName
	}
	return true
}

// SelectDay switches the profile day picker. Unknown days are ignored.
func (s *Session) SelectDay(day string) bool {
	if s.State.Selected == nil {
		return false
	}
	if _, ok := availability.ScheduleFor(*s.State.Selected, day); !ok {
		return false
	}
	s.Day = day
	return true
}

// Complete stores a confirmed appointment and confirms the form that submitted it.
func (s *Session) Complete(a model.Appointment) {
	if s.Form != nil && s.Form.Phase == booking.Submitting && s.Form.Doctor.ID == a.DoctorID {
		_ = s.Form.Confirm(a)
		s.Awaiting = ""
	}
	s.Dispatch(AddAppointment{Appointment: a})
}

// ---------- Session store (in-memory, safe for concurrent use) ----------

type Store struct {
	mu      sync.RWMutex
	m       map[int64]*Session
	doctors []model.Doctor
	now     func() time.Time
}

// NewStore creates a store whose sessions all start from the same read-only catalog.
func NewStore(doctors []model.Doctor, now func() time.Time) *Store {
	return &Store{m: make(map[int64]*Session), doctors: doctors, now: now}
}

func (s *Store) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[chatID]; ok {
		return sess
	}
	se := New(chatID, s.doctors, s.now)
	s.m[chatID] = se
	return se
}

func (s *Store) Lookup(chatID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[chatID]
	return sess, ok
}
