package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"github.com/rs/zerolog"
)

const DefaultDelay = 1500 * time.Millisecond

var ErrInFlight = errors.New("submission already in flight")

// Completion carries a confirmed appointment back to the event loop that owns Key.
type Completion struct {
	Key         int64
	Appointment model.Appointment
}

// Submitter emulates the network round trip of a booking. Each key has at most one
// submission in flight; a started submission always completes.
type Submitter struct {
	delay  time.Duration
	logger zerolog.Logger

	Now   func() time.Time
	NewID func() string

	mu       sync.Mutex
	inFlight map[int64]struct{}
	done     chan Completion
}

func NewSubmitter(delay time.Duration, logger zerolog.Logger) *Submitter {
	return &Submitter{
		delay:    delay,
		logger:   logger,
		Now:      time.Now,
		NewID:    uuid.NewString,
		inFlight: make(map[int64]struct{}),
		done:     make(chan Completion, 16),
	}
}

// Done delivers completions. It must be drained by the owner of the sessions.
func (s *Submitter) Done() <-chan Completion {
	return s.done
}

// Busy reports whether key has a submission in flight.
func (s *Submitter) Busy(key int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[key]
	return busy
}

// Submit starts the delayed confirmation of p for key. ctx only bounds delivery on
// shutdown; it does not cancel the submission.
func (s *Submitter) Submit(ctx context.Context, key int64, p Payload) error {
	s.mu.Lock()
	if _, busy := s.inFlight[key]; busy {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.inFlight[key] = struct{}{}
	s.mu.Unlock()

	s.logger.Debug().Int64("key", key).Str("doctor", p.DoctorID).Str("date", p.Date).Str("time", p.Time).Msg("submission started")

	go func() {
		timer := time.NewTimer(s.delay)
		<-timer.C

		c := Completion{Key: key, Appointment: s.appointment(p)}

		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()

		select {
		case s.done <- c:
		case <-ctx.Done():
			s.logger.Warn().Int64("key", key).Str("appointment", c.Appointment.ID).Msg("completion dropped on shutdown")
		}
	}()
	return nil
}

func (s *Submitter) appointment(p Payload) model.Appointment {
	return model.Appointment{
		ID:          s.NewID(),
		DoctorID:    p.DoctorID,
		PatientName: p.PatientName,
		Email:       p.Email,
		Date:        p.Date,
		Time:        p.Time,
		Notes:       p.Notes,
		Status:      model.StatusConfirmed,
		CreatedAt:   s.Now().UTC(),
	}
}
