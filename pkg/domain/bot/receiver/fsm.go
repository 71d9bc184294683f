package receiver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/napryag/tg_doctors_bot/pkg/domain/availability"
	"github.com/napryag/tg_doctors_bot/pkg/domain/booking"
	"github.com/napryag/tg_doctors_bot/pkg/domain/session"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"github.com/rs/zerolog"
)

// ---------- Callback keys ----------

const (
	CbList   = "list"
	CbBack   = "back"
	CbBook   = "book"
	CbClear  = "clear"
	CbSubmit = "submit"

	PDoc   = "doc:"   // doc:3
	PSpec  = "spec:"  // spec:Cardiology, spec:* for all
	PDay   = "day:"   // day:Monday
	PDate  = "date:"  // date:2025-08-20
	PTime  = "time:"  // time:10:30
	PField = "field:" // field:email

	SpecAll = "*"
)

// form fields reachable from a field: button
var fieldKeys = map[string]string{
	"name":  booking.FieldPatientName,
	"email": booking.FieldEmail,
	"notes": booking.FieldNotes,
}

func Is(k, prefix string) (string, bool) {
	if strings.HasPrefix(k, prefix) {
		return strings.TrimPrefix(k, prefix), true
	}
	return "", false
}

// Notifier receives a short text for every confirmed appointment.
type Notifier interface {
	Send(text string) (int, error)
}

// Handler turns chat input into session actions. All calls for all chats must come
// from the same goroutine; submissions report back through Submitter.Done, whose
// values are fed to Complete on that goroutine.
type Handler struct {
	sessions   *session.Store
	submitter  *booking.Submitter
	notifier   Notifier
	logger     zerolog.Logger
	dateWindow int
}

// NewHandler wires the handler. notifier may be nil.
func NewHandler(sessions *session.Store, submitter *booking.Submitter, notifier Notifier, logger zerolog.Logger, dateWindow int) *Handler {
	return &Handler{
		sessions:   sessions,
		submitter:  submitter,
		notifier:   notifier,
		logger:     logger,
		dateWindow: dateWindow,
	}
}

func (h *Handler) Session(chatID int64) *session.Session {
	return h.sessions.Get(chatID)
}

// Start returns the chat to the unfiltered doctor list.
func (h *Handler) Start(chatID int64) Reply {
	sess := h.sessions.Get(chatID)
	if !sess.Dispatch(session.ClearSelection{}) {
		return h.render(sess, "Your booking is being processed")
	}
	sess.Dispatch(session.ClearFilters{})
	return h.render(sess, "")
}

func (h *Handler) Callback(ctx context.Context, chatID int64, data string) Reply {
	sess := h.sessions.Get(chatID)
	notice := ""

	switch {
	case data == CbList:
		if !sess.Dispatch(session.ClearSelection{}) {
			notice = "Your booking is being processed"
		}
	case data == CbBack:
		if !sess.Dispatch(session.Back{}) {
			notice = "Your booking is being processed"
		}
	case data == CbBook:
		sess.Dispatch(session.OpenBooking{})
		if sess.State.View != session.Booking {
			notice = "This doctor is currently unavailable"
		}
	case data == CbClear:
		sess.Dispatch(session.ClearFilters{})
	case data == CbSubmit:
		notice = h.submit(ctx, sess)

	case strings.HasPrefix(data, PDoc):
		id, _ := Is(data, PDoc)
		if !sess.Dispatch(session.SelectDoctor{ID: id}) {
			notice = "Your booking is being processed"
		}

	case strings.HasPrefix(data, PSpec):
		val, _ := Is(data, PSpec)
		if val == SpecAll {
			val = ""
		}
		sess.Dispatch(session.SetSpecialization{Specialization: val})

	case strings.HasPrefix(data, PDay):
		val, _ := Is(data, PDay)
		sess.SelectDay(val)

	case strings.HasPrefix(data, PDate):
		val, _ := Is(data, PDate)
		if sess.Form != nil {
			notice = h.formError(sess, sess.Form.SelectDate(val))
		}

	case strings.HasPrefix(data, PTime):
		val, _ := Is(data, PTime)
		if sess.Form != nil {
			notice = h.formError(sess, sess.Form.SelectTime(val))
		}

	case strings.HasPrefix(data, PField):
		val, _ := Is(data, PField)
		if field, ok := fieldKeys[val]; ok && sess.Form != nil && sess.Form.Phase == booking.Editing {
			sess.Awaiting = field
		}

	default:
		h.logger.Debug().Int64("chat", chatID).Str("data", data).Msg("unknown callback")
	}

	return h.render(sess, notice)
}

// Text handles a free-text message: the search query on the list, a form field value
// on the booking form.
func (h *Handler) Text(chatID int64, text string) Reply {
	sess := h.sessions.Get(chatID)

	switch sess.State.View {
	case session.Listing:
		sess.Dispatch(session.SetSearchQuery{Query: strings.TrimSpace(text)})
		return h.render(sess, "")

	case session.Booking:
		if sess.Form == nil || sess.Form.Phase != booking.Editing {
			return h.render(sess, "")
		}
		field := sess.Awaiting
		if field == "" {
			if _, err := availability.DayOfWeek(strings.TrimSpace(text)); err == nil {
				field = booking.FieldDate
				text = strings.TrimSpace(text)
			} else {
				return h.render(sess, "Choose a field to fill first")
			}
		}
		if err := sess.Form.Set(field, text); err != nil {
			return h.render(sess, h.formError(sess, err))
		}
		sess.Awaiting = nextField(sess.Form)
		return h.render(sess, "")
	}

	return h.render(sess, "Please use the buttons")
}

// Complete applies a finished submission to its session.
func (h *Handler) Complete(c booking.Completion) (*session.Session, Reply) {
	sess := h.sessions.Get(c.Key)
	sess.Complete(c.Appointment)

	h.logger.Info().
		Int64("chat", c.Key).
		Str("appointment", c.Appointment.ID).
		Str("doctor", c.Appointment.DoctorID).
		Str("date", c.Appointment.Date).
		Str("time", c.Appointment.Time).
		Int("total", sess.State.Appointments.Len()).
		Msg("appointment confirmed")

	if h.notifier != nil {
		text := NoticeText(sess.State, c.Appointment)
		go func() {
			if _, err := h.notifier.Send(text); err != nil {
				h.logger.Error().Err(err).Str("appointment", c.Appointment.ID).Msg("notify clinic")
			}
		}()
	}

	return sess, h.render(sess, "")
}

func (h *Handler) submit(ctx context.Context, sess *session.Session) string {
	if sess.Form == nil {
		return ""
	}
	if h.submitter.Busy(sess.ChatID) {
		return "Your booking is being processed"
	}

	p, err := sess.Form.Begin()
	switch {
	case errors.Is(err, booking.ErrNotEditing):
		return "Your booking is being processed"
	case errors.Is(err, booking.ErrInvalid):
		return "Please fix the highlighted fields"
	case err != nil:
		return h.formError(sess, err)
	}

	sess.Awaiting = ""
	if err := h.submitter.Submit(ctx, sess.ChatID, p); err != nil {
		h.logger.Error().Err(err).Int64("chat", sess.ChatID).Msg("submit booking")
		return "Please try again"
	}
	return "Booking appointment..."
}

func (h *Handler) formError(sess *session.Session, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, booking.ErrNotEditing):
		return "Your booking is being processed"
	case errors.Is(err, booking.ErrPastDate):
		return "Please choose today or a later date"
	case errors.Is(err, booking.ErrNoDate):
		return "Please select a date first"
	case errors.Is(err, booking.ErrSlotNotOffered):
		return "That time is not available"
	case errors.Is(err, availability.ErrInvalidDate):
		return "Please enter the date as YYYY-MM-DD"
	}
	h.logger.Debug().Err(err).Int64("chat", sess.ChatID).Msg("form input rejected")
	return "Please try again"
}

// nextField is the first empty required text field, or "" when all are filled.
func nextField(f *booking.Form) string {
	switch {
	case strings.TrimSpace(f.Input.PatientName) == "":
		return booking.FieldPatientName
	case strings.TrimSpace(f.Input.Email) == "":
		return booking.FieldEmail
	}
	return ""
}

func (h *Handler) render(sess *session.Session, notice string) Reply {
	return Reply{
		Text:     RenderText(sess),
		Keyboard: RenderKeyboard(sess, h.dates(sess)),
		Notice:   notice,
	}
}

func (h *Handler) dates(sess *session.Session) []string {
	today, err := time.Parse(availability.DateLayout, sess.Today())
	if err != nil {
		return nil
	}
	return availability.SelectableDates(today, h.dateWindow)
}

// NoticeText is the clinic channel message for a confirmed appointment.
func NoticeText(state session.State, a model.Appointment) string {
	doctor := a.DoctorID
	if d, ok := state.Doctor(a.DoctorID); ok {
		doctor = d.Name
	}
	text := fmt.Sprintf("New appointment %s\nDoctor: %s\nPatient: %s\nDate: %s\nTime: %s\nEmail: %s",
		a.ID, doctor, a.PatientName, a.Date, a.Time, a.Email)
	if a.Notes != "" {
		text += "\nNotes: " + a.Notes
	}
	return text
}
