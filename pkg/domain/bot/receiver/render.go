package receiver

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/napryag/tg_doctors_bot/pkg/domain/availability"
	"github.com/napryag/tg_doctors_bot/pkg/domain/booking"
	"github.com/napryag/tg_doctors_bot/pkg/domain/directory"
	"github.com/napryag/tg_doctors_bot/pkg/domain/session"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
)

// Reply is one rendered screen plus an optional short notice for the callback answer.
type Reply struct {
	Text     string
	Keyboard tgbotapi.InlineKeyboardMarkup
	Notice   string
}

func (r Reply) Message(chatID int64) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	msg.ReplyMarkup = r.Keyboard
	return msg
}

func (r Reply) Edit(chatID int64, messageID int) tgbotapi.EditMessageTextConfig {
	return tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, r.Text, r.Keyboard)
}

func statusMark(s model.AvailabilityStatus) string {
	switch s {
	case model.AvailableToday:
		return "●"
	case model.AvailableSoon:
		return "◐"
	case model.FullyBooked:
		return "◯"
	}
	return "◉"
}

var fieldLabels = []struct {
	field string
	label string
}{
	{booking.FieldPatientName, "Patient Name"},
	{booking.FieldEmail, "Email Address"},
	{booking.FieldDate, "Preferred Date"},
	{booking.FieldTime, "Time"},
	{booking.FieldNotes, "Notes (optional)"},
}

var prompts = map[string]string{
	booking.FieldPatientName: "Send your full name as a message.",
	booking.FieldEmail:       "Send your email address as a message.",
	booking.FieldNotes:       "Send any specific concerns or requirements as a message.",
}

func back(label string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ "+label, CbBack))
}

func marked(selected bool, label string) string {
	if selected {
		return "• " + label
	}
	return label
}

func chunk(buttons []tgbotapi.InlineKeyboardButton, n int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > n {
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return rows
}

// ---------- Rendering by view ----------

func RenderText(sess *session.Session) string {
	switch sess.State.View {
	case session.ViewingProfile:
		return profileText(sess)
	case session.Booking:
		if sess.Form == nil {
			return profileText(sess)
		}
		switch sess.Form.Phase {
		case booking.Submitting:
			return "Booking appointment...\nPlease wait while we confirm your appointment with " + sess.Form.Doctor.Name + "."
		case booking.Confirmed:
			return confirmationText(sess.Form)
		}
		return formText(sess)
	}
	return listText(sess.State)
}

func RenderKeyboard(sess *session.Session, dates []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	switch sess.State.View {
	case session.ViewingProfile:
		rows = profileRows(sess)
	case session.Booking:
		if sess.Form == nil {
			rows = profileRows(sess)
			break
		}
		switch sess.Form.Phase {
		case booking.Submitting:
			// submit and navigation are disabled until the booking completes
		case booking.Confirmed:
			rows = append(rows, back("Back to Doctor Profile"))
		default:
			rows = formRows(sess.Form, dates)
		}
	default:
		rows = listRows(sess.State)
	}

	if rows == nil {
		rows = [][]tgbotapi.InlineKeyboardButton{}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ---------- List ----------

func listText(s session.State) string {
	visible := s.Visible()

	var b strings.Builder
	b.WriteString("Find Your Doctor\n")
	b.WriteString(directory.Summary(len(visible), s.Query, s.Specialization))
	b.WriteString("\n")

	if len(visible) == 0 {
		b.WriteString("\nNo doctors found\nTry adjusting your search terms or filters to find more doctors.\n")
	}
	for _, d := range visible {
		fmt.Fprintf(&b, "\n%s %s · %s\n   ★ %.1f · %d years · $%.0f · %s\n",
			statusMark(d.Availability), d.Name, d.Specialization,
			d.Rating, d.Experience, d.ConsultationFee, d.Availability)
	}

	if list := s.Appointments.List(); len(list) > 0 {
		b.WriteString("\nYour appointments:\n")
		for _, a := range list {
			name := a.DoctorID
			if d, ok := s.Doctor(a.DoctorID); ok {
				name = d.Name
			}
			fmt.Fprintf(&b, "%s %s · %s (%s)\n", availability.HumanDate(a.Date), a.Time, name, a.Status)
		}
	}

	b.WriteString("\nSend a message to search by name or specialization.")
	return b.String()
}

func listRows(s session.State) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, d := range s.Visible() {
		label := d.Name + " · " + d.Specialization
		if !d.Availability.Bookable() {
			label += " (Currently Unavailable)"
		} else {
			label = "View Profile & Book: " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, PDoc+d.ID)))
	}

	specs := s.Specializations()
	if len(specs) > 0 {
		buttons := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(marked(s.Specialization == "", "All Specializations"), PSpec+SpecAll),
		}
		for _, spec := range specs {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(marked(s.Specialization == spec, spec), PSpec+spec))
		}
		rows = append(rows, chunk(buttons, 2)...)
	}

	if s.Query != "" || s.Specialization != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✖️ Clear Filters", CbClear)))
	}
	return rows
}

// ---------- Profile ----------

func profileText(sess *session.Session) string {
	d := sess.State.Selected
	if d == nil {
		return listText(sess.State)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s · ★ %.1f · %d years\nStatus: %s\n", d.Name, d.Specialization, d.Rating, d.Experience, d.Availability)
	fmt.Fprintf(&b, "\nAbout\n%s\n", d.About)
	fmt.Fprintf(&b, "\nEducation\n%s\n", d.Education)
	fmt.Fprintf(&b, "\nPractice Information\nSpecialization: %s\nExperience: %d years in practice\nConsultation Fee: $%.0f\n",
		d.Specialization, d.Experience, d.ConsultationFee)

	b.WriteString("\nAvailability\n")
	switch {
	case d.Availability == model.OnLeave:
		b.WriteString("On Leave. This doctor is currently not accepting appointments.\n")
	case len(d.Schedule) == 0:
		b.WriteString("No schedule available.\n")
	default:
		slots := availability.SlotsForDay(*d, sess.Day)
		if len(slots) == 0 {
			fmt.Fprintf(&b, "No available slots for %s.\n", sess.Day)
			break
		}
		times := make([]string, 0, len(slots))
		for _, s := range slots {
			times = append(times, s.Time)
		}
		fmt.Fprintf(&b, "%s: %s\n", sess.Day, strings.Join(times, ", "))
	}
	return b.String()
}

func profileRows(sess *session.Session) [][]tgbotapi.InlineKeyboardButton {
	d := sess.State.Selected
	if d == nil {
		return listRows(sess.State)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if d.Availability != model.OnLeave {
		days := make([]tgbotapi.InlineKeyboardButton, 0, len(d.Schedule))
		for _, s := range d.Schedule {
			label := fmt.Sprintf("%s (%d)", s.Day, availability.CountAvailable(s))
			days = append(days, tgbotapi.NewInlineKeyboardButtonData(marked(s.Day == sess.Day, label), PDay+s.Day))
		}
		rows = append(rows, chunk(days, 2)...)
	}
	if session.CanBook(*d) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📅 Book Appointment", CbBook)))
	}
	rows = append(rows, back("Back to Doctors"))
	return rows
}

// ---------- Booking form ----------

func formValue(f *booking.Form, field string) string {
	switch field {
	case booking.FieldPatientName:
		return f.Input.PatientName
	case booking.FieldEmail:
		return f.Input.Email
	case booking.FieldDate:
		if f.Input.Date == "" {
			return ""
		}
		return f.Input.Date + " (" + f.Day + ")"
	case booking.FieldTime:
		return f.Input.Time
	case booking.FieldNotes:
		return f.Input.Notes
	}
	return ""
}

func formText(sess *session.Session) string {
	f := sess.Form

	var b strings.Builder
	fmt.Fprintf(&b, "Book Appointment\nSchedule your consultation with %s\n\n", f.Doctor.Name)
	for _, fl := range fieldLabels {
		val := formValue(f, fl.field)
		if val == "" {
			val = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", fl.label, val)
		if fe, ok := f.Errors[fl.field]; ok {
			fmt.Fprintf(&b, "   ⚠️ %s\n", fe.Message)
		}
	}

	if f.Input.Date != "" && len(f.Slots()) == 0 {
		b.WriteString("\nNo available slots for the selected date\n")
	}
	if p, ok := prompts[sess.Awaiting]; ok {
		b.WriteString("\n✏️ " + p)
	}
	return b.String()
}

func formRows(f *booking.Form, dates []string) [][]tgbotapi.InlineKeyboardButton {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Name", PField+"name"),
			tgbotapi.NewInlineKeyboardButtonData("✉️ Email", PField+"email"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Notes", PField+"notes"),
		),
	}

	dateButtons := make([]tgbotapi.InlineKeyboardButton, 0, len(dates))
	for _, d := range dates {
		dateButtons = append(dateButtons, tgbotapi.NewInlineKeyboardButtonData(marked(d == f.Input.Date, availability.HumanDate(d)), PDate+d))
	}
	rows = append(rows, chunk(dateButtons, 3)...)

	if f.Input.Date != "" {
		slots := f.Slots()
		timeButtons := make([]tgbotapi.InlineKeyboardButton, 0, len(slots))
		for _, s := range slots {
			timeButtons = append(timeButtons, tgbotapi.NewInlineKeyboardButtonData(marked(s.Time == f.Input.Time, s.Time), PTime+s.Time))
		}
		rows = append(rows, chunk(timeButtons, 3)...)
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Confirm Appointment", CbSubmit)),
		back("Back to Profile"),
	)
	return rows
}

func confirmationText(f *booking.Form) string {
	a := f.Appointment
	if a == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("✅ Appointment Confirmed!\n")
	fmt.Fprintf(&b, "Your appointment with %s has been successfully booked.\n\n", f.Doctor.Name)
	b.WriteString("Appointment Details\n")
	fmt.Fprintf(&b, "Doctor: %s\nPatient: %s\nDate: %s\nTime: %s\nEmail: %s\n", f.Doctor.Name, a.PatientName, a.Date, a.Time, a.Email)
	if a.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", a.Notes)
	}
	fmt.Fprintf(&b, "\nBooking reference: %s", a.ID)
	return b.String()
}
