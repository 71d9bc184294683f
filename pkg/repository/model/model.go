package model

import (
	"context"
	"time"
)

type AvailabilityStatus string

const (
	AvailableToday AvailabilityStatus = "Available Today"
	FullyBooked    AvailabilityStatus = "Fully Booked"
	OnLeave        AvailabilityStatus = "On Leave"
	AvailableSoon  AvailabilityStatus = "Available Soon"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailableToday, FullyBooked, OnLeave, AvailableSoon:
		return true
	}
	return false
}

// Bookable reports whether a booking may be started for a doctor with this status.
func (s AvailabilityStatus) Bookable() bool {
	return s == AvailableToday || s == AvailableSoon
}

type TimeSlot struct {
	Time      string `json:"time" yaml:"time" validate:"required"` // opaque label, e.g. "09:00"
	Available bool   `json:"available" yaml:"available"`
}

type DoctorSchedule struct {
	Day   string     `json:"day" yaml:"day" validate:"weekday"`
	Slots []TimeSlot `json:"slots" yaml:"slots" validate:"dive"`
}

type Doctor struct {
	ID              string             `json:"id" yaml:"id" validate:"required"`
	Name            string             `json:"name" yaml:"name" validate:"required"`
	Specialization  string             `json:"specialization" yaml:"specialization" validate:"required"`
	ProfileImage    string             `json:"profileImage" yaml:"profile_image"`
	Availability    AvailabilityStatus `json:"availability" yaml:"availability" validate:"availability"`
	Rating          float64            `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Experience      int                `json:"experience" yaml:"experience" validate:"gte=0"`
	Education       string             `json:"education" yaml:"education"`
	About           string             `json:"about" yaml:"about"`
	ConsultationFee float64            `json:"consultationFee" yaml:"consultation_fee" validate:"gte=0"`
	Schedule        []DoctorSchedule   `json:"schedule" yaml:"schedule" validate:"dive"`
}

type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusPending   AppointmentStatus = "pending"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID          string            `json:"id"`
	DoctorID    string            `json:"doctorId"`
	PatientName string            `json:"patientName"`
	Email       string            `json:"email"`
	Date        string            `json:"date"` // YYYY-MM-DD
	Time        string            `json:"time"` // TimeSlot.Time
	Notes       string            `json:"notes,omitempty"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// BookingForm is the raw, unvalidated input of the booking form.
type BookingForm struct {
	PatientName string
	Email       string
	Date        string
	Time        string
	Notes       string
}

type CatalogSource interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
}
