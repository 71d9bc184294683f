// Package catalog loads and validates the doctor catalog the bot starts with.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"github.com/napryag/tg_doctors_bot/pkg/utils/errs"
	"gopkg.in/yaml.v3"
)

//go:embed doctors.yml
var embedded []byte

type document struct {
	Doctors []model.Doctor `yaml:"doctors" validate:"unique=ID,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("availability", func(fl validator.FieldLevel) bool {
		return model.AvailabilityStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		day := fl.Field().String()
		for d := time.Sunday; d <= time.Saturday; d++ {
			if d.String() == day {
				return true
			}
		}
		return false
	})
	return v
}

// Default returns the catalog bundled with the binary.
func Default() ([]model.Doctor, error) {
	doctors, err := Decode(bytes.NewReader(embedded))
	if err != nil {
		return nil, errs.New("failed to decode embedded catalog").Wrap(err)
	}
	return doctors, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) ([]model.Doctor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New("failed to open catalog file").Arg("path", path).Wrap(err)
	}
	defer f.Close()

	doctors, err := Decode(f)
	if err != nil {
		return nil, errs.New("failed to decode catalog file").Arg("path", path).Wrap(err)
	}
	return doctors, nil
}

// Decode parses and validates a YAML catalog. An empty document is an empty catalog.
func Decode(r io.Reader) ([]model.Doctor, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.New("failed to unmarshal YAML").Wrap(err)
	}
	if err := Validate(doc.Doctors); err != nil {
		return nil, err
	}
	if doc.Doctors == nil {
		doc.Doctors = []model.Doctor{}
	}
	return doc.Doctors, nil
}

// Validate checks id uniqueness and per-record constraints.
func Validate(doctors []model.Doctor) error {
	if err := validate.Struct(document{Doctors: doctors}); err != nil {
		return errs.New("catalog validation failed").Arg("doctors", len(doctors)).Wrap(err)
	}
	return nil
}

// Source serves a fixed, already validated catalog.
type Source struct {
	doctors []model.Doctor
}

func NewSource(doctors []model.Doctor) *Source {
	return &Source{doctors: doctors}
}

func (s *Source) ListDoctors(_ context.Context) ([]model.Doctor, error) {
	out := make([]model.Doctor, len(s.doctors))
	copy(out, s.doctors)
	return out, nil
}
