package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/napryag/tg_doctors_bot/pkg/repository/catalog"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"github.com/napryag/tg_doctors_bot/pkg/utils/errs"
)

// PGRepo reads the doctor catalog from PostgreSQL. It never writes.
type PGRepo struct{ pool *pgxpool.Pool }

func NewRepo(ctx context.Context, dsn string) (*PGRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errs.New("failed to create pool").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.New("failed to ping postgres").Wrap(err)
	}
	return &PGRepo{pool: pool}, nil
}

func (r *PGRepo) Close() {
	r.pool.Close()
}

// One row per (doctor, schedule day, slot); day and slot columns are NULL for doctors
// without a schedule.
const qDoctors = `
	SELECT d.id, d.name, d.specialization, d.profile_image, d.availability,
	       d.rating, d.experience, d.education, d.about, d.consultation_fee,
	       s.day, t.time, t.available
	FROM doctor d
	LEFT JOIN doctor_schedule s ON s.doctor_id = d.id
	LEFT JOIN time_slot t ON t.schedule_id = s.id
	ORDER BY d.position, s.position, t.position;
`

// Row is one flattened result row of the catalog query.
type Row struct {
	Doctor    model.Doctor
	Day       *string
	Time      *string
	Available *bool
}

func (r *PGRepo) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := r.pool.Query(ctx, qDoctors)
	if err != nil {
		return nil, errs.New("failed to query doctors").Wrap(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Row, error) {
		var (
			rr     Row
			status string
		)
		d := &rr.Doctor
		err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.ProfileImage, &status,
			&d.Rating, &d.Experience, &d.Education, &d.About, &d.ConsultationFee,
			&rr.Day, &rr.Time, &rr.Available)
		d.Availability = model.AvailabilityStatus(status)
		return rr, err
	})
	if err != nil {
		return nil, errs.New("failed to scan doctors").Wrap(err)
	}

	doctors := Assemble(out)
	if err := catalog.Validate(doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Assemble folds flattened rows back into doctors, keeping first-seen order of doctors,
// days and slots.
func Assemble(rows []Row) []model.Doctor {
	doctors := []model.Doctor{}
	index := map[string]int{}

	for _, row := range rows {
		i, ok := index[row.Doctor.ID]
		if !ok {
			d := row.Doctor
			d.Schedule = []model.DoctorSchedule{}
			doctors = append(doctors, d)
			i = len(doctors) - 1
			index[d.ID] = i
		}
		if row.Day == nil {
			continue
		}

		d := &doctors[i]
		n := len(d.Schedule)
		if n == 0 || d.Schedule[n-1].Day != *row.Day {
			d.Schedule = append(d.Schedule, model.DoctorSchedule{Day: *row.Day, Slots: []model.TimeSlot{}})
			n++
		}
		if row.Time != nil {
			slot := model.TimeSlot{Time: *row.Time}
			if row.Available != nil {
				slot.Available = *row.Available
			}
			d.Schedule[n-1].Slots = append(d.Schedule[n-1].Slots, slot)
		}
	}
	return doctors
}
