package appointments

import (
	"testing"

	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
)

func TestStoreAppendOnly(t *testing.T) {
	var s Store
	if s.Len() != 0 || len(s.List()) != 0 {
		t.Fatal("zero store not empty")
	}

	s.Add(model.Appointment{ID: "a", DoctorID: "1"})
	s.Add(model.Appointment{ID: "b", DoctorID: "2"})
	s.Add(model.Appointment{ID: "c", DoctorID: "1"})

	got := s.List()
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("List() = %+v", got)
	}

	got[0].ID = "mutated"
	if s.List()[0].ID != "a" {
		t.Fatal("List() exposes internal storage")
	}

	if mine := s.ForDoctor("1"); len(mine) != 2 || mine[1].ID != "c" {
		t.Fatalf("ForDoctor = %+v", mine)
	}
}

func TestWithLeavesOriginalUntouched(t *testing.T) {
	var s Store
	s.Add(model.Appointment{ID: "a"})

	next := s.With(model.Appointment{ID: "b"})
	other := s.With(model.Appointment{ID: "c"})

	if s.Len() != 1 {
		t.Fatalf("original grew to %d", s.Len())
	}
	if l := next.List(); len(l) != 2 || l[0].ID != "a" || l[1].ID != "b" {
		t.Fatalf("next = %+v", l)
	}
	if l := other.List(); len(l) != 2 || l[1].ID != "c" {
		t.Fatalf("other = %+v", l)
	}
}
