package directory

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"golang.org/x/text/cases"
)

var doctors = []model.Doctor{
	{ID: "1", Name: "Dr. Sarah Johnson", Specialization: "Cardiology"},
	{ID: "2", Name: "Dr. Michael Chen", Specialization: "Dermatology"},
	{ID: "3", Name: "Dr. Emily Rodriguez", Specialization: "Pediatrics"},
	{ID: "4", Name: "Dr. James Wilson", Specialization: "Orthopedics"},
	{ID: "5", Name: "Dr. Lisa Thompson", Specialization: "Neurology"},
	{ID: "6", Name: "Dr. Robert Kim", Specialization: "Internal Medicine"},
	{ID: "7", Name: "Dr. Anna Park", Specialization: "Cardiology"},
}

func ids(ds []model.Doctor) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.ID
	}
	return strings.Join(parts, ",")
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		specialization string
		want           string
	}{
		{name: "no filters", want: "1,2,3,4,5,6,7"},
		{name: "name case-insensitive", query: "CHEN", want: "2"},
		{name: "specialization substring", query: "logy", want: "1,2,5,7"},
		{name: "common prefix", query: "dr.", want: "1,2,3,4,5,6,7"},
		{name: "exact specialization", specialization: "Cardiology", want: "1,7"},
		{name: "specialization is exact not substring", specialization: "Cardio", want: ""},
		{name: "specialization is case-sensitive", specialization: "cardiology", want: ""},
		{name: "query and specialization", query: "park", specialization: "Cardiology", want: "7"},
		{name: "conflicting", query: "chen", specialization: "Cardiology", want: ""},
		{name: "no match", query: "zzz", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(doctors, tt.query, tt.specialization))
			if got != tt.want {
				t.Fatalf("Filter(%q, %q) = %q, want %q", tt.query, tt.specialization, got, tt.want)
			}
		})
	}
}

func TestFilterBothDirections(t *testing.T) {
	queries := []string{"", "a", "DR", "o", "ology", "kim", "x"}
	specs := append([]string{""}, Specializations(doctors)...)
	fold := cases.Fold()

	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 20; round++ {
		catalog := make([]model.Doctor, 0, len(doctors))
		for _, d := range doctors {
			if rng.Intn(2) == 0 {
				catalog = append(catalog, d)
			}
		}

		for _, q := range queries {
			for _, s := range specs {
				got := Filter(catalog, q, s)
				in := map[string]bool{}
				for _, d := range got {
					in[d.ID] = true
					if !Matches(d, fold.String(q), s, fold) {
						t.Fatalf("Filter(%q,%q) kept %s which does not match", q, s, d.ID)
					}
				}
				for _, d := range catalog {
					if Matches(d, fold.String(q), s, fold) && !in[d.ID] {
						t.Fatalf("Filter(%q,%q) dropped matching %s", q, s, d.ID)
					}
				}
			}
		}
	}
}

func TestFilterEmptyCatalog(t *testing.T) {
	if got := Filter(nil, "x", "y"); len(got) != 0 {
		t.Fatalf("Filter(nil) = %v", got)
	}
	if got := Specializations(nil); len(got) != 0 {
		t.Fatalf("Specializations(nil) = %v", got)
	}
}

func TestSpecializations(t *testing.T) {
	got := Specializations(doctors)
	want := []string{"Cardiology", "Dermatology", "Internal Medicine", "Neurology", "Orthopedics", "Pediatrics"}

	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Specializations() = %v, want %v", got, want)
	}
	if !sort.StringsAreSorted(got) {
		t.Fatal("not sorted")
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		count int
		query string
		spec  string
		want  string
	}{
		{6, "", "", "6 doctors available"},
		{1, "", "", "1 doctor available"},
		{0, "chen", "", `0 doctors available for "chen"`},
		{2, "dr", "Cardiology", `2 doctors available for "dr" in Cardiology`},
	}
	for _, tt := range tests {
		if got := Summary(tt.count, tt.query, tt.spec); got != tt.want {
			t.Errorf("Summary(%d,%q,%q) = %q, want %q", tt.count, tt.query, tt.spec, got, tt.want)
		}
	}
}
