// Package directory derives the visible doctor list and the specialization options
// from the catalog and the current search state.
package directory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"golang.org/x/text/cases"
)

// Filter returns the doctors whose name or specialization contains query
// (case-insensitive) and whose specialization equals specialization. Empty values
// match everything. Catalog order is preserved.
func Filter(doctors []model.Doctor, query, specialization string) []model.Doctor {
	fold := cases.Fold()
	q := fold.String(query)

	out := make([]model.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if !Matches(d, q, specialization, fold) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Matches expects foldedQuery to be already case-folded.
func Matches(d model.Doctor, foldedQuery, specialization string, fold cases.Caser) bool {
	matchesSearch := foldedQuery == "" ||
		strings.Contains(fold.String(d.Name), foldedQuery) ||
		strings.Contains(fold.String(d.Specialization), foldedQuery)

	matchesSpecialization := specialization == "" || d.Specialization == specialization

	return matchesSearch && matchesSpecialization
}

// Specializations returns the distinct specializations in ascending order.
func Specializations(doctors []model.Doctor) []string {
	seen := make(map[string]struct{}, len(doctors))
	out := make([]string, 0, len(doctors))
	for _, d := range doctors {
		if _, ok := seen[d.Specialization]; ok {
			continue
		}
		seen[d.Specialization] = struct{}{}
		out = append(out, d.Specialization)
	}
	sort.Strings(out)
	return out
}

// Summary renders the list heading, e.g. `2 doctors available for "chen" in Dermatology`.
func Summary(count int, query, specialization string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d doctor", count)
	if count != 1 {
		b.WriteString("s")
	}
	b.WriteString(" available")
	if query != "" {
		fmt.Fprintf(&b, " for %q", query)
	}
	if specialization != "" {
		fmt.Fprintf(&b, " in %s", specialization)
	}
	return b.String()
}
