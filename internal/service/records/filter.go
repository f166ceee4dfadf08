package records

import (
	"strings"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// Filter narrows a list at the read boundary. Zero fields match everything.
type Filter struct {
	// Status matches the record status exactly.
	Status string
	// Search is a case-insensitive substring matched against every field value.
	Search string
	// PatientID keeps records that reference the patient (or are the patient).
	PatientID string
}

func (f Filter) Matches(e model.Entity) bool {
	if f.Status != "" && e.CurrentStatus() != f.Status {
		return false
	}
	if f.PatientID != "" && e.PatientRef() != f.PatientID {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		for _, v := range model.FieldsOf(e) {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the matching records, preserving order.
func (f Filter) Apply(entities []model.Entity) []model.Entity {
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
