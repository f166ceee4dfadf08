package audit

import (
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-records/internal/model"
)

func noun(kind model.EntityKind) string {
	if spec, ok := model.Spec(kind); ok {
		return spec.Noun()
	}
	return strings.ToLower(string(kind))
}

// CreateDetails describes a newly created record.
func CreateDetails(e model.Entity) string {
	ref := e.PatientRef()
	if ref == "" || ref == e.EntityID() {
		return fmt.Sprintf("Created new %s %s: %s", noun(e.Kind()), e.EntityID(), e.DisplayName())
	}
	return fmt.Sprintf("Created new %s %s for patient %s", noun(e.Kind()), e.EntityID(), ref)
}

// UpdateDetails describes an update by the fields whose values changed.
// A status change on appointments and treatments leads the summary.
func UpdateDetails(after model.Entity, changed []string) string {
	prefix := fmt.Sprintf("Updated %s %s", noun(after.Kind()), after.EntityID())

	fields := make([]string, 0, len(changed))
	statusChanged := false
	for _, f := range changed {
		if f == "status" && hasWorkflow(after.Kind()) {
			statusChanged = true
			continue
		}
		fields = append(fields, f)
	}

	switch {
	case statusChanged && len(fields) == 0:
		return fmt.Sprintf("%s status to %s", prefix, after.CurrentStatus())
	case statusChanged:
		return fmt.Sprintf("%s status to %s, fields: %s", prefix, after.CurrentStatus(), strings.Join(fields, ", "))
	case len(fields) == 0:
		return prefix + " with no changes"
	default:
		return fmt.Sprintf("%s fields: %s", prefix, strings.Join(fields, ", "))
	}
}

func hasWorkflow(kind model.EntityKind) bool {
	return kind == model.KindAppointment || kind == model.KindTreatment
}

// TransitionDetails describes a workflow status change.
func TransitionDetails(e model.Entity, action model.AuditAction) string {
	switch action {
	case model.AuditActionDelete:
		return fmt.Sprintf("Cancelled %s %s for patient %s", noun(e.Kind()), e.EntityID(), e.PatientRef())
	case model.AuditActionApprove:
		return fmt.Sprintf("Approved %s %s plan for patient %s", e.DisplayName(), e.EntityID(), e.PatientRef())
	default:
		return fmt.Sprintf("Updated %s %s status to %s", noun(e.Kind()), e.EntityID(), e.CurrentStatus())
	}
}
