package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/audit"
	"github.com/jwalitptl/clinic-records/internal/service/records"
)

const recentActivityLimit = 5

type Activity struct {
	AuditID     string    `json:"id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type Stats struct {
	TotalPatients      int        `json:"total_patients"`
	ActiveAppointments int        `json:"active_appointments"`
	CompletedToday     int        `json:"completed_today"`
	PendingTreatments  int        `json:"pending_treatments"`
	RecentActivity     []Activity `json:"recent_activity"`
}

type Service struct {
	records records.RecordService
	auditor *audit.Service
	nowFn   func() time.Time
}

func NewService(rec records.RecordService, auditor *audit.Service, nowFn func() time.Time) *Service {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{records: rec, auditor: auditor, nowFn: nowFn}
}

// Stats summarises the store. A non-empty patientID limits every figure to
// that patient's records.
func (s *Service) Stats(ctx context.Context, patientID string) (*Stats, error) {
	scope := records.Filter{PatientID: patientID}

	patients, err := s.records.List(ctx, model.KindPatient, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	appointments, err := s.records.List(ctx, model.KindAppointment, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	treatments, err := s.records.List(ctx, model.KindTreatment, records.Filter{
		PatientID: patientID,
		Status:    string(model.TreatmentStatusPending),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count treatments: %w", err)
	}

	stats := &Stats{
		TotalPatients:     len(patients),
		PendingTreatments: len(treatments),
	}
	today := s.nowFn().Format("2006-01-02")
	for _, e := range appointments {
		appt := e.(model.Appointment)
		switch appt.Status {
		case model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed:
			stats.ActiveAppointments++
		case model.AppointmentStatusCompleted:
			if appt.Date == today {
				stats.CompletedToday++
			}
		}
	}

	if stats.RecentActivity, err = s.recent(ctx, patientID); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) recent(ctx context.Context, patientID string) ([]Activity, error) {
	entries, err := s.auditor.Query(ctx, model.AuditFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}

	out := make([]Activity, 0, recentActivityLimit)
	for i := len(entries) - 1; i >= 0 && len(out) < recentActivityLimit; i-- {
		entry := entries[i]
		subject, _ := s.records.Get(ctx, entry.EntityKind, entry.EntityID)
		if patientID != "" && !concerns(entry, subject, patientID) {
			continue
		}
		out = append(out, Activity{
			AuditID:     entry.ID,
			Description: describe(entry, subject),
			Timestamp:   entry.Timestamp,
		})
	}
	return out, nil
}

func concerns(entry model.AuditEntry, subject model.Entity, patientID string) bool {
	if entry.EntityID == patientID {
		return true
	}
	return subject != nil && subject.PatientRef() == patientID
}

func describe(entry model.AuditEntry, subject model.Entity) string {
	label := string(entry.EntityKind)
	if spec, ok := model.Spec(entry.EntityKind); ok {
		label = spec.Label
	}
	name := entry.EntityID
	if subject != nil && subject.DisplayName() != "" {
		name = subject.DisplayName()
	}
	if name == "" {
		return fmt.Sprintf("%s %s", entry.Action, label)
	}
	return fmt.Sprintf("%s %s (%s)", entry.Action, label, name)
}
