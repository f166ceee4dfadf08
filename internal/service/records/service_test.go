package records

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository/memory"
	"github.com/jwalitptl/clinic-records/internal/service/audit"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/event"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

var fixedNow = time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	store   *memory.Store
	metrics *metrics.Metrics
	events  []event.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := memory.NewSeededStore(memory.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	f := &fixture{store: store, metrics: metrics.NewMetrics("test", nil)}
	bus := event.NewBus(nil)
	bus.Subscribe(event.Wildcard, func(ctx context.Context, evt event.Event) error {
		f.events = append(f.events, evt)
		return nil
	})
	auditor := audit.NewService(store, audit.DefaultAuditedKinds, nil, f.metrics)
	f.svc = NewService(store, auditor, nil, bus, nil, f.metrics)
	return f
}

func (f *fixture) audit(t *testing.T) []model.AuditEntry {
	t.Helper()
	entries, err := f.store.ListAudit(context.Background())
	require.NoError(t, err)
	return entries
}

func TestCreatePatient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, err := f.svc.Create(ctx, model.KindPatient, model.Fields{
		"name":    "Jane Doe",
		"dob":     "1990-05-01",
		"contact": "555-0108",
	}, "Admin User")
	require.NoError(t, err)

	p := e.(model.Patient)
	assert.Equal(t, "pat8", p.ID)
	assert.Equal(t, model.PatientStatusActive, p.Status)
	assert.Equal(t, "2024-03-28", p.AdmittedDate)

	stored, err := f.svc.Get(ctx, model.KindPatient, "pat8")
	require.NoError(t, err)
	assert.Equal(t, p, stored)

	entries := f.audit(t)
	require.Len(t, entries, 6)
	last := entries[5]
	assert.Equal(t, "log6", last.ID)
	assert.Equal(t, "Admin User", last.Actor)
	assert.Equal(t, model.AuditActionCreate, last.Action)
	assert.Equal(t, "Created new patient pat8: Jane Doe", last.Details)
	assert.Equal(t, fixedNow, last.Timestamp)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Mutations.WithLabelValues("PATIENT", "CREATE")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AuditEntries.WithLabelValues("CREATE")))

	require.Len(t, f.events, 1)
	assert.Equal(t, event.EventType("PATIENT_CREATE"), f.events[0].Type)
	assert.Equal(t, "Admin User", f.events[0].Actor)
	assert.Equal(t, event.Change{Old: "", New: "Jane Doe"}, f.events[0].Changes["name"])
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, want := range []string{"pat8", "pat9", "pat10"} {
		e, err := f.svc.Create(ctx, model.KindPatient, model.Fields{
			"name": "Jane Doe", "dob": "1990-05-01", "contact": "555-0108",
		}, "Admin User")
		require.NoError(t, err)
		assert.Equal(t, want, e.EntityID())
	}
}

func TestCreateValidationFailureLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, model.KindPatient, model.Fields{
		"dob":     "12/04/1985",
		"contact": "555-0108",
	}, "Admin User")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	fields := apperrors.FieldsOf(err)
	assert.Equal(t, "Patient name is required.", fields["name"])
	assert.Equal(t, "Date of Birth must be a date in YYYY-MM-DD format.", fields["dob"])

	patients, _ := f.svc.List(ctx, model.KindPatient, Filter{})
	assert.Len(t, patients, 7)
	assert.Len(t, f.audit(t), 5)
	assert.Empty(t, f.events)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ValidationFailures.WithLabelValues("PATIENT")))

	// a failed create does not consume an id
	e, err := f.svc.Create(ctx, model.KindPatient, model.Fields{
		"name": "Jane Doe", "dob": "1990-05-01", "contact": "555-0108",
	}, "Admin User")
	require.NoError(t, err)
	assert.Equal(t, "pat8", e.EntityID())
}

func TestCreateRejectsUnknownAndIDFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), model.KindDoctor, model.Fields{
		"id":   "doc99",
		"ward": "B",
		"name": "Dr. Who",
	}, "Admin User")
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, apperrors.FieldsOf(err), "id")
	assert.Contains(t, apperrors.FieldsOf(err), "ward")

	_, err = f.svc.Create(context.Background(), "INVOICE", model.Fields{}, "Admin User")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateUnauditedKind(t *testing.T) {
	f := newFixture(t)

	e, err := f.svc.Create(context.Background(), model.KindDoctor, model.Fields{
		"name": "Dr. Who", "specialty": "Time", "contact": "555-0206", "email": "who@hospital.com",
	}, "Admin User")
	require.NoError(t, err)
	assert.Equal(t, "doc6", e.EntityID())
	assert.Equal(t, model.StaffStatusActive, e.(model.Doctor).Status)
	assert.Len(t, f.audit(t), 5)
	assert.Len(t, f.events, 1)
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, err := f.svc.Update(ctx, model.KindPatient, "pat1", model.Fields{"contact": "555-9999"}, "Nurse User")
	require.NoError(t, err)

	p := e.(model.Patient)
	assert.Equal(t, "555-9999", p.Contact)
	assert.Equal(t, "Alice Smith", p.Name)

	entries := f.audit(t)
	require.Len(t, entries, 6)
	assert.Equal(t, model.AuditActionUpdate, entries[5].Action)
	assert.Equal(t, "Updated patient pat1 fields: contact", entries[5].Details)

	require.Len(t, f.events, 1)
	assert.Equal(t, map[string]event.Change{"contact": {Old: "555-0101", New: "555-9999"}}, f.events[0].Changes)
}

func TestUpdateAuditNamesChangedFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Update(ctx, model.KindAppointment, "app1", model.Fields{"notes": "Bring inhaler."}, "Receptionist User")
	require.NoError(t, err)

	// resubmitting an unchanged status is not reported
	_, err = f.svc.Update(ctx, model.KindTreatment, "trt1", model.Fields{"status": "IN_PROGRESS", "description": "Daily walks."}, "Doctor User")
	require.NoError(t, err)

	entries := f.audit(t)
	require.Len(t, entries, 7)
	assert.Equal(t, "Updated appointment app1 fields: notes", entries[5].Details)
	assert.Equal(t, "Updated treatment trt1 fields: description", entries[6].Details)
}

func TestUpdateFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Update(ctx, model.KindPatient, "pat99", model.Fields{"contact": "x"}, "Admin User")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.Update(ctx, model.KindPatient, "pat1", model.Fields{"status": "ASLEEP"}, "Admin User")
	assert.True(t, apperrors.IsValidation(err))

	stored, _ := f.svc.Get(ctx, model.KindPatient, "pat1")
	assert.Equal(t, model.PatientStatusActive, stored.(model.Patient).Status)
	assert.Len(t, f.audit(t), 5)
}

func TestAppointmentWorkflow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	appt, err := f.svc.Confirm(ctx, "app2", "Receptionist User")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, appt.Status)

	appt, err = f.svc.Cancel(ctx, "app2", "Receptionist User")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, appt.Status)

	entries := f.audit(t)
	require.Len(t, entries, 7)
	assert.Equal(t, "Updated appointment app2 status to CONFIRMED", entries[5].Details)
	assert.Equal(t, model.AuditActionDelete, entries[6].Action)
	assert.Equal(t, "Cancelled appointment app2 for patient pat2", entries[6].Details)

	// app2 is still stored, only its status changed
	stored, err := f.svc.Get(ctx, model.KindAppointment, "app2")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", stored.CurrentStatus())

	_, err = f.svc.Cancel(ctx, "app4", "Receptionist User")
	assert.True(t, apperrors.IsBadRequest(err))
	assert.Len(t, f.audit(t), 7)
}

func TestTreatmentDecisions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	trt, err := f.svc.Approve(ctx, "trt3", "Doctor User")
	require.NoError(t, err)
	assert.Equal(t, model.TreatmentStatusApproved, trt.Status)

	entries := f.audit(t)
	require.Len(t, entries, 6)
	assert.Equal(t, model.AuditActionApprove, entries[5].Action)
	assert.Equal(t, "Approved Initial Wellness Plan trt3 plan for patient pat3", entries[5].Details)

	_, err = f.svc.Reject(ctx, "trt3", "Doctor User")
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = f.svc.Approve(ctx, "trt99", "Doctor User")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	active, err := f.svc.List(ctx, model.KindPatient, Filter{Status: "ACTIVE"})
	require.NoError(t, err)
	assert.Len(t, active, 4)

	found, _ := f.svc.List(ctx, model.KindPatient, Filter{Search: "asthma"})
	require.Len(t, found, 1)
	assert.Equal(t, "pat7", found[0].EntityID())

	mine, _ := f.svc.List(ctx, model.KindAppointment, Filter{PatientID: "pat1"})
	assert.Len(t, mine, 2)

	mineConfirmed, _ := f.svc.List(ctx, model.KindAppointment, Filter{PatientID: "pat1", Status: "CONFIRMED"})
	require.Len(t, mineConfirmed, 1)
	assert.Equal(t, "app1", mineConfirmed[0].EntityID())
}
